package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a platform identifier for users, channels and guilds. Discord snowflakes
// and Telegram chat ids both fit in a signed 64-bit integer.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseID(raw string) (ID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("empty id")
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", value, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("id %q must be non-zero", value)
	}
	return ID(n), nil
}
