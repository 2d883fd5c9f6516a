package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

var ErrInvalidConfig = errors.New("invalid policy config")

// InvalidIDsError lists every token of a field that failed to parse.
type InvalidIDsError struct {
	Field  string
	Tokens []string
}

func (e *InvalidIDsError) Error() string {
	quoted := make([]string, 0, len(e.Tokens))
	for _, token := range e.Tokens {
		quoted = append(quoted, fmt.Sprintf("%q", token))
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(quoted, ", "))
}

func (e *InvalidIDsError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Source is the raw configuration a Store is loaded from.
type Source struct {
	BotID       string
	ChannelIDs  string
	ExemptUsers []string
}

// Store is the honeypot policy. It is never mutated after construction and is
// shared by every message handler without locking.
type Store struct {
	botID    model.ID
	channels map[model.ID]struct{}
	exempt   map[model.ID]struct{}
}

func NewStore(botID model.ID, channels []model.ID, exemptUsers []model.ID) (*Store, error) {
	if botID == 0 {
		return nil, fmt.Errorf("%w: bot id is required", ErrInvalidConfig)
	}

	return &Store{
		botID:    botID,
		channels: toSet(channels),
		exempt:   toSet(exemptUsers),
	}, nil
}

func Load(src Source) (*Store, error) {
	var errs []error

	botID, err := model.ParseID(src.BotID)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: bot id: %v", ErrInvalidConfig, err))
	}

	channels, err := ParseIDList("channel ids", src.ChannelIDs)
	if err != nil {
		errs = append(errs, err)
	}

	exempt, err := parseIDTokens("exempt user ids", src.ExemptUsers)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return NewStore(botID, channels, exempt)
}

// ParseIDList parses a comma separated id list. An empty list is valid; every
// malformed token is reported in the returned *InvalidIDsError.
func ParseIDList(field, raw string) ([]model.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return parseIDTokens(field, strings.Split(raw, ","))
}

func parseIDTokens(field string, tokens []string) ([]model.ID, error) {
	ids := make([]model.ID, 0, len(tokens))
	var invalid []string
	for _, token := range tokens {
		id, err := model.ParseID(token)
		if err != nil {
			invalid = append(invalid, strings.TrimSpace(token))
			continue
		}
		ids = append(ids, id)
	}
	if len(invalid) > 0 {
		return nil, &InvalidIDsError{Field: field, Tokens: invalid}
	}
	return ids, nil
}

func (s *Store) BotID() model.ID {
	return s.botID
}

func (s *Store) IsMonitored(channelID model.ID) bool {
	_, ok := s.channels[channelID]
	return ok
}

func (s *Store) IsExempt(userID model.ID) bool {
	_, ok := s.exempt[userID]
	return ok
}

func (s *Store) MonitoredChannels() []model.ID {
	return fromSet(s.channels)
}

func (s *Store) ExemptUsers() []model.ID {
	return fromSet(s.exempt)
}

func toSet(ids []model.ID) map[model.ID]struct{} {
	set := make(map[model.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func fromSet(set map[model.ID]struct{}) []model.ID {
	ids := make([]model.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
