package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
)

type Config struct {
	Platform string         `yaml:"platform"`
	Log      LogConfig      `yaml:"log"`
	Discord  DiscordConfig  `yaml:"discord"`
	Telegram TelegramConfig `yaml:"telegram"`
	Policy   PolicyConfig   `yaml:"policy"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DiscordConfig struct {
	Token string `yaml:"token"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"`
}

// PolicyConfig keeps ids as raw strings; they are validated when the policy
// store is built so every malformed entry can be reported at once.
type PolicyConfig struct {
	BotID         string   `yaml:"bot_id"`
	ChannelIDs    string   `yaml:"channel_ids"`
	ExemptUserIDs []string `yaml:"exempt_user_ids"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	GuildTTL time.Duration `yaml:"guild_ttl"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Platform: string(enums.PlatformDiscord),
		Log:      LogConfig{Level: "info", Format: "json"},
		Telegram: TelegramConfig{PollTimeout: 30},
		Cache:    CacheConfig{GuildTTL: 5 * time.Minute},
		Metrics:  MetricsConfig{Addr: ":9090"},
	}
}

// LoadDotEnv exports variables from .env files that are not already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch enums.Platform(c.Platform) {
	case enums.PlatformDiscord:
		if strings.TrimSpace(c.Discord.Token) == "" {
			return fmt.Errorf("discord token is required")
		}
	case enums.PlatformTelegram:
		if strings.TrimSpace(c.Telegram.Token) == "" {
			return fmt.Errorf("telegram token is required")
		}
	default:
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	return nil
}

func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != "" && c.Cache.GuildTTL > 0
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v, _ := getFirstDefined([]string{"PLATFORM", "HONEYBOT_PLATFORM"}); v != "" {
		cfg.Platform = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		if enums.Platform(strings.ToLower(strings.TrimSpace(cfg.Platform))) == enums.PlatformTelegram {
			cfg.Telegram.Token = v
		} else {
			cfg.Discord.Token = v
		}
	}
	if err := overrideInt("TELEGRAM_POLL_TIMEOUT", &cfg.Telegram.PollTimeout); err != nil {
		return err
	}

	if v, _ := getFirstDefined([]string{"BOT_ID", "DISCORD_BOT_ID"}); v != "" {
		cfg.Policy.BotID = v
	}
	if v, _ := getFirstDefined([]string{"CHANNEL_IDS", "DISCORD_CHANNEL_IDS"}); v != "" {
		cfg.Policy.ChannelIDs = v
	}
	if v := os.Getenv("EXEMPT_USER_IDS"); v != "" {
		cfg.Policy.ExemptUserIDs = strings.Split(v, ",")
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}
	if err := overrideDuration("GUILD_CACHE_TTL", &cfg.Cache.GuildTTL); err != nil {
		return err
	}

	if v := strings.TrimSpace(os.Getenv("METRICS_ADDR")); v != "" {
		if strings.EqualFold(v, "off") {
			v = ""
		}
		cfg.Metrics.Addr = v
	}

	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

func getFirstDefined(keys []string) (string, string) {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value, key
		}
	}
	if len(keys) == 0 {
		return "", ""
	}
	return "", keys[0]
}
