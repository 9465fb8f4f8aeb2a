package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".hubwatch"
	DefaultConfigFile = "config.json"

	// DefaultWebhookPort is the inbound listener port when none is configured.
	DefaultWebhookPort = 8000
	// DefaultMaxBodyBytes caps webhook request bodies (1 MiB).
	DefaultMaxBodyBytes = 1 << 20
	// DefaultMaxCommits is how many commit summaries a push notification shows.
	DefaultMaxCommits = 3
)

// Load reads the config file (if present) and environment variables and
// returns a populated Config. The configPath flag may override the default
// location. A missing config file is not an error: a fully env-configured
// deployment never writes one.
func Load(configPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, DefaultConfigDir))
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !isNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
		// No config file yet — env vars and defaults carry the load.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every credential the process needs is present.
// It is called before any network listener binds; a failure here is fatal.
func (c *Config) Validate() error {
	var missing []string
	if c.Telegram.Token == "" {
		missing = append(missing, "telegram.token (TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == "" {
		missing = append(missing, "telegram.chat_id (TELEGRAM_CHAT_ID)")
	}
	if c.Webhook.Secret == "" {
		missing = append(missing, "webhook.secret (GITHUB_WEBHOOK_SECRET)")
	}
	switch c.Provider {
	case "", "github":
		if c.GitHub.Token == "" {
			missing = append(missing, "github.token (GITHUB_TOKEN)")
		}
	case "gitlab":
		if c.GitLab.Token == "" {
			missing = append(missing, "gitlab.token (GITLAB_TOKEN)")
		}
	default:
		return fmt.Errorf("invalid provider %q (valid: github, gitlab)", c.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Save writes the config to disk as JSON.
func Save(cfg *Config, configPath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	if configPath == "" {
		configPath = filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o600)
}

// ConfigPath returns the effective config file path.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// bindLegacyEnv maps the flat environment names the bot has always been
// deployed with onto their config keys, so TELEGRAM_BOT_TOKEN keeps
// working alongside the replacer-derived TELEGRAM_TOKEN form.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN", "TELEGRAM_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("telegram.admin_id", "BOT_ADMIN_ID")
	_ = v.BindEnv("github.token", "GITHUB_TOKEN")
	_ = v.BindEnv("github.username", "GITHUB_USERNAME")
	_ = v.BindEnv("gitlab.token", "GITLAB_TOKEN")
	_ = v.BindEnv("webhook.secret", "GITHUB_WEBHOOK_SECRET")
	_ = v.BindEnv("webhook.port", "WEBHOOK_PORT")
	_ = v.BindEnv("webhook.host", "WEBHOOK_HOST")
}

// setDefaults populates viper with sensible out-of-the-box values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "github")

	v.SetDefault("webhook.port", DefaultWebhookPort)
	v.SetDefault("webhook.host", "0.0.0.0")
	v.SetDefault("webhook.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("webhook.max_commits", DefaultMaxCommits)

	v.SetDefault("github.host", "github.com")
	v.SetDefault("gitlab.host", "gitlab.com")
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file")
}
