package config

// Config is the root configuration structure for hubwatch.
// Serialised to ~/.hubwatch/config.json. It is constructed once at
// startup and treated as read-only afterwards; components receive it
// by reference and never mutate it.
type Config struct {
	// Provider selects the code-hosting backend for chat commands:
	// "github" (default) or "gitlab".
	Provider string         `mapstructure:"provider" json:"provider"`
	Telegram TelegramConfig `mapstructure:"telegram" json:"telegram"`
	GitHub   GitHubConfig   `mapstructure:"github"   json:"github"`
	GitLab   GitLabConfig   `mapstructure:"gitlab"   json:"gitlab"`
	Webhook  WebhookConfig  `mapstructure:"webhook"  json:"webhook"`
	Notify   NotifyConfig   `mapstructure:"notify"   json:"notify"`
	Digest   DigestConfig   `mapstructure:"digest"   json:"digest"`
}

// TelegramConfig holds the bot credential and the destination chat.
type TelegramConfig struct {
	Token string `mapstructure:"token" json:"token"`
	// ChatID is the chat that receives webhook notifications.
	ChatID string `mapstructure:"chat_id" json:"chat_id"`
	// AdminID optionally restricts commands to a single Telegram user.
	AdminID string `mapstructure:"admin_id" json:"admin_id"`
}

// GitHubConfig holds credentials for a GitHub instance.
type GitHubConfig struct {
	Token string `mapstructure:"token" json:"token"`
	// Username is the default account for profile/repos commands
	// when the user doesn't name one.
	Username string `mapstructure:"username" json:"username"`
	// Host allows enterprise GitHub (e.g. github.mycompany.com).
	Host string `mapstructure:"host" json:"host"`
}

// GitLabConfig holds credentials for a GitLab instance.
type GitLabConfig struct {
	Token    string `mapstructure:"token"    json:"token"`
	Username string `mapstructure:"username" json:"username"`
	Host     string `mapstructure:"host"     json:"host"`
}

// WebhookConfig controls the inbound event listener.
type WebhookConfig struct {
	// Port the HTTP listener binds (default: 8000).
	Port int    `mapstructure:"port" json:"port"`
	Host string `mapstructure:"host" json:"host"`
	// Secret is the shared HMAC-SHA256 key GitHub signs payloads with.
	Secret string `mapstructure:"secret" json:"secret"`
	// MaxBodyBytes caps the request body read from a sender (default: 1 MiB).
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" json:"max_body_bytes"`
	// MaxCommits caps how many commit summaries a push notification shows.
	MaxCommits int `mapstructure:"max_commits" json:"max_commits"`
}

// NotifyConfig controls which webhook events become chat notifications.
type NotifyConfig struct {
	// Events lists event types to forward (empty = defaults: push,
	// issues, pull_request, star, fork, release).
	Events []string `mapstructure:"events" json:"events"`
}

// DigestConfig controls the optional scheduled repository digest.
type DigestConfig struct {
	// Schedule is a cron expression ("0 9 * * *", "@daily", "@every 6h").
	// Empty disables the digest.
	Schedule string `mapstructure:"schedule" json:"schedule"`
	// Repos lists "owner/name" entries summarised on each fire.
	Repos []string `mapstructure:"repos" json:"repos"`
}
