package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Interactive setup wizard for hubwatch",
	Long: `Walks you through configuring hubwatch:
  - Telegram bot token and target chat
  - Repository provider credentials (GitHub or GitLab)
  - Webhook listener port and signing secret

The result is written to ~/.hubwatch/config.json. Every value can
also be supplied via environment variables (TELEGRAM_BOT_TOKEN,
GITHUB_TOKEN, GITHUB_WEBHOOK_SECRET, ...).`,
	RunE: runOnboard,
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	MarginBottom(1)

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

func runOnboard(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  hubwatch — Telegram bridge for your repositories"))
	fmt.Println(dimStyle.Render("  Chat commands query your repos; webhooks become chat notifications.\n"))

	// Load existing config or start fresh.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = &config.Config{}
	}

	// --- Step 1: Telegram ---
	fmt.Println(headerStyle.Render("  Step 1/3 · Telegram"))
	fmt.Println(dimStyle.Render("  Create a bot with @BotFather and paste its token here. The chat"))
	fmt.Println(dimStyle.Render("  ID is where notifications go; your own user ID restricts who may"))
	fmt.Println(dimStyle.Render("  issue commands (leave blank to allow anyone).\n"))

	tgForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram bot token").
				Description("From @BotFather, looks like 123456:ABC-DEF...").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Telegram.Token).
				Validate(required("bot token")),
			huh.NewInput().
				Title("Chat ID for notifications").
				Description("Send a message to the bot, then check getUpdates, or use @userinfobot.").
				Value(&cfg.Telegram.ChatID).
				Validate(required("chat ID")),
			huh.NewInput().
				Title("Admin user ID (optional)").
				Description("Only this Telegram user may issue commands. Blank allows everyone.").
				Value(&cfg.Telegram.AdminID),
		),
	)
	if err := tgForm.Run(); err != nil {
		return err
	}

	// --- Step 2: Repository provider ---
	fmt.Println(headerStyle.Render("  Step 2/3 · Repository provider"))

	if cfg.Provider == "" {
		cfg.Provider = "github"
	}
	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(
					huh.NewOption("GitHub", "github"),
					huh.NewOption("GitLab", "gitlab"),
				).
				Value(&cfg.Provider),
		),
	)
	if err := providerForm.Run(); err != nil {
		return err
	}

	switch cfg.Provider {
	case "github":
		ghForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("GitHub personal access token").
					Description("Needs repo read scope. github.com → Settings → Developer settings.").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.GitHub.Token).
					Validate(required("GitHub token")),
				huh.NewInput().
					Title("Default username").
					Description("Used by /profile and /repos when no username is given.").
					Value(&cfg.GitHub.Username).
					Validate(required("username")),
				huh.NewInput().
					Title("Host (optional, for GitHub Enterprise)").
					Placeholder("github.example.com").
					Value(&cfg.GitHub.Host),
			),
		)
		if err := ghForm.Run(); err != nil {
			return err
		}
	case "gitlab":
		glForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("GitLab personal access token").
					Description("Needs read_api scope. gitlab.com → Preferences → Access tokens.").
					EchoMode(huh.EchoModePassword).
					Value(&cfg.GitLab.Token).
					Validate(required("GitLab token")),
				huh.NewInput().
					Title("Default username").
					Value(&cfg.GitLab.Username).
					Validate(required("username")),
				huh.NewInput().
					Title("Host (optional, for self-managed GitLab)").
					Placeholder("gitlab.example.com").
					Value(&cfg.GitLab.Host),
			),
		)
		if err := glForm.Run(); err != nil {
			return err
		}
	}

	// --- Step 3: Webhook listener ---
	fmt.Println(headerStyle.Render("  Step 3/3 · Webhook listener"))
	fmt.Println(dimStyle.Render("  Add a webhook to your repository pointing at this machine, content"))
	fmt.Println(dimStyle.Render("  type application/json, with the signing secret you choose here.\n"))

	port := ""
	if cfg.Webhook.Port > 0 {
		port = strconv.Itoa(cfg.Webhook.Port)
	}
	whForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Webhook signing secret").
				Description("The same secret you enter in the repository's webhook settings.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Webhook.Secret).
				Validate(required("webhook secret")),
			huh.NewInput().
				Title("Webhook port").
				Placeholder(strconv.Itoa(config.DefaultWebhookPort)).
				Value(&port).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 65535 {
						return fmt.Errorf("enter a port between 1 and 65535")
					}
					return nil
				}),
		),
	)
	if err := whForm.Run(); err != nil {
		return err
	}
	if strings.TrimSpace(port) != "" {
		cfg.Webhook.Port, _ = strconv.Atoi(strings.TrimSpace(port))
	}

	if err := config.Save(cfg, cfgFile); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	path, _ := config.ConfigPath(cfgFile)

	fmt.Println()
	fmt.Println(successStyle.Render("  Configuration saved to " + path))
	fmt.Println(dimStyle.Render("  Next: 'hubwatch doctor' to verify, then 'hubwatch serve' to run.\n"))
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
