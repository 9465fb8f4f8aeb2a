package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/digest"
	"github.com/hubwatch/hubwatch/internal/repository"
	"github.com/hubwatch/hubwatch/internal/telegram"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify credentials and connectivity",
	Long: `Checks that the config is complete, the Telegram token works, the
repository provider accepts the configured token, and the webhook
listener has a signing secret.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	allOK := true

	fmt.Println("=== hubwatch doctor ===")
	fmt.Println()

	// Check config completeness
	fmt.Print("Config ................... ")
	if err := cfg.Validate(); err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		path, _ := config.ConfigPath(cfgFile)
		fmt.Printf("OK (%s)\n", path)
	}

	// Check Telegram token
	fmt.Print("Telegram token ........... ")
	if cfg.Telegram.Token == "" {
		fmt.Println("WARN (not configured — run 'hubwatch onboard')")
		allOK = false
	} else {
		me, err := telegram.NewClient(cfg.Telegram.Token).GetMe(ctx)
		if err != nil {
			fmt.Printf("FAIL (%s)\n", err)
			allOK = false
		} else {
			fmt.Printf("OK (@%s)\n", me.Username)
		}
	}

	// Check repository provider
	fmt.Print("Repository provider ...... ")
	provider, err := repository.New(cfg)
	if err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		user, err := provider.GetUser(ctx, "")
		if err != nil {
			fmt.Printf("FAIL (%s: %s)\n", provider.Name(), err)
			allOK = false
		} else {
			fmt.Printf("OK (%s: %s)\n", provider.Name(), user.Login)
		}
	}

	// Check webhook secret
	fmt.Print("Webhook secret ........... ")
	if cfg.Webhook.Secret == "" {
		fmt.Println("WARN (not set — webhook deliveries will be rejected)")
		allOK = false
	} else {
		fmt.Println("OK")
	}

	// Check digest schedule, if any
	fmt.Print("Digest schedule .......... ")
	switch {
	case strings.TrimSpace(cfg.Digest.Schedule) == "":
		fmt.Println("disabled")
	default:
		if err := digest.Validate(cfg.Digest.Schedule); err != nil {
			fmt.Printf("FAIL (%s)\n", err)
			allOK = false
		} else {
			fmt.Printf("OK (%q, %d repos)\n", cfg.Digest.Schedule, len(cfg.Digest.Repos))
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println(successStyle.Render("All checks passed — hubwatch is ready!"))
	} else {
		fmt.Println(warnStyle.Render("Some checks failed — run 'hubwatch onboard' to fix."))
	}

	return nil
}
