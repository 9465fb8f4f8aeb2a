package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/models"
)

// Provider abstracts read operations against a code-hosting platform.
// Implementations: GitHub, GitLab. Every method is a single
// request/response mapping — no retries, no caching.
type Provider interface {
	// Name identifies the provider (e.g. "github", "gitlab").
	Name() string

	// GetUser returns the profile for login, or the default configured
	// account when login is empty.
	GetUser(ctx context.Context, login string) (*models.User, error)

	// ListRepos returns up to limit repositories owned by login,
	// most recently updated first.
	ListRepos(ctx context.Context, login string, limit int) ([]models.Repo, error)

	// GetRepo returns a single repository.
	GetRepo(ctx context.Context, owner, name string) (*models.Repo, error)

	// ListCommits returns up to limit commits from the default branch.
	ListCommits(ctx context.Context, owner, name string, limit int) ([]models.Commit, error)

	// ListIssues returns up to limit issues in the given state
	// ("open", "closed", or "all").
	ListIssues(ctx context.Context, owner, name, state string, limit int) ([]models.Issue, error)

	// SearchRepos searches public repositories matching the query,
	// most starred first.
	SearchRepos(ctx context.Context, query string, limit int) ([]models.Repo, error)
}

// New returns the Provider selected by cfg.Provider.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "", "github":
		if cfg.GitHub.Token == "" {
			return nil, fmt.Errorf("no GitHub token configured; run 'hubwatch onboard'")
		}
		return NewGitHub(cfg.GitHub)
	case "gitlab":
		if cfg.GitLab.Token == "" {
			return nil, fmt.Errorf("no GitLab token configured; run 'hubwatch onboard'")
		}
		return NewGitLab(cfg.GitLab)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// SplitRepoPath parses an "owner/name" argument as typed in a chat command.
func SplitRepoPath(path string) (owner, name string, err error) {
	parts := strings.SplitN(strings.TrimSpace(path), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository path %q (expected owner/name)", path)
	}
	if strings.ContainsAny(parts[0], " <>:\"\\|?*") || strings.ContainsAny(parts[1], " <>:\"\\|?*") {
		return "", "", fmt.Errorf("invalid repository path %q (expected owner/name)", path)
	}
	return parts[0], parts[1], nil
}
