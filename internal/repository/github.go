package repository

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/models"
)

// GitHubProvider implements Provider for GitHub and GitHub Enterprise.
type GitHubProvider struct {
	client   *gogithub.Client
	username string
	host     string
}

// NewGitHub creates a GitHubProvider from the given configuration.
func NewGitHub(cfg config.GitHubConfig) (*GitHubProvider, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := gogithub.NewClient(tc)

	// Support GitHub Enterprise by overriding the base URL.
	if cfg.Host != "" && cfg.Host != "github.com" {
		base := fmt.Sprintf("https://%s/api/v3/", cfg.Host)
		upload := fmt.Sprintf("https://%s/api/uploads/", cfg.Host)
		var err error
		client, err = client.WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub enterprise URLs: %w", err)
		}
	}

	return &GitHubProvider{client: client, username: cfg.Username, host: cfg.Host}, nil
}

func (g *GitHubProvider) Name() string { return "github" }

func (g *GitHubProvider) GetUser(ctx context.Context, login string) (*models.User, error) {
	if login == "" {
		login = g.username
	}
	// An empty login asks GitHub for the token's own account.
	u, _, err := g.client.Users.Get(ctx, login)
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("getting GitHub user %q", login))
	}
	return &models.User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		HTMLURL:     u.GetHTMLURL(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
	}, nil
}

func (g *GitHubProvider) ListRepos(ctx context.Context, login string, limit int) ([]models.Repo, error) {
	if login == "" {
		login = g.username
	}
	if limit <= 0 {
		limit = 10
	}
	ghRepos, _, err := g.client.Repositories.List(ctx, login, &gogithub.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gogithub.ListOptions{PerPage: limit, Page: 1},
	})
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("listing GitHub repos for %q", login))
	}
	return g.convertRepos(ghRepos), nil
}

func (g *GitHubProvider) GetRepo(ctx context.Context, owner, name string) (*models.Repo, error) {
	r, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("getting GitHub repo %s/%s", owner, name))
	}
	repos := g.convertRepos([]*gogithub.Repository{r})
	return &repos[0], nil
}

func (g *GitHubProvider) ListCommits(ctx context.Context, owner, name string, limit int) ([]models.Commit, error) {
	if limit <= 0 {
		limit = 5
	}
	ghCommits, _, err := g.client.Repositories.ListCommits(ctx, owner, name, &gogithub.CommitsListOptions{
		ListOptions: gogithub.ListOptions{PerPage: limit, Page: 1},
	})
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("listing commits for %s/%s", owner, name))
	}
	commits := make([]models.Commit, 0, len(ghCommits))
	for _, c := range ghCommits {
		if c == nil {
			continue
		}
		commits = append(commits, models.Commit{
			SHA:        c.GetSHA(),
			Message:    c.GetCommit().GetMessage(),
			AuthorName: c.GetCommit().GetAuthor().GetName(),
			HTMLURL:    c.GetHTMLURL(),
			AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return commits, nil
}

func (g *GitHubProvider) ListIssues(ctx context.Context, owner, name, state string, limit int) ([]models.Issue, error) {
	if state == "" {
		state = "open"
	}
	if limit <= 0 {
		limit = 5
	}
	ghIssues, _, err := g.client.Issues.ListByRepo(ctx, owner, name, &gogithub.IssueListByRepoOptions{
		State:       state,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gogithub.ListOptions{PerPage: limit, Page: 1},
	})
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("listing issues for %s/%s", owner, name))
	}
	issues := make([]models.Issue, 0, len(ghIssues))
	for _, i := range ghIssues {
		if i == nil {
			continue
		}
		issues = append(issues, models.Issue{
			Number:      i.GetNumber(),
			Title:       i.GetTitle(),
			State:       i.GetState(),
			AuthorLogin: i.GetUser().GetLogin(),
			HTMLURL:     i.GetHTMLURL(),
			UpdatedAt:   i.GetUpdatedAt().Time,
		})
	}
	return issues, nil
}

func (g *GitHubProvider) SearchRepos(ctx context.Context, query string, limit int) ([]models.Repo, error) {
	if limit <= 0 {
		limit = 8
	}
	result, _, err := g.client.Search.Repositories(ctx, query, &gogithub.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gogithub.ListOptions{PerPage: limit, Page: 1},
	})
	if err != nil {
		return nil, classifyGitHub(err, fmt.Sprintf("searching GitHub repos for %q", query))
	}
	return g.convertRepos(result.Repositories), nil
}

func (g *GitHubProvider) convertRepos(ghRepos []*gogithub.Repository) []models.Repo {
	repos := make([]models.Repo, 0, len(ghRepos))
	host := g.host
	if host == "" {
		host = "github.com"
	}
	for _, r := range ghRepos {
		if r == nil {
			continue
		}
		repos = append(repos, models.Repo{
			ID:            fmt.Sprintf("%d", r.GetID()),
			Provider:      "github",
			Host:          host,
			Owner:         r.GetOwner().GetLogin(),
			Name:          r.GetName(),
			FullName:      r.GetFullName(),
			HTMLURL:       r.GetHTMLURL(),
			DefaultBranch: r.GetDefaultBranch(),
			Private:       r.GetPrivate(),
			Fork:          r.GetFork(),
			Language:      r.GetLanguage(),
			Description:   r.GetDescription(),
			Stars:         r.GetStargazersCount(),
			Forks:         r.GetForksCount(),
			OpenIssues:    r.GetOpenIssuesCount(),
			UpdatedAt:     r.GetUpdatedAt().Time,
		})
	}
	return repos
}
