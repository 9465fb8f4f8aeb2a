package repository

import (
	"context"
	"fmt"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/models"
)

// GitLabProvider implements Provider for GitLab (cloud and self-hosted).
type GitLabProvider struct {
	client   *gitlab.Client
	username string
	host     string
}

// NewGitLab creates a GitLabProvider from the given configuration.
func NewGitLab(cfg config.GitLabConfig) (*GitLabProvider, error) {
	opts := []gitlab.ClientOptionFunc{}
	if cfg.Host != "" && cfg.Host != "gitlab.com" {
		base := fmt.Sprintf("https://%s/api/v4/", cfg.Host)
		opts = append(opts, gitlab.WithBaseURL(base))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitLab client: %w", err)
	}

	return &GitLabProvider{client: client, username: cfg.Username, host: cfg.Host}, nil
}

func (g *GitLabProvider) Name() string { return "gitlab" }

func (g *GitLabProvider) GetUser(ctx context.Context, login string) (*models.User, error) {
	if login == "" {
		login = g.username
	}
	var u *gitlab.User
	if login == "" {
		cur, resp, err := g.client.Users.CurrentUser(gitlab.WithContext(ctx))
		if err != nil {
			return nil, classifyGitLab(resp, err, "getting current GitLab user")
		}
		u = cur
	} else {
		users, resp, err := g.client.Users.ListUsers(&gitlab.ListUsersOptions{
			Username: gitlab.Ptr(login),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, classifyGitLab(resp, err, fmt.Sprintf("looking up GitLab user %q", login))
		}
		if len(users) == 0 {
			return nil, fmt.Errorf("GitLab user %q: %w", login, ErrNotFound)
		}
		u = users[0]
	}
	return &models.User{
		Login:    u.Username,
		Name:     u.Name,
		Bio:      u.Bio,
		Location: u.Location,
		HTMLURL:  u.WebURL,
	}, nil
}

func (g *GitLabProvider) ListRepos(ctx context.Context, login string, limit int) ([]models.Repo, error) {
	if login == "" {
		login = g.username
	}
	if limit <= 0 {
		limit = 10
	}
	opts := &gitlab.ListProjectsOptions{
		OrderBy:     gitlab.Ptr("last_activity_at"),
		ListOptions: gitlab.ListOptions{PerPage: int64(limit), Page: 1},
	}
	var (
		projects []*gitlab.Project
		resp     *gitlab.Response
		err      error
	)
	if login == "" {
		opts.Owned = gitlab.Ptr(true)
		projects, resp, err = g.client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
	} else {
		projects, resp, err = g.client.Projects.ListUserProjects(login, opts, gitlab.WithContext(ctx))
	}
	if err != nil {
		return nil, classifyGitLab(resp, err, fmt.Sprintf("listing GitLab projects for %q", login))
	}
	return g.convertProjects(projects), nil
}

func (g *GitLabProvider) GetRepo(ctx context.Context, owner, name string) (*models.Repo, error) {
	nameWithNS := owner + "/" + name
	proj, resp, err := g.client.Projects.GetProject(nameWithNS, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classifyGitLab(resp, err, fmt.Sprintf("getting GitLab project %s", nameWithNS))
	}
	repos := g.convertProjects([]*gitlab.Project{proj})
	return &repos[0], nil
}

func (g *GitLabProvider) ListCommits(ctx context.Context, owner, name string, limit int) ([]models.Commit, error) {
	if limit <= 0 {
		limit = 5
	}
	nameWithNS := owner + "/" + name
	glCommits, resp, err := g.client.Commits.ListCommits(nameWithNS, &gitlab.ListCommitsOptions{
		ListOptions: gitlab.ListOptions{PerPage: int64(limit), Page: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classifyGitLab(resp, err, fmt.Sprintf("listing commits for %s", nameWithNS))
	}
	commits := make([]models.Commit, 0, len(glCommits))
	for _, c := range glCommits {
		if c == nil {
			continue
		}
		commit := models.Commit{
			SHA:        c.ID,
			Message:    c.Message,
			AuthorName: c.AuthorName,
			HTMLURL:    c.WebURL,
		}
		if c.AuthoredDate != nil {
			commit.AuthoredAt = *c.AuthoredDate
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

func (g *GitLabProvider) ListIssues(ctx context.Context, owner, name, state string, limit int) ([]models.Issue, error) {
	if limit <= 0 {
		limit = 5
	}
	nameWithNS := owner + "/" + name
	opts := &gitlab.ListProjectIssuesOptions{
		OrderBy:     gitlab.Ptr("updated_at"),
		ListOptions: gitlab.ListOptions{PerPage: int64(limit), Page: 1},
	}
	// GitLab says "opened" where GitHub says "open"; "all" is expressed
	// by omitting the filter.
	switch state {
	case "", "open", "opened":
		opts.State = gitlab.Ptr("opened")
	case "closed":
		opts.State = gitlab.Ptr("closed")
	case "all":
	default:
		return nil, fmt.Errorf("invalid issue state %q (valid: open, closed, all)", state)
	}
	glIssues, resp, err := g.client.Issues.ListProjectIssues(nameWithNS, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classifyGitLab(resp, err, fmt.Sprintf("listing issues for %s", nameWithNS))
	}
	issues := make([]models.Issue, 0, len(glIssues))
	for _, i := range glIssues {
		if i == nil {
			continue
		}
		issue := models.Issue{
			Number:  int(i.IID),
			Title:   i.Title,
			State:   normaliseIssueState(i.State),
			HTMLURL: i.WebURL,
		}
		if i.Author != nil {
			issue.AuthorLogin = i.Author.Username
		}
		if i.UpdatedAt != nil {
			issue.UpdatedAt = *i.UpdatedAt
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func (g *GitLabProvider) SearchRepos(ctx context.Context, query string, limit int) ([]models.Repo, error) {
	if limit <= 0 {
		limit = 8
	}
	projects, resp, err := g.client.Projects.ListProjects(&gitlab.ListProjectsOptions{
		Search:      &query,
		OrderBy:     gitlab.Ptr("star_count"),
		ListOptions: gitlab.ListOptions{PerPage: int64(limit), Page: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classifyGitLab(resp, err, fmt.Sprintf("searching GitLab projects for %q", query))
	}
	return g.convertProjects(projects), nil
}

func (g *GitLabProvider) convertProjects(projects []*gitlab.Project) []models.Repo {
	repos := make([]models.Repo, 0, len(projects))
	host := g.host
	if host == "" {
		host = "gitlab.com"
	}
	for _, p := range projects {
		if p == nil {
			continue
		}
		parts := strings.SplitN(p.PathWithNamespace, "/", 2)
		owner, name := "", p.Name
		if len(parts) == 2 {
			owner = parts[0]
			name = parts[1]
		}
		repo := models.Repo{
			ID:            fmt.Sprintf("%d", p.ID),
			Provider:      "gitlab",
			Host:          host,
			Owner:         owner,
			Name:          name,
			FullName:      p.PathWithNamespace,
			HTMLURL:       p.WebURL,
			DefaultBranch: p.DefaultBranch,
			Private:       p.Visibility == gitlab.PrivateVisibility,
			Fork:          p.ForkedFromProject != nil,
			Description:   p.Description,
			Stars:         int(p.StarCount),
			Forks:         int(p.ForksCount),
			OpenIssues:    int(p.OpenIssuesCount),
		}
		if p.LastActivityAt != nil {
			repo.UpdatedAt = *p.LastActivityAt
		}
		repos = append(repos, repo)
	}
	return repos
}

// normaliseIssueState maps GitLab's "opened" to the "open" the rest of
// the system (and GitHub) uses.
func normaliseIssueState(state string) string {
	if state == "opened" {
		return "open"
	}
	return state
}

// classifyGitLab translates a client-go error into a sentinel class using
// the HTTP status when one is available.
func classifyGitLab(resp *gitlab.Response, err error, op string) error {
	if resp != nil && resp.Response != nil {
		return fmt.Errorf("%s: %w", op, classifyStatus(resp.StatusCode))
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
