package models

import "time"

// Repo represents a source-code repository from any provider.
type Repo struct {
	ID            string    `json:"id"`
	Provider      string    `json:"provider"` // github | gitlab
	Host          string    `json:"host"`     // github.com | gitlab.com
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"` // owner/name
	HTMLURL       string    `json:"html_url"`
	DefaultBranch string    `json:"default_branch"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Language      string    `json:"language"`
	Description   string    `json:"description"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"open_issues"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// User represents a provider account profile.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Commit represents a single commit from a repository's history.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	AuthorName string    `json:"author_name"`
	HTMLURL    string    `json:"html_url"`
	AuthoredAt time.Time `json:"authored_at"`
}

// Issue represents an issue (or, on GitHub, a PR surfaced through the
// issues API) on a repository.
type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"` // open | closed
	AuthorLogin string    `json:"author_login"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}
