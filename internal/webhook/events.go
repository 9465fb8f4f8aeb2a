package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hubwatch/hubwatch/internal/notify"
)

// Kind enumerates the webhook event types the listener understands.
// Anything else parses to KindUnknown and is acknowledged without a
// notification, so GitHub keeps the hook marked healthy.
type Kind string

const (
	KindPush        Kind = "push"
	KindIssues      Kind = "issues"
	KindPullRequest Kind = "pull_request"
	KindStar        Kind = "star"
	KindFork        Kind = "fork"
	KindRelease     Kind = "release"
	KindPing        Kind = "ping"
	KindUnknown     Kind = "unknown"
)

// ParseKind maps the X-GitHub-Event header value onto a Kind.
func ParseKind(header string) Kind {
	switch Kind(header) {
	case KindPush, KindIssues, KindPullRequest, KindStar, KindFork, KindRelease, KindPing:
		return Kind(header)
	default:
		return KindUnknown
	}
}

// Payload fragments shared across event types.

type repoRef struct {
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
}

type userRef struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type pushPayload struct {
	Ref        string       `json:"ref"`
	Repository repoRef      `json:"repository"`
	Pusher     userRef      `json:"pusher"`
	Commits    []pushCommit `json:"commits"`
}

type pushCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  struct {
		Name string `json:"name"`
	} `json:"author"`
}

type issuesPayload struct {
	Action     string  `json:"action"`
	Repository repoRef `json:"repository"`
	Issue      struct {
		Number  int     `json:"number"`
		Title   string  `json:"title"`
		HTMLURL string  `json:"html_url"`
		User    userRef `json:"user"`
	} `json:"issue"`
}

type pullRequestPayload struct {
	Action      string  `json:"action"`
	Repository  repoRef `json:"repository"`
	PullRequest struct {
		Number  int     `json:"number"`
		Title   string  `json:"title"`
		HTMLURL string  `json:"html_url"`
		Merged  bool    `json:"merged"`
		User    userRef `json:"user"`
	} `json:"pull_request"`
}

type starPayload struct {
	Action     string  `json:"action"`
	Repository repoRef `json:"repository"`
	Sender     userRef `json:"sender"`
}

type forkPayload struct {
	Repository repoRef `json:"repository"`
	Sender     userRef `json:"sender"`
	Forkee     struct {
		HTMLURL string `json:"html_url"`
	} `json:"forkee"`
}

type releasePayload struct {
	Action     string  `json:"action"`
	Repository repoRef `json:"repository"`
	Release    struct {
		Name    string  `json:"name"`
		TagName string  `json:"tag_name"`
		HTMLURL string  `json:"html_url"`
		Author  userRef `json:"author"`
	} `json:"release"`
}

// formatEvent turns a verified payload into a notification. The bool is
// false when the event is recognised but below the notification bar
// (e.g. an unstar, a draft PR sync, an empty push). An error means the
// payload JSON didn't parse.
func formatEvent(kind Kind, body []byte, maxCommits int) (notify.Event, bool, error) {
	switch kind {
	case KindPush:
		return formatPush(body, maxCommits)
	case KindIssues:
		return formatIssues(body)
	case KindPullRequest:
		return formatPullRequest(body)
	case KindStar:
		return formatStar(body)
	case KindFork:
		return formatFork(body)
	case KindRelease:
		return formatRelease(body)
	default:
		// KindPing and KindUnknown never notify.
		return notify.Event{}, false, nil
	}
}

func formatPush(body []byte, maxCommits int) (notify.Event, bool, error) {
	var p pushPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing push payload: %w", err)
	}
	// Branch deletions and tag pushes arrive with no commits.
	if len(p.Commits) == 0 {
		return notify.Event{}, false, nil
	}
	branch := strings.TrimPrefix(p.Ref, "refs/heads/")

	commitWord := "commits"
	if len(p.Commits) == 1 {
		commitWord = "commit"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌿 Branch: %s\n", branch)
	fmt.Fprintf(&b, "👤 Pusher: %s\n", p.Pusher.Name)
	fmt.Fprintf(&b, "📊 %d %s\n\n", len(p.Commits), commitWord)

	shown := p.Commits
	if maxCommits > 0 && len(shown) > maxCommits {
		shown = shown[:maxCommits]
	}
	for _, c := range shown {
		subject := c.Message
		if i := strings.IndexByte(subject, '\n'); i >= 0 {
			subject = subject[:i]
		}
		short := c.ID
		if len(short) > 7 {
			short = short[:7]
		}
		fmt.Fprintf(&b, "🔸 %s (%s, %s)\n", subject, c.Author.Name, short)
	}
	if rest := len(p.Commits) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "... and %d more commits\n", rest)
	}

	return notify.Event{
		Type:  string(KindPush),
		Title: fmt.Sprintf("📝 New %s to %s", commitWord, p.Repository.FullName),
		Body:  strings.TrimRight(b.String(), "\n"),
		URL:   p.Repository.HTMLURL,
		Repo:  p.Repository.FullName,
	}, true, nil
}

func formatIssues(body []byte) (notify.Event, bool, error) {
	var p issuesPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing issues payload: %w", err)
	}
	var emoji string
	switch p.Action {
	case "opened":
		emoji = "🟢"
	case "closed":
		emoji = "🔴"
	case "reopened":
		emoji = "🟡"
	default:
		// Label edits, assignments, etc. are noise.
		return notify.Event{}, false, nil
	}
	return notify.Event{
		Type:  string(KindIssues),
		Title: fmt.Sprintf("%s Issue %s in %s", emoji, p.Action, p.Repository.FullName),
		Body: fmt.Sprintf("🐛 #%d: %s\n👤 %s",
			p.Issue.Number, p.Issue.Title, p.Issue.User.Login),
		URL:  p.Issue.HTMLURL,
		Repo: p.Repository.FullName,
	}, true, nil
}

func formatPullRequest(body []byte) (notify.Event, bool, error) {
	var p pullRequestPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing pull_request payload: %w", err)
	}
	var action, emoji string
	switch p.Action {
	case "opened":
		action, emoji = "opened", "🟢"
	case "reopened":
		action, emoji = "reopened", "🟡"
	case "closed":
		// GitHub reports a merge as action "closed" with merged=true.
		if p.PullRequest.Merged {
			action, emoji = "merged", "🟣"
		} else {
			action, emoji = "closed", "🔴"
		}
	default:
		return notify.Event{}, false, nil
	}
	return notify.Event{
		Type:  string(KindPullRequest),
		Title: fmt.Sprintf("%s Pull request %s in %s", emoji, action, p.Repository.FullName),
		Body: fmt.Sprintf("🔧 PR #%d: %s\n👤 %s",
			p.PullRequest.Number, p.PullRequest.Title, p.PullRequest.User.Login),
		URL:  p.PullRequest.HTMLURL,
		Repo: p.Repository.FullName,
	}, true, nil
}

func formatStar(body []byte) (notify.Event, bool, error) {
	var p starPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing star payload: %w", err)
	}
	// "deleted" (unstar) is not worth a notification.
	if p.Action != "created" {
		return notify.Event{}, false, nil
	}
	return notify.Event{
		Type:  string(KindStar),
		Title: fmt.Sprintf("⭐ New star on %s", p.Repository.FullName),
		Body: fmt.Sprintf("👤 Starred by %s\n📊 Total stars: %d",
			p.Sender.Login, p.Repository.StargazersCount),
		URL:  p.Repository.HTMLURL,
		Repo: p.Repository.FullName,
	}, true, nil
}

func formatFork(body []byte) (notify.Event, bool, error) {
	var p forkPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing fork payload: %w", err)
	}
	return notify.Event{
		Type:  string(KindFork),
		Title: fmt.Sprintf("🍴 New fork of %s", p.Repository.FullName),
		Body: fmt.Sprintf("👤 Forked by %s\n📊 Total forks: %d",
			p.Sender.Login, p.Repository.ForksCount),
		URL:  p.Forkee.HTMLURL,
		Repo: p.Repository.FullName,
	}, true, nil
}

func formatRelease(body []byte) (notify.Event, bool, error) {
	var p releasePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return notify.Event{}, false, fmt.Errorf("parsing release payload: %w", err)
	}
	if p.Action != "published" {
		return notify.Event{}, false, nil
	}
	name := p.Release.Name
	if name == "" {
		name = p.Release.TagName
	}
	return notify.Event{
		Type:  string(KindRelease),
		Title: fmt.Sprintf("🚀 New release of %s", p.Repository.FullName),
		Body: fmt.Sprintf("🏷 %s (%s)\n👤 %s",
			name, p.Release.TagName, p.Release.Author.Login),
		URL:  p.Release.HTMLURL,
		Repo: p.Repository.FullName,
	}, true, nil
}
