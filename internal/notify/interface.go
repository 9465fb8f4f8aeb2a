package notify

import "context"

// Event is a formatted notification ready to deliver to chat.
type Event struct {
	Type  string // webhook event type: "push" | "issues" | "pull_request" | "star" | "fork" | "release" | "digest"
	Title string
	Body  string
	URL   string // optional deep link (commit, PR, issue, repo)
	Repo  string // "owner/name" the event belongs to
}

// Channel is implemented by each notification destination.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, evt Event) error
}
