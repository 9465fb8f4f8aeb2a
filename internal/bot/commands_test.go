package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/repository"
	"github.com/hubwatch/hubwatch/internal/telegram"
	"github.com/hubwatch/hubwatch/models"
)

// stubProvider serves canned responses and records call arguments.
type stubProvider struct {
	user    *models.User
	repos   []models.Repo
	repo    *models.Repo
	commits []models.Commit
	issues  []models.Issue
	err     error

	lastState string
	lastLimit int
	lastQuery string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GetUser(_ context.Context, login string) (*models.User, error) {
	return s.user, s.err
}

func (s *stubProvider) ListRepos(_ context.Context, login string, limit int) ([]models.Repo, error) {
	s.lastLimit = limit
	return s.repos, s.err
}

func (s *stubProvider) GetRepo(_ context.Context, owner, name string) (*models.Repo, error) {
	return s.repo, s.err
}

func (s *stubProvider) ListCommits(_ context.Context, owner, name string, limit int) ([]models.Commit, error) {
	s.lastLimit = limit
	return s.commits, s.err
}

func (s *stubProvider) ListIssues(_ context.Context, owner, name, state string, limit int) ([]models.Issue, error) {
	s.lastState = state
	s.lastLimit = limit
	return s.issues, s.err
}

func (s *stubProvider) SearchRepos(_ context.Context, query string, limit int) ([]models.Repo, error) {
	s.lastQuery = query
	return s.repos, s.err
}

type stubSender struct {
	sent []string
}

func (s *stubSender) SendMessage(_ context.Context, chatID, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

func (s *stubSender) GetUpdates(_ context.Context, offset int64, timeout int) ([]telegram.Update, error) {
	return nil, nil
}

func newTestBot(p repository.Provider) *Bot {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{Token: "t", ChatID: "1"},
	}
	return New(cfg, &stubSender{}, p)
}

func TestRepoCommandShowsStarsAndDescription(t *testing.T) {
	p := &stubProvider{repo: &models.Repo{
		FullName:    "octocat/Hello-World",
		Description: "My first repository on GitHub!",
		Stars:       1973,
		Forks:       9,
		Language:    "Go",
	}}
	b := newTestBot(p)

	reply := b.dispatch(context.Background(), "/repo octocat/Hello-World")
	if !strings.Contains(reply, "1973") {
		t.Errorf("reply lacks star count: %q", reply)
	}
	if !strings.Contains(reply, "My first repository on GitHub!") {
		t.Errorf("reply lacks description: %q", reply)
	}
}

func TestCommandKeywordsCaseInsensitive(t *testing.T) {
	p := &stubProvider{repo: &models.Repo{FullName: "octocat/Hello-World"}}
	b := newTestBot(p)
	reply := b.dispatch(context.Background(), "/REPO octocat/Hello-World")
	if !strings.Contains(reply, "octocat/Hello-World") {
		t.Errorf("uppercase keyword not dispatched: %q", reply)
	}
}

func TestCommandStripsBotMention(t *testing.T) {
	b := newTestBot(&stubProvider{})
	reply := b.dispatch(context.Background(), "/help@hubwatchbot")
	if !strings.Contains(reply, "hubwatch commands") {
		t.Errorf("mention suffix broke dispatch: %q", reply)
	}
}

func TestUnknownCommandGivesHelpHint(t *testing.T) {
	b := newTestBot(&stubProvider{})
	reply := b.dispatch(context.Background(), "/frobnicate")
	if !strings.Contains(reply, "Unknown command") || !strings.Contains(reply, "/help") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestRepoCommandValidatesArguments(t *testing.T) {
	b := newTestBot(&stubProvider{})
	if reply := b.dispatch(context.Background(), "/repo"); !strings.Contains(reply, "owner/name") {
		t.Errorf("missing arg reply: %q", reply)
	}
	if reply := b.dispatch(context.Background(), "/repo justaname"); !strings.Contains(reply, "Invalid format") {
		t.Errorf("bad path reply: %q", reply)
	}
}

func TestProviderErrorsBecomeUserText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{repository.ErrNotFound, "Not found"},
		{repository.ErrAuth, "Authentication failed"},
		{repository.ErrRateLimited, "rate limit"},
		{repository.ErrUnavailable, "unreachable"},
	}
	for _, tc := range cases {
		b := newTestBot(&stubProvider{err: tc.err})
		reply := b.dispatch(context.Background(), "/repo octocat/Hello-World")
		if !strings.Contains(reply, tc.want) {
			t.Errorf("error %v: reply %q lacks %q", tc.err, reply, tc.want)
		}
	}
}

func TestCommitsCommandParsesCount(t *testing.T) {
	p := &stubProvider{commits: []models.Commit{{SHA: "abc1234", Message: "fix", AuthorName: "a"}}}
	b := newTestBot(p)

	b.dispatch(context.Background(), "/commits octocat/Hello-World 10")
	if p.lastLimit != 10 {
		t.Errorf("limit = %d, want 10", p.lastLimit)
	}

	// Count above the cap is clamped, not rejected.
	b.dispatch(context.Background(), "/commits octocat/Hello-World 100")
	if p.lastLimit != maxCommitLimit {
		t.Errorf("limit = %d, want %d", p.lastLimit, maxCommitLimit)
	}

	if reply := b.dispatch(context.Background(), "/commits octocat/Hello-World zero"); !strings.Contains(reply, "positive number") {
		t.Errorf("bad count reply: %q", reply)
	}
}

func TestIssuesCommandValidatesState(t *testing.T) {
	p := &stubProvider{issues: []models.Issue{{Number: 1, Title: "bug", State: "closed"}}}
	b := newTestBot(p)

	b.dispatch(context.Background(), "/issues octocat/Hello-World closed")
	if p.lastState != "closed" {
		t.Errorf("state = %q, want closed", p.lastState)
	}

	b.dispatch(context.Background(), "/issues octocat/Hello-World")
	if p.lastState != "open" {
		t.Errorf("default state = %q, want open", p.lastState)
	}

	if reply := b.dispatch(context.Background(), "/issues octocat/Hello-World weird"); !strings.Contains(reply, "open, closed, or all") {
		t.Errorf("bad state reply: %q", reply)
	}
}

func TestSearchCommandJoinsQuery(t *testing.T) {
	p := &stubProvider{repos: []models.Repo{{FullName: "a/b", Stars: 1}}}
	b := newTestBot(p)
	b.dispatch(context.Background(), "/search machine learning go")
	if p.lastQuery != "machine learning go" {
		t.Errorf("query = %q", p.lastQuery)
	}
}

func TestStartAndHelp(t *testing.T) {
	b := newTestBot(&stubProvider{})
	if reply := b.dispatch(context.Background(), "/start"); !strings.Contains(reply, "Welcome") {
		t.Errorf("start reply: %q", reply)
	}
	if reply := b.dispatch(context.Background(), "/help"); !strings.Contains(reply, "/commits") {
		t.Errorf("help reply: %q", reply)
	}
}
