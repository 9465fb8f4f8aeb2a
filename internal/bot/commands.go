package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hubwatch/hubwatch/internal/repository"
)

const (
	defaultRepoLimit   = 10
	defaultCommitLimit = 5
	maxCommitLimit     = 20
	defaultIssueLimit  = 5
	searchLimit        = 8
)

const welcomeText = `🚀 *Welcome to hubwatch!*

I bridge your repositories into this chat: ask me about repos, commits,
and issues, and I'll push webhook notifications here as they happen.

Use /help to see every command, or start with /profile.`

const helpText = `🔧 *hubwatch commands*

*Profile & repositories:*
/profile [username] — account profile
/repos [username] — list repositories
/repo owner/name — repository details

*Repository details:*
/commits owner/name [count] — recent commits
/issues owner/name [open|closed|all] — issues
/search <query> — search public repositories

*Examples:*
/repo octocat/Hello-World
/commits golang/go 10
/issues kubernetes/kubernetes closed`

// dispatch maps one message to a reply. Command keywords are
// case-insensitive; a "@BotName" suffix (Telegram adds it in groups) is
// stripped before matching. An empty reply means "stay silent".
func (b *Bot) dispatch(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	fields := strings.Fields(text)
	keyword := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if i := strings.IndexByte(keyword, '@'); i >= 0 {
		keyword = keyword[:i]
	}
	args := fields[1:]

	switch keyword {
	case "start":
		return welcomeText
	case "help":
		return helpText
	case "profile":
		return b.profileCommand(ctx, args)
	case "repos":
		return b.reposCommand(ctx, args)
	case "repo":
		return b.repoCommand(ctx, args)
	case "commits":
		return b.commitsCommand(ctx, args)
	case "issues":
		return b.issuesCommand(ctx, args)
	case "search":
		return b.searchCommand(ctx, args)
	default:
		return "❌ Unknown command. Use /help to see available commands."
	}
}

func (b *Bot) profileCommand(ctx context.Context, args []string) string {
	login := ""
	if len(args) > 0 {
		login = args[0]
	}
	user, err := b.provider.GetUser(ctx, login)
	if err != nil {
		return errorReply(err)
	}
	return formatUser(user)
}

func (b *Bot) reposCommand(ctx context.Context, args []string) string {
	login := ""
	if len(args) > 0 {
		login = args[0]
	}
	repos, err := b.provider.ListRepos(ctx, login, defaultRepoLimit)
	if err != nil {
		return errorReply(err)
	}
	if len(repos) == 0 {
		return "❌ No repositories found."
	}
	return formatRepoList(repos)
}

func (b *Bot) repoCommand(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "❌ Please specify a repository: /repo owner/name"
	}
	owner, name, err := repository.SplitRepoPath(args[0])
	if err != nil {
		return "❌ Invalid format. Use: /repo owner/name"
	}
	repo, err := b.provider.GetRepo(ctx, owner, name)
	if err != nil {
		return errorReply(err)
	}
	return formatRepo(repo)
}

func (b *Bot) commitsCommand(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "❌ Please specify a repository: /commits owner/name [count]"
	}
	owner, name, err := repository.SplitRepoPath(args[0])
	if err != nil {
		return "❌ Invalid format. Use: /commits owner/name [count]"
	}
	limit := defaultCommitLimit
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "❌ Count must be a positive number."
		}
		limit = min(n, maxCommitLimit)
	}
	commits, err := b.provider.ListCommits(ctx, owner, name, limit)
	if err != nil {
		return errorReply(err)
	}
	if len(commits) == 0 {
		return fmt.Sprintf("❌ No commits found for %s/%s.", owner, name)
	}
	return formatCommits(owner+"/"+name, commits)
}

func (b *Bot) issuesCommand(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "❌ Please specify a repository: /issues owner/name [open|closed|all]"
	}
	owner, name, err := repository.SplitRepoPath(args[0])
	if err != nil {
		return "❌ Invalid format. Use: /issues owner/name [open|closed|all]"
	}
	state := "open"
	if len(args) > 1 {
		state = strings.ToLower(args[1])
		switch state {
		case "open", "closed", "all":
		default:
			return "❌ State must be open, closed, or all."
		}
	}
	issues, err := b.provider.ListIssues(ctx, owner, name, state, defaultIssueLimit)
	if err != nil {
		return errorReply(err)
	}
	if len(issues) == 0 {
		return fmt.Sprintf("❌ No %s issues found for %s/%s.", state, owner, name)
	}
	return formatIssues(owner+"/"+name, issues)
}

func (b *Bot) searchCommand(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "❌ Please specify a search query: /search <query>"
	}
	query := strings.Join(args, " ")
	repos, err := b.provider.SearchRepos(ctx, query, searchLimit)
	if err != nil {
		return errorReply(err)
	}
	if len(repos) == 0 {
		return fmt.Sprintf("❌ No repositories found for: %s", query)
	}
	return formatSearchResults(query, repos)
}

// errorReply translates a classified provider error into user text.
func errorReply(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "❌ Not found. Check the spelling, or the token may not have access."
	case errors.Is(err, repository.ErrAuth):
		return "❌ Authentication failed. Check the configured access token."
	case errors.Is(err, repository.ErrRateLimited):
		return "❌ API rate limit reached. Try again in a few minutes."
	default:
		return "❌ The provider is unreachable right now. Try again later."
	}
}
