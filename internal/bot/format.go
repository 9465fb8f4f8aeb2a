package bot

import (
	"fmt"
	"strings"

	"github.com/hubwatch/hubwatch/internal/telegram"
	"github.com/hubwatch/hubwatch/models"
)

const descriptionMax = 200

func formatUser(u *models.User) string {
	name := u.Name
	if name == "" {
		name = u.Login
	}
	bio := u.Bio
	if bio == "" {
		bio = "No bio"
	}
	location := u.Location
	if location == "" {
		location = "Unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👤 *%s* (@%s)\n", telegram.EscapeMarkdown(name), telegram.EscapeMarkdown(u.Login))
	fmt.Fprintf(&b, "📍 %s\n", telegram.EscapeMarkdown(location))
	fmt.Fprintf(&b, "📖 %s\n\n", telegram.EscapeMarkdown(bio))
	fmt.Fprintf(&b, "📦 Public repositories: %d\n", u.PublicRepos)
	fmt.Fprintf(&b, "👥 Followers: %d · Following: %d\n", u.Followers, u.Following)
	if u.HTMLURL != "" {
		fmt.Fprintf(&b, "\n🌐 %s", u.HTMLURL)
	}
	return b.String()
}

func formatRepo(r *models.Repo) string {
	description := r.Description
	if description == "" {
		description = "No description"
	}
	language := r.Language
	if language == "" {
		language = "Unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *%s*\n", telegram.EscapeMarkdown(r.FullName))
	fmt.Fprintf(&b, "📝 %s\n\n", telegram.EscapeMarkdown(telegram.Truncate(description, descriptionMax)))
	fmt.Fprintf(&b, "⭐ Stars: %d\n", r.Stars)
	fmt.Fprintf(&b, "🍴 Forks: %d\n", r.Forks)
	fmt.Fprintf(&b, "🐛 Open issues: %d\n", r.OpenIssues)
	fmt.Fprintf(&b, "💻 Language: %s\n", telegram.EscapeMarkdown(language))
	if !r.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "🕒 Updated: %s\n", r.UpdatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	if r.HTMLURL != "" {
		fmt.Fprintf(&b, "\n🌐 %s", r.HTMLURL)
	}
	return b.String()
}

func formatRepoList(repos []models.Repo) string {
	var b strings.Builder
	b.WriteString("📚 *Repositories:*\n\n")
	for _, r := range repos {
		fmt.Fprintf(&b, "📦 %s — ⭐ %d\n", telegram.EscapeMarkdown(r.FullName), r.Stars)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCommits(repoPath string, commits []models.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 *Recent commits for %s:*\n\n", telegram.EscapeMarkdown(repoPath))
	for _, c := range commits {
		short := c.SHA
		if len(short) > 7 {
			short = short[:7]
		}
		fmt.Fprintf(&b, "🔸 %s\n", telegram.EscapeMarkdown(telegram.FirstLine(c.Message)))
		fmt.Fprintf(&b, "👤 %s", telegram.EscapeMarkdown(c.AuthorName))
		if !c.AuthoredAt.IsZero() {
			fmt.Fprintf(&b, " · 🕒 %s", c.AuthoredAt.UTC().Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(&b, " · %s\n", short)
		if c.HTMLURL != "" {
			fmt.Fprintf(&b, "🔗 %s\n", c.HTMLURL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatIssues(repoPath string, issues []models.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🐛 *Issues for %s:*\n\n", telegram.EscapeMarkdown(repoPath))
	for _, i := range issues {
		emoji := "🔴"
		if i.State == "open" {
			emoji = "🟢"
		}
		fmt.Fprintf(&b, "%s #%d: %s\n", emoji, i.Number, telegram.EscapeMarkdown(i.Title))
		fmt.Fprintf(&b, "👤 %s · %s\n", telegram.EscapeMarkdown(i.AuthorLogin), i.State)
		if i.HTMLURL != "" {
			fmt.Fprintf(&b, "🔗 %s\n", i.HTMLURL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSearchResults(query string, repos []models.Repo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Search results for: %s*\n\n", telegram.EscapeMarkdown(query))
	for _, r := range repos {
		description := r.Description
		if description == "" {
			description = "No description"
		}
		fmt.Fprintf(&b, "📦 %s — ⭐ %d\n", telegram.EscapeMarkdown(r.FullName), r.Stars)
		fmt.Fprintf(&b, "📝 %s\n", telegram.EscapeMarkdown(telegram.Truncate(description, 100)))
		if r.HTMLURL != "" {
			fmt.Fprintf(&b, "🔗 %s\n", r.HTMLURL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
