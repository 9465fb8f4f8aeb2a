package telegram

import "strings"

// markdownEscaper escapes the characters Telegram's Markdown parser
// treats as markup. Applied to any user- or API-sourced text that gets
// interpolated into a formatted message.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"`", "\\`",
)

// EscapeMarkdown returns text safe to embed in a Markdown-mode message.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// Truncate shortens text to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(text string, max int) string {
	if max <= 3 {
		max = 3
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// FirstLine returns the first line of a (possibly multi-line) commit
// message, trimmed.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
