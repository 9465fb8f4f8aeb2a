package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"push":         KindPush,
		"issues":       KindIssues,
		"pull_request": KindPullRequest,
		"star":         KindStar,
		"fork":         KindFork,
		"release":      KindRelease,
		"ping":         KindPing,
		"workflow_run": KindUnknown,
		"member":       KindUnknown,
		"":             KindUnknown,
	}
	for header, want := range cases {
		if got := ParseKind(header); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", header, got, want)
		}
	}
}

func pushBody(t *testing.T, commits int) []byte {
	t.Helper()
	list := make([]map[string]any, 0, commits)
	for i := 0; i < commits; i++ {
		list = append(list, map[string]any{
			"id":      fmt.Sprintf("%040d", i),
			"message": fmt.Sprintf("commit number %d", i),
			"author":  map[string]any{"name": "Mona Lisa"},
		})
	}
	body, err := json.Marshal(map[string]any{
		"ref":        "refs/heads/main",
		"repository": map[string]any{"full_name": "octocat/Hello-World", "html_url": "https://github.com/octocat/Hello-World"},
		"pusher":     map[string]any{"name": "octocat"},
		"commits":    list,
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestFormatPushShowsEachCommit(t *testing.T) {
	evt, ok, err := formatEvent(KindPush, pushBody(t, 2), 5)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !strings.Contains(evt.Title, "octocat/Hello-World") {
		t.Errorf("title %q lacks repo name", evt.Title)
	}
	if got := strings.Count(evt.Body, "🔸"); got != 2 {
		t.Errorf("expected 2 commit summaries, got %d in %q", got, evt.Body)
	}
	if !strings.Contains(evt.Body, "Branch: main") {
		t.Errorf("body %q lacks branch", evt.Body)
	}
}

func TestFormatPushCapsCommitList(t *testing.T) {
	evt, ok, err := formatEvent(KindPush, pushBody(t, 10), 3)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got := strings.Count(evt.Body, "🔸"); got != 3 {
		t.Errorf("expected 3 commit summaries, got %d", got)
	}
	if !strings.Contains(evt.Body, "and 7 more commits") {
		t.Errorf("body %q lacks overflow note", evt.Body)
	}
}

func TestFormatPushSkipsEmptyPush(t *testing.T) {
	_, ok, err := formatEvent(KindPush, pushBody(t, 0), 3)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty push should not notify")
	}
}

func TestFormatIssuesActions(t *testing.T) {
	template := `{"action":%q,"repository":{"full_name":"octocat/Hello-World"},
		"issue":{"number":7,"title":"It is broken","html_url":"https://example.com/7","user":{"login":"alice"}}}`
	for _, action := range []string{"opened", "closed", "reopened"} {
		evt, ok, err := formatEvent(KindIssues, []byte(fmt.Sprintf(template, action)), 3)
		if err != nil || !ok {
			t.Fatalf("action %s: ok=%v err=%v", action, ok, err)
		}
		if !strings.Contains(evt.Title, action) || !strings.Contains(evt.Body, "#7: It is broken") {
			t.Errorf("action %s: evt=%+v", action, evt)
		}
	}
	if _, ok, _ := formatEvent(KindIssues, []byte(fmt.Sprintf(template, "labeled")), 3); ok {
		t.Fatal("labeled action should not notify")
	}
}

func TestFormatPullRequestMerged(t *testing.T) {
	body := `{"action":"closed","repository":{"full_name":"octocat/Hello-World"},
		"pull_request":{"number":12,"title":"Add feature","merged":true,"html_url":"https://example.com/12","user":{"login":"bob"}}}`
	evt, ok, err := formatEvent(KindPullRequest, []byte(body), 3)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !strings.Contains(evt.Title, "merged") {
		t.Errorf("merged PR title = %q", evt.Title)
	}
}

func TestFormatStarOnlyOnCreated(t *testing.T) {
	created := `{"action":"created","repository":{"full_name":"octocat/Hello-World","stargazers_count":81},"sender":{"login":"carol"}}`
	evt, ok, err := formatEvent(KindStar, []byte(created), 3)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !strings.Contains(evt.Body, "Total stars: 81") || !strings.Contains(evt.Body, "carol") {
		t.Errorf("star body = %q", evt.Body)
	}

	deleted := `{"action":"deleted","repository":{"full_name":"octocat/Hello-World"},"sender":{"login":"carol"}}`
	if _, ok, _ := formatEvent(KindStar, []byte(deleted), 3); ok {
		t.Fatal("unstar should not notify")
	}
}

func TestFormatReleasePublishedOnly(t *testing.T) {
	published := `{"action":"published","repository":{"full_name":"octocat/Hello-World"},
		"release":{"name":"v1.2.0","tag_name":"v1.2.0","html_url":"https://example.com/rel","author":{"login":"dave"}}}`
	evt, ok, err := formatEvent(KindRelease, []byte(published), 3)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !strings.Contains(evt.Body, "v1.2.0") {
		t.Errorf("release body = %q", evt.Body)
	}
	drafted := `{"action":"created","repository":{"full_name":"octocat/Hello-World"},"release":{"tag_name":"v1.3.0"}}`
	if _, ok, _ := formatEvent(KindRelease, []byte(drafted), 3); ok {
		t.Fatal("non-published release should not notify")
	}
}

func TestFormatEventMalformedJSON(t *testing.T) {
	for _, kind := range []Kind{KindPush, KindIssues, KindPullRequest, KindStar, KindFork, KindRelease} {
		if _, _, err := formatEvent(kind, []byte(`{not json`), 3); err == nil {
			t.Errorf("kind %s: expected parse error", kind)
		}
	}
}
