package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/sidereusnuntius/chirp/internal/compose"
	"github.com/sidereusnuntius/chirp/internal/domain"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func row(id, user, content string, age time.Duration) domain.PostWithAuthor {
	return domain.PostWithAuthor{
		Post:   domain.Post{ID: id, Content: content, CreatedAt: now.Add(-age), AuthorID: 1},
		Author: domain.Author{ID: 1, Username: user, ProfileImageURL: "https://img.example.com/" + user + ".png"},
	}
}

func TestFeedPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		data     FeedData
		contains []string
		excludes []string
	}{
		{
			name:     "loading wins over data",
			data:     FeedData{Loading: true, Posts: []domain.PostWithAuthor{row("p1", "julia", "hi", time.Hour)}, Now: now},
			contains: []string{`class="spinner"`, `data-loading="true"`},
			excludes: []string{"Something went wrong", `id="post-p1"`},
		},
		{
			name:     "absent data",
			data:     FeedData{Now: now},
			contains: []string{"Something went wrong"},
			excludes: []string{`class="spinner"`},
		},
		{
			name:     "empty list",
			data:     FeedData{Posts: []domain.PostWithAuthor{}, Now: now},
			excludes: []string{"Something went wrong", `class="spinner"`, `class="post"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Feed(tt.data))
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected %q in output:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("unexpected %q in output:\n%s", s, out)
				}
			}
		})
	}
}

func TestFeedRows(t *testing.T) {
	posts := []domain.PostWithAuthor{
		row("p2", "julia", "newer", 3*time.Hour),
		row("p1", "bob", "<b>older</b> https://example.com", 49*time.Hour),
	}
	out := render(t, Feed(FeedData{Posts: posts, Now: now}))

	first := strings.Index(out, `id="post-p2"`)
	second := strings.Index(out, `id="post-p1"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("rows missing or out of order:\n%s", out)
	}
	for _, s := range []string{
		"@julia",
		"3 hours ago",
		"2 days ago",
		`alt="@bob&#39;s profile picture"`,
		"&lt;b&gt;older&lt;/b&gt; https://example.com",
		`src="https://img.example.com/julia.png"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}
	if strings.Contains(out, "<b>older</b>") || strings.Contains(out, `<a href="https://example.com"`) {
		t.Error("content must be rendered as plain text")
	}
}

func TestCompose(t *testing.T) {
	v := compose.View{
		User:     domain.SessionUser{ID: 1, Username: "julia", ProfileImageURL: "javascript:alert(1)"},
		Draft:    `say "hi"`,
		Disabled: true,
		Error:    "too long",
	}
	out := render(t, Compose(v))

	for _, s := range []string{
		`value="say &#34;hi&#34;" disabled`,
		`<button type="submit" disabled>`,
		"too long",
		"about:invalid",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}
}

func TestGate(t *testing.T) {
	out := render(t, Gate(GateData{SignIn: true}))
	if !strings.Contains(out, `href="/login"`) || strings.Contains(out, `href="/logout"`) {
		t.Errorf("unexpected gate output:\n%s", out)
	}

	out = render(t, Gate(GateData{SignOut: true, Compose: Placeholder()}))
	if strings.Contains(out, `href="/login"`) || !strings.Contains(out, `href="/logout"`) {
		t.Errorf("unexpected gate output:\n%s", out)
	}
}

func TestLayoutHead(t *testing.T) {
	out := render(t, Layout(PageData{
		SiteName:    "chirp",
		Description: "Short posts",
		Favicon:     "/static/favicon.svg",
		Child:       Placeholder(),
	}))
	for _, s := range []string{
		"<title>chirp</title>",
		`<meta name="description" content="Short posts">`,
		`<link rel="icon" href="/static/favicon.svg">`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}
	if strings.Contains(out, "feed.js") {
		t.Error("live script included on a static page")
	}
}

func TestProfile(t *testing.T) {
	author := domain.Author{ID: 1, Username: "julia", ProfileImageURL: "https://img.example.com/julia.png"}
	tests := []struct {
		name  string
		posts []domain.PostWithAuthor
		want  string
	}{
		{name: "none", want: "<p>0 posts</p>"},
		{name: "one", posts: []domain.PostWithAuthor{row("p1", "julia", "hi", time.Hour)}, want: "<p>1 post</p>"},
		{
			name:  "many",
			posts: []domain.PostWithAuthor{row("p2", "julia", "b", time.Hour), row("p1", "julia", "a", 2*time.Hour)},
			want:  "<p>2 posts</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Profile(author, tt.posts, now))
			if !strings.Contains(out, tt.want) || !strings.Contains(out, "<h1>@julia</h1>") {
				t.Errorf("unexpected profile output:\n%s", out)
			}
			if got := strings.Count(out, `class="post"`); got != len(tt.posts) {
				t.Errorf("expected %d rows, got %d", len(tt.posts), got)
			}
		})
	}
}

func TestLoginForm(t *testing.T) {
	out := render(t, Login("/login?next=%2F", `<julia>`, "Invalid credentials"))
	for _, s := range []string{
		`action="/login?next=%2F"`,
		`value="&lt;julia&gt;"`,
		`<p class="error" role="alert">Invalid credentials</p>`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}

	out = render(t, Login("/login", "", ""))
	if strings.Contains(out, `class="error"`) {
		t.Errorf("unexpected error message:\n%s", out)
	}
}

func TestLayoutTitle(t *testing.T) {
	out := render(t, Layout(PageData{SiteName: "chirp", PageTitle: "Sign in", Live: true}))
	if !strings.Contains(out, "<title>Sign in | chirp</title>") {
		t.Errorf("unexpected title:\n%s", out)
	}
	if !strings.Contains(out, `<script src="/static/feed.js" defer></script>`) {
		t.Errorf("live script missing:\n%s", out)
	}
}
