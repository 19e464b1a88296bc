// Package templates renders the HTML pages and fragments served by the web package.
package templates

//go:generate go tool templ generate

import (
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/sidereusnuntius/chirp/internal/domain"
)

type PageData struct {
	SiteName    string
	PageTitle   string
	Description string
	Favicon     string
	// Live loads the script that refreshes the feed when it changes.
	Live  bool
	Child templ.Component
}

type GateData struct {
	SignIn  bool
	SignOut bool
	Compose templ.Component
}

type FeedData struct {
	Loading bool
	// Posts is nil when the data is absent.
	Posts []domain.PostWithAuthor
	Now   time.Time
}

type SignUpData struct {
	Action       string
	Username     string
	Email        string
	ProfileImage string
	Error        string
}

func pageTitle(p PageData) string {
	if p.PageTitle == "" {
		return p.SiteName
	}
	return p.PageTitle + " | " + p.SiteName
}

// imageURL replaces unsafe schemes in image sources.
func imageURL(s string) string {
	return string(templ.URL(s))
}

func handle(username string) string {
	return "@" + username
}

func profilePicture(username string) string {
	return handle(username) + "'s profile picture"
}

func postAnchor(id string) string {
	return "post-" + id
}

func relativeTime(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

func postCount(n int) string {
	if n == 1 {
		return "1 post"
	}
	return strconv.Itoa(n) + " posts"
}
