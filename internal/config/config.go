package config

import (
	"net/url"
	"time"
)

const (
	DefaultPort          = 8080
	DefaultMaxPostLength = 280
)

type Configuration struct {
	// Name of the site, used as the document title.
	Name string
	// Description is rendered in the document head.
	Description string
	// Favicon is the path of the icon linked from every page.
	Favicon string
	// StaticDir is the directory on which the favicon, stylesheet, default avatar and other static files can be
	// found.
	StaticDir string
	// Debug, if true, will make the application log all HTTP requests and other events.
	Debug bool
	// LogFile, when set, receives a copy of the log, rotated by size.
	LogFile string
	// DbUrl is the path to the database file.
	DbUrl            string
	MigrationsFolder string
	Port             uint16
	Https            bool
	// The name of the host running the application.
	Domain string
	// Url is the instance's url.
	Url *url.URL
	// SessionKey is the secret used to encrypt the session cookie. It must be 32 bytes long.
	SessionKey      string
	SessionLifetime time.Duration
	// MaxPostLength is the maximum number of characters of a post.
	MaxPostLength int
	// FeedTimeout is how long a page waits for the feed before rendering the loading placeholder.
	FeedTimeout time.Duration
	// DefaultAvatar is used for users without a profile image, or whose image can't be reached.
	DefaultAvatar string
	// AvatarCheckTimeout bounds the request made to verify a profile image.
	AvatarCheckTimeout time.Duration
	QueueWorkers       int
}
