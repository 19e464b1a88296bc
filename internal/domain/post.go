package domain

import "time"

type Post struct {
	ID        string
	Content   string
	CreatedAt time.Time
	AuthorID  int64
}

// PostWithAuthor is the unit rendered in a feed row.
type PostWithAuthor struct {
	Post   Post
	Author Author
}
