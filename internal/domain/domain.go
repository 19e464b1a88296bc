package domain

import "errors"

// ErrNoAuthor is returned when a post row cannot be joined with its author.
var ErrNoAuthor = errors.New("post has no author")

const DefaultAvatar = "/static/avatar.svg"
