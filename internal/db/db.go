package db

import (
	"context"
	"errors"

	"github.com/sidereusnuntius/chirp/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInternal = errors.New("internal database error")
)

//go:generate mockgen -destination=../mocks/mock_db.go -package=mock_db . DB

type DB interface {
	Posts
	Users
}

type Posts interface {
	// ListPosts returns every post joined with its author, newest first. The slice is never nil when err is nil.
	ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error)
	ListPostsByAuthor(ctx context.Context, authorId int64) ([]domain.PostWithAuthor, error)
	GetPost(ctx context.Context, id string) (domain.PostWithAuthor, error)
	InsertPost(ctx context.Context, post domain.Post) error
}

type Users interface {
	// InsertUser persists the account, whose password must already be hashed, and returns the new user's id.
	InsertUser(ctx context.Context, account domain.Account) (int64, error)
	GetAuthDataByUsername(ctx context.Context, username string) (domain.Account, error)
	GetAuthDataByEmail(ctx context.Context, email string) (domain.Account, error)
	GetAuthor(ctx context.Context, id int64) (domain.Author, error)
	GetAuthorByName(ctx context.Context, username string) (domain.Author, error)
	SetProfileImage(ctx context.Context, userId int64, url string) error
}
