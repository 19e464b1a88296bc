package service

import (
	"context"
	"errors"

	"github.com/sidereusnuntius/chirp/internal/domain"
)

var (
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid")
)

//go:generate mockgen -destination=../mocks/mock_service.go -package=mock_db . Service

type Service interface {
	PostService
	// AuthenticateUser takes the user's identifier, which may be their username or email address, and password
	// and verifies if these credentials are correct. If authentication fails, authenticated is false and
	// err is nil; a non nil error indicates that an internal, unexpected error has occured.
	AuthenticateUser(ctx context.Context, user, password string) (u domain.Account, authenticated bool, err error)
	// CreateUser inserts a new, local user. An empty profileImage means the default avatar.
	CreateUser(ctx context.Context, username, password, email, profileImage string) (domain.Account, error)
	GetAuthor(ctx context.Context, username string) (domain.Author, error)
}

type PostService interface {
	// ListPosts returns every post with its author, newest first.
	ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error)
	ListPostsByAuthor(ctx context.Context, username string) ([]domain.PostWithAuthor, error)
	GetPost(ctx context.Context, id string) (domain.PostWithAuthor, error)
	// CreatePost validates and stores a new post written by userId.
	CreatePost(ctx context.Context, userId int64, content string) (domain.Post, error)
}
