package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/internal/validate"
)

func (s *AppService) ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error) {
	return s.DB.ListPosts(ctx)
}

func (s *AppService) ListPostsByAuthor(ctx context.Context, username string) ([]domain.PostWithAuthor, error) {
	author, err := s.GetAuthor(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.DB.ListPostsByAuthor(ctx, author.ID)
}

func (s *AppService) GetPost(ctx context.Context, id string) (domain.PostWithAuthor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.PostWithAuthor{}, fmt.Errorf("%w: empty post id", service.ErrInvalidInput)
	}
	return s.DB.GetPost(ctx, id)
}

// CreatePost trims the content and stores it as a new post. Posts are stored with millisecond precision.
func (s *AppService) CreatePost(ctx context.Context, userId int64, content string) (domain.Post, error) {
	content = strings.TrimSpace(content)
	if err := validate.PostContent(content, s.Config.MaxPostLength); err != nil {
		return domain.Post{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	post := domain.Post{
		ID:        s.newID(),
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		AuthorID:  userId,
	}

	err := s.DB.InsertPost(ctx, post)
	if errors.Is(err, domain.ErrNoAuthor) {
		return domain.Post{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}
