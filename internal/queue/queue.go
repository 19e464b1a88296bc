package queue

import (
	"context"
	"net/http"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/config"
	"github.com/sidereusnuntius/chirp/internal/db"
)

//go:generate mockgen -destination=../mocks/mock_queue.go -package=mock_db . Queue

type Queue interface {
	// CheckAvatar enqueues the verification of a user's profile image.
	CheckAvatar(ctx context.Context, userId int64, url string) error
}

type queueImpl struct {
	db     db.Users
	queues *backlite.Client
	client *http.Client
	cfg    *config.Configuration
}

func New(ctx context.Context, db db.Users, client *http.Client, cfg *config.Configuration, blClient *backlite.Client) Queue {
	q := &queueImpl{
		db:     db,
		queues: blClient,
		client: client,
		cfg:    cfg,
	}
	q.register()
	q.queues.Start(ctx)
	log.Info().Msg("started task queue")
	return q
}

func (q *queueImpl) CheckAvatar(ctx context.Context, userId int64, url string) error {
	log.Debug().Int64("user", userId).Str("url", url).Msg("enqueuing avatar check")
	_, err := q.queues.Add(AvatarJob{
		UserID: userId,
		URL:    url,
	}).Save()
	return err
}
