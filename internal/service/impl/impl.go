package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/sidereusnuntius/chirp/internal/config"
	"github.com/sidereusnuntius/chirp/internal/db"
	"github.com/sidereusnuntius/chirp/internal/queue"
	"github.com/sidereusnuntius/chirp/internal/service"
)

const (
	BcryptCost = 10
)

type AppService struct {
	Config config.Configuration
	DB     db.DB
	queue  queue.Queue
	now    func() time.Time
	newID  func() string
}

func New(cfg config.Configuration, DB db.DB, queue queue.Queue) service.Service {
	return &AppService{
		Config: cfg,
		DB:     DB,
		queue:  queue,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}
