package queue

import (
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	AvatarQueue = "Avatar"
)

// AvatarJob asks for the profile image of a user to be checked and replaced by the default avatar if it cannot
// be served.
type AvatarJob struct {
	UserID int64
	URL    string
}

func (j AvatarJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        AvatarQueue,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     15 * time.Second,
		Retention: &backlite.Retention{
			Duration:   12 * time.Hour,
			OnlyFailed: true,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
