package queue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

var ErrNotImage = errors.New("not an image")

func (q *queueImpl) register() {
	q.queues.Register(backlite.NewQueue[AvatarJob](q.checkAvatar))
}

func (q *queueImpl) checkAvatar(ctx context.Context, job AvatarJob) error {
	if job.URL == "" || job.URL == q.cfg.DefaultAvatar {
		return nil
	}

	err := CheckImage(ctx, q.client, job.URL)
	if err == nil {
		return nil
	}

	log.Info().Err(err).
		Int64("user", job.UserID).
		Str("url", job.URL).
		Msg("profile image unavailable, using default avatar")
	return q.db.SetProfileImage(ctx, job.UserID, q.cfg.DefaultAvatar)
}

// CheckImage makes a HEAD request to url and reports whether it answers successfully with an image.
func CheckImage(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: content type %q", ErrNotImage, ct)
	}
	return nil
}
