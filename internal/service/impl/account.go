package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/db"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateUser confirms the user's identity and, if their credentials are correct, returns data to be put
// in the login session, such as the user's name and id. user is either the user's username or their email.
func (s *AppService) AuthenticateUser(ctx context.Context, user, password string) (u domain.Account, authenticated bool, err error) {
	user = strings.ToLower(strings.TrimSpace(user))

	if err = validate.Password(password); err != nil {
		err = fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
		return
	}

	if validate.Email(user) == nil {
		u, err = s.DB.GetAuthDataByEmail(ctx, user)
	} else if err = validate.Username(user); err == nil {
		u, err = s.DB.GetAuthDataByUsername(ctx, user)
	} else {
		err = fmt.Errorf("%w: invalid username or email", service.ErrInvalidInput)
		return
	}

	if errors.Is(err, db.ErrNotFound) {
		return domain.Account{}, false, nil
	}
	if err != nil {
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return domain.Account{}, false, nil
	}
	return u, true, nil
}

func (s *AppService) CreateUser(ctx context.Context, username, password, email, profileImage string) (domain.Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	profileImage = strings.TrimSpace(profileImage)

	err := validate.SignUpForm(username, password, email, profileImage)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return domain.Account{}, err
	}

	custom := profileImage != ""
	if !custom {
		profileImage = s.Config.DefaultAvatar
	}

	a := domain.Account{
		Username:        username,
		Email:           email,
		Password:        string(hash),
		ProfileImageURL: profileImage,
		Created:         s.now(),
	}
	a.UserID, err = s.DB.InsertUser(ctx, a)
	if errors.Is(err, db.ErrConflict) {
		return domain.Account{}, fmt.Errorf("%w: username or email already taken", service.ErrConflict)
	}
	if err != nil {
		return domain.Account{}, err
	}

	if custom && s.queue != nil {
		if err = s.queue.CheckAvatar(ctx, a.UserID, profileImage); err != nil {
			log.Error().Err(err).Int64("user", a.UserID).Msg("failed to enqueue avatar check")
		}
	}
	return a, nil
}

func (s *AppService) GetAuthor(ctx context.Context, username string) (domain.Author, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validate.Username(username); err != nil {
		return domain.Author{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}
	return s.DB.GetAuthorByName(ctx, username)
}
