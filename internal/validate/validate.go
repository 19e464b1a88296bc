package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
	MaxUsernameLen = 32
	MaxURLLen      = 2048
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func SignUpForm(name, password, email, profileImage string) error {
	return errors.Join(
		Username(name),
		Email(email),
		Password(password),
		ProfileImage(profileImage),
	)
}

func Password(password string) error {
	l := len(password)
	switch {
	case l == 0:
		return errors.New("empty password")
	case l < MinPasswordLen:
		return fmt.Errorf("password too short; min %d characters", MinPasswordLen)
	case l > MaxPasswordLen:
		return fmt.Errorf("password too long; max %d characters", MaxPasswordLen)
	}
	return nil
}

func Email(email string) error {
	if len(email) == 0 {
		return errors.New("empty email")
	}
	_, err := mail.ParseAddress(email)

	return err
}

func Username(username string) error {
	if l := len(username); l == 0 {
		return errors.New("empty username")
	} else if l > MaxUsernameLen {
		return fmt.Errorf("username too long; max %d characters", MaxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may only contain lowercase letters, digits and underscores")
	}
	return nil
}

// ProfileImage accepts an empty string, meaning the default avatar, or an absolute http(s) URL.
func ProfileImage(raw string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > MaxURLLen {
		return fmt.Errorf("profile image url too long; max %d characters", MaxURLLen)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid profile image url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
		return errors.New("profile image url must be an absolute http or https url")
	}
	return nil
}

// PostContent checks a post's text, which must already be trimmed.
func PostContent(content string, maxLen int) error {
	if content == "" {
		return errors.New("empty post")
	}
	if n := utf8.RuneCountInString(content); n > maxLen {
		return fmt.Errorf("post too long; %d characters, max %d", n, maxLen)
	}
	if strings.ContainsRune(content, 0) {
		return errors.New("post contains a null character")
	}
	return nil
}
