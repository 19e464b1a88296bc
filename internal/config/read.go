package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("invalid configuration")

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "chirp")
	v.SetDefault("description", "Short posts from everyone.")
	v.SetDefault("favicon", "/static/favicon.svg")
	v.SetDefault("static_dir", "static")
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")
	v.SetDefault("db_url", "chirp.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("https", false)
	v.SetDefault("domain", "localhost")
	v.SetDefault("session_key", "")
	v.SetDefault("session_lifetime", "168h")
	v.SetDefault("max_post_length", DefaultMaxPostLength)
	v.SetDefault("feed_timeout", "2s")
	v.SetDefault("default_avatar", "/static/avatar.svg")
	v.SetDefault("avatar_check_timeout", "5s")
	v.SetDefault("queue_workers", 2)
}

// ReadConfig reads the configuration from chirp.toml, if one is found in the working directory or in
// /etc/chirp, and from CHIRP_ prefixed environment variables, which take precedence.
func ReadConfig() (Configuration, error) {
	v := viper.New()
	v.SetConfigName("chirp")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/chirp")
	return read(v)
}

func read(v *viper.Viper) (cfg Configuration, err error) {
	setDefaults(v)
	v.SetEnvPrefix("chirp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults and environment")
	}

	cfg = Configuration{
		Name:               v.GetString("name"),
		Description:        v.GetString("description"),
		Favicon:            v.GetString("favicon"),
		StaticDir:          v.GetString("static_dir"),
		Debug:              v.GetBool("debug"),
		LogFile:            v.GetString("log_file"),
		DbUrl:              v.GetString("db_url"),
		MigrationsFolder:   v.GetString("migrations_folder"),
		Port:               uint16(v.GetUint("port")),
		Https:              v.GetBool("https"),
		Domain:             v.GetString("domain"),
		SessionKey:         v.GetString("session_key"),
		SessionLifetime:    v.GetDuration("session_lifetime"),
		MaxPostLength:      v.GetInt("max_post_length"),
		FeedTimeout:        v.GetDuration("feed_timeout"),
		DefaultAvatar:      v.GetString("default_avatar"),
		AvatarCheckTimeout: v.GetDuration("avatar_check_timeout"),
		QueueWorkers:       v.GetInt("queue_workers"),
	}

	scheme := "http"
	if cfg.Https {
		scheme = "https"
	}
	host := cfg.Domain
	if !cfg.Https && cfg.Port != 80 {
		host = fmt.Sprintf("%s:%d", cfg.Domain, cfg.Port)
	}
	cfg.Url = &url.URL{Scheme: scheme, Host: host}

	return cfg, cfg.Validate()
}

// Validate reports every problem found in the configuration at once.
func (c Configuration) Validate() error {
	var errs []error
	if l := len(c.SessionKey); l != 32 {
		errs = append(errs, fmt.Errorf("session key must be 32 bytes long, got %d", l))
	}
	if c.MaxPostLength <= 0 {
		errs = append(errs, errors.New("max post length must be positive"))
	}
	if c.FeedTimeout <= 0 {
		errs = append(errs, errors.New("feed timeout must be positive"))
	}
	if c.DbUrl == "" {
		errs = append(errs, errors.New("empty database url"))
	}
	if c.QueueWorkers <= 0 {
		errs = append(errs, errors.New("queue workers must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
