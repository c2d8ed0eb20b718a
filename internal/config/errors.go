package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySigningKey error if config webserver.session.signingkey is empty.
	ErrEmptySigningKey = errors.New("toml config webserver.session.signingkey can not be empty")

	// ErrNoFounderEmails error if config auth.founderemails is empty.
	ErrNoFounderEmails = errors.New("toml config auth.founderemails needs at least one entry")
)
