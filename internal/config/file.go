package config

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// File mirrors the TOML layout Load reads. Setup commands print one so the
// operator can paste it into the config file.
type File struct {
	Mastodon *MastodonSection `toml:"mastodon,omitempty"`
	Pocket   *PocketSection   `toml:"pocket,omitempty"`
	HTTPAuth *HTTPAuthSection `toml:"http_auth,omitempty"`
	Session  *SessionSection  `toml:"session,omitempty"`
}

type MastodonSection struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

type PocketSection struct {
	URL         string `toml:"url,omitempty"`
	AppToken    string `toml:"app_token"`
	ClientURL   string `toml:"client_url,omitempty"`
	AccessToken string `toml:"access_token,omitempty"`
}

type HTTPAuthSection struct {
	URL  string `toml:"url"`
	Port int    `toml:"port"`
}

type SessionSection struct {
	File string `toml:"file"`
}

func (f File) Marshal() ([]byte, error) {
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode config file: %w", err)
	}
	return data, nil
}
