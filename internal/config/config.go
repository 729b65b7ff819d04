package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	CookieHashKeyB64  string `env:"COOKIE_HASH_KEY,required"`
	CookieBlockKeyB64 string `env:"COOKIE_BLOCK_KEY,required"`

	CookieHashKey  []byte `env:"-"`
	CookieBlockKey []byte `env:"-"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	var err error
	cfg.CookieHashKey, err = decodeKey(cfg.CookieHashKeyB64)
	if err != nil {
		return Config{}, fmt.Errorf("COOKIE_HASH_KEY: %w", err)
	}
	cfg.CookieBlockKey, err = decodeKey(cfg.CookieBlockKeyB64)
	if err != nil {
		return Config{}, fmt.Errorf("COOKIE_BLOCK_KEY: %w", err)
	}
	return cfg, nil
}

// decodeKey accepts a base64 value or a path to a file containing one,
// so keys can be mounted as secrets. Trailing whitespace is trimmed
// before decoding.
func decodeKey(s string) ([]byte, error) {
	if b, err := os.ReadFile(s); err == nil {
		s = string(b)
	}
	s = strings.TrimRight(s, " \t\r\n")
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
