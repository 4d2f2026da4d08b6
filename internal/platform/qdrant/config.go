package qdrant

import (
	"fmt"
	"net/url"
	"strings"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
}

func ValidateConfig(cfg Config) error {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return fmt.Errorf("qdrant: missing URL")
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("qdrant: invalid URL %q", cfg.URL)
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return fmt.Errorf("qdrant: missing collection")
	}
	return nil
}
