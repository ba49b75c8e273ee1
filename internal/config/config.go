package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIURL   string
	Username string
	APIKey   string

	// PollInterval is the initial delay between status polls while
	// waiting for a resource to become terminal.
	PollInterval time.Duration

	// WaitTimeout bounds a whole cross-validation run. Zero means no
	// timeout: waits block until the platform reports a terminal state.
	WaitTimeout time.Duration

	// CleanupOnFailure enables best-effort deletion of resources created
	// by a run that later fails. Off by default: a failed run leaves its
	// resources on the platform.
	CleanupOnFailure bool
}

func New() *Config {
	return &Config{
		APIURL:           viper.GetString("api_url"),
		Username:         viper.GetString("username"),
		APIKey:           viper.GetString("api_key"),
		PollInterval:     viper.GetDuration("poll_interval"),
		WaitTimeout:      viper.GetDuration("wait_timeout"),
		CleanupOnFailure: viper.GetBool("cleanup_on_failure"),
	}
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid API URL: %s (must be http or https)", c.APIURL)
	}

	if c.Username == "" {
		return fmt.Errorf("username is required (set CROSSVAL_USERNAME or --username)")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API key is required (set CROSSVAL_API_KEY or --api-key)")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %s (must be positive)", c.PollInterval)
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("invalid wait timeout: %s (must be zero or positive)", c.WaitTimeout)
	}

	return nil
}
