package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if c.NavTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be > 0")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max pages must be >= 1")
	}
	if !strings.Contains(c.SearchURLTemplate, "%s") {
		return fmt.Errorf("search URL template must contain a %%s placeholder")
	}
	if c.Scroll.MaxSteps < 1 {
		return fmt.Errorf("scroll max steps must be >= 1")
	}
	if c.StorageRoot == "" {
		return fmt.Errorf("storage root must be set")
	}
	return nil
}
