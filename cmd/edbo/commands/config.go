package commands

import (
	"errors"
	"fmt"
	"strings"

	"edbo-scraper/internal/model"
	libtelemetry "edbo-scraper/lib/telemetry"
)

// Config is read from edbo.json5 (optional), .env and the environment, in
// increasing priority.
type Config struct {
	AppName     string                 `json:"app_name" env:"APP_NAME" env-default:"CLI-EDBO"`
	DatabaseURL string                 `json:"database_url" env:"DATABASE_URL"`
	Log         libtelemetry.LogConfig `json:"log"`
	// Specialities limits the offers search, every speciality when empty.
	Specialities []string `json:"specialities" env:"EDBO_SPECIALITIES" env-separator:","`
	Cron         string   `json:"cron" env:"EDBO_CRON" env-default:"0 */6 * * *"`
}

var errNoDatabase = errors.New("DATABASE_URL is not set")

func (c Config) ParseSpecialities() ([]model.Speciality, error) {
	if len(c.Specialities) == 0 {
		return nil, nil
	}
	out := make([]model.Speciality, 0, len(c.Specialities))
	for _, code := range c.Specialities {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		speciality, err := model.ParseSpeciality(strings.ToUpper(code))
		if err != nil {
			return nil, fmt.Errorf("specialities: %w", err)
		}
		out = append(out, speciality)
	}
	return out, nil
}
