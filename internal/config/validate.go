package config

import (
	"errors"
	"fmt"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.App.DataDir == "" {
		errs = append(errs, "app.data_dir must not be empty")
	}
	if cfg.HTTP.RatePerSecond <= 0 {
		errs = append(errs, "http.rate_per_second must be > 0")
	}
	if cfg.HTTP.RateBurst <= 0 {
		errs = append(errs, "http.rate_burst must be > 0")
	}
	if cfg.DB.Path == "" {
		errs = append(errs, "db.path must not be empty")
	}
	if cfg.DB.BusyTimeoutMS < 0 {
		errs = append(errs, "db.busy_timeout_ms must be >= 0")
	}
	checkLimits := func(name string, def, max int) {
		if def <= 0 {
			errs = append(errs, fmt.Sprintf("%s.default_limit must be > 0", name))
		}
		if max < def {
			errs = append(errs, fmt.Sprintf("%s.max_limit must be >= %s.default_limit", name, name))
		}
	}
	checkLimits("listing", cfg.Listing.DefaultLimit, cfg.Listing.MaxLimit)
	checkLimits("history", cfg.History.DefaultLimit, cfg.History.MaxLimit)

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
