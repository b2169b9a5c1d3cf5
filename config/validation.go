package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []error

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"API_BASE_URL", "must be an absolute URL"})
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, ValidationError{"CACHE_TTL", "must be positive"})
	}
	if cfg.APITimeout <= 0 {
		errs = append(errs, ValidationError{"API_TIMEOUT", "must be positive"})
	}
	if cfg.DemoUserID <= 0 {
		errs = append(errs, ValidationError{"DEMO_USER_ID", "must be a positive number"})
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite driver"})
		}
	case "postgres":
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres driver"})
			}
		}
		if cfg.DBPassword == "" && env != Development {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required outside development"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{"SESSION_SECRET", "is required"})
	} else if env == Production && len(cfg.SessionSecret) < 32 {
		errs = append(errs, ValidationError{"SESSION_SECRET", "must be at least 32 characters in production"})
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, ValidationError{"AWS_REGION", "is required when S3_BUCKET_NAME is set"})
	}

	return errors.Join(errs...)
}
