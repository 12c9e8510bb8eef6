package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/seotracker/internal/cache"
	"github.com/aleister1102/seotracker/internal/logger"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		return logger.IsValidFormat(fl.Field().String())
	})

	_ = validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case ModeOnetime, ModeAutomated:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("cachebackend", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", cache.BackendMemory, cache.BackendRedis, cache.BackendSQLite:
			return true
		default:
			return false
		}
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	var messages []string
	if err := newValidator().Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("configuration validation error: %w", err)
		}
		for _, e := range errs {
			msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", trimNamespace(e.StructNamespace()), e.Tag())
			if e.Param() != "" {
				msg += fmt.Sprintf(" (expected: %s)", e.Param())
			}
			if e.Value() != nil && e.Value() != "" {
				msg += fmt.Sprintf(", actual: '%v'", e.Value())
			}
			messages = append(messages, msg)
		}
	}

	messages = append(messages, validateNotificationChannels(cfg.NotificationConfig)...)

	if len(messages) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return nil
}

// validateNotificationChannels checks the fields an enabled email channel
// cannot do without.
func validateNotificationChannels(nc NotificationConfig) []string {
	if !nc.EmailEnabled() {
		return nil
	}
	var messages []string
	if nc.EmailFrom == "" {
		messages = append(messages, "Validation failed for 'NotificationConfig.EmailFrom': required when smtp_host is set")
	}
	if len(nc.EmailRecipients) == 0 {
		messages = append(messages, "Validation failed for 'NotificationConfig.EmailRecipients': required when smtp_host is set")
	}
	return messages
}

// trimNamespace drops the root struct name from a validator namespace.
func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
