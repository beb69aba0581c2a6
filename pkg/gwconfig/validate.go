package gwconfig

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks cfg against its struct tags, built on
// go-playground/validator/v10.
func Validate(cfg *Config) error {
	if err := getValidator().Struct(cfg); err != nil {
		return fmt.Errorf("gwconfig: %w", err)
	}
	for id, store := range cfg.Stores {
		if err := validateStore(id, store); err != nil {
			return err
		}
	}
	return nil
}

func validateStore(id string, cfg StoreConfig) error {
	switch cfg.Type {
	case "s3":
		if cfg.Bucket == "" {
			return fmt.Errorf("gwconfig: store %q: s3 requires bucket", id)
		}
	case "azure":
		if cfg.Container == "" {
			return fmt.Errorf("gwconfig: store %q: azure requires container", id)
		}
		if cfg.ConnectionString == "" {
			return fmt.Errorf("gwconfig: store %q: azure requires connection_string", id)
		}
	default:
		return fmt.Errorf("gwconfig: store %q: unknown type %q", id, cfg.Type)
	}
	return nil
}
