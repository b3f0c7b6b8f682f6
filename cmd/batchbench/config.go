package main

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// benchConfig holds the command line flags.
type benchConfig struct {
	Requests     int           `validate:"gt=0"`
	Concurrency  int           `validate:"gt=0"`
	MaxBatchSize int           `validate:"gt=0"`
	MaxLatency   time.Duration `validate:"gt=0"`
	Mailbox      int           `validate:"gte=0"`
	Parallelism  int           `validate:"gte=0"`
	InvalidEvery int           `validate:"gte=0"`
	LogLevel     string        `validate:"oneof=debug info warn error"`
	LogFormat    string        `validate:"oneof=text json"`
}

func defaultConfig() benchConfig {
	return benchConfig{
		Requests:     10000,
		Concurrency:  128,
		MaxBatchSize: 64,
		MaxLatency:   2 * time.Millisecond,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Validate checks the flag values.
func (c benchConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// expectedInvalid is the number of requests generated with a bad signature.
func (c benchConfig) expectedInvalid() int {
	if c.InvalidEvery <= 0 {
		return 0
	}
	return c.Requests / c.InvalidEvery
}
