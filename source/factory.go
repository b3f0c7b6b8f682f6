package source

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig[Req any] struct {
	// Input is the channel from which this source will read requests.
	// This field is required.
	Input <-chan Req `validate:"required"`
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[Req]) Validate() error {
	return validate.Struct(c)
}

// NewChannel creates a new Channel source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	input := make(chan string, 10)
//	src, err := source.NewChannel(source.ChannelConfig[string]{
//		Input: input,
//	})
//	if err != nil {
//		// handle error
//	}
func NewChannel[Req any](config ChannelConfig[Req]) (*Channel[Req], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel config: %w", err)
	}

	return &Channel[Req]{
		Input: config.Input,
	}, nil
}

// GeneratorConfig provides configuration options for creating a Generator source.
type GeneratorConfig[Req any] struct {
	// Count is the number of requests to produce.
	Count int `validate:"gte=0"`

	// Next returns the i-th request.
	// This field is required.
	Next func(i int) Req `validate:"required"`
}

// Validate checks if the GeneratorConfig is valid.
func (c GeneratorConfig[Req]) Validate() error {
	return validate.Struct(c)
}

// NewGenerator creates a new Generator source with the given configuration.
// It validates the configuration and returns an error if invalid.
func NewGenerator[Req any](config GeneratorConfig[Req]) (*Generator[Req], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	return &Generator[Req]{
		Count: config.Count,
		Next:  config.Next,
	}, nil
}

// NewNil creates a new Nil source.
// The Nil source returns without producing any requests.
//
// Example:
//
//	src := source.NewNil[string]()
func NewNil[Req any]() *Nil[Req] {
	return &Nil[Req]{}
}
