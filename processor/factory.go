package processor

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TransformConfig provides configuration options for creating a Transform processor.
type TransformConfig[Req, Resp any] struct {
	// Func is the transformation function to apply to each request.
	// This field is required.
	Func TransformFunc[Req, Resp] `validate:"required"`
}

// Validate checks if the TransformConfig is valid.
func (c TransformConfig[Req, Resp]) Validate() error {
	return validate.Struct(c)
}

// NewTransform creates a new Transform processor with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	proc, err := processor.NewTransform(processor.TransformConfig[string, int]{
//		Func: func(ctx context.Context, s string) (int, error) {
//			return strconv.Atoi(s)
//		},
//	})
//	if err != nil {
//		// handle error
//	}
func NewTransform[Req, Resp any](config TransformConfig[Req, Resp]) (*Transform[Req, Resp], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transform config: %w", err)
	}

	return &Transform[Req, Resp]{
		Func: config.Func,
	}, nil
}

// FilterConfig provides configuration options for creating a Filter processor.
type FilterConfig[Req any] struct {
	// Predicate is a function that returns true for requests that should be
	// accepted and false for requests that should be rejected.
	// This field is required.
	Predicate FilterFunc[Req] `validate:"required"`

	// InvertMatch inverts the predicate logic.
	InvertMatch bool
}

// Validate checks if the FilterConfig is valid.
func (c FilterConfig[Req]) Validate() error {
	return validate.Struct(c)
}

// NewFilter creates a new Filter processor with the given configuration.
// It validates the configuration and returns an error if invalid.
func NewFilter[Req any](config FilterConfig[Req]) (*Filter[Req], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter config: %w", err)
	}

	return &Filter[Req]{
		Predicate:   config.Predicate,
		InvertMatch: config.InvertMatch,
	}, nil
}

// ErrorConfig provides configuration options for creating an Error processor.
type ErrorConfig struct {
	// Err is the error returned for a failed call.
	// If nil, ErrProcessor is used.
	Err error `validate:"-"`

	// FailFraction controls what fraction of calls fail, from 0.0 to 1.0.
	FailFraction float64 `validate:"gte=0,lte=1"`
}

// Validate checks if the ErrorConfig is valid.
func (c ErrorConfig) Validate() error {
	return validate.Struct(c)
}

// NewError creates a new Error processor with the given configuration.
//
// Example:
//
//	proc, err := processor.NewError[string, int](processor.ErrorConfig{
//		Err:          errors.New("backend unavailable"),
//		FailFraction: 1.0, // Every call fails
//	})
func NewError[Req, Resp any](config ErrorConfig) (*Error[Req, Resp], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid error config: %w", err)
	}

	return &Error[Req, Resp]{
		Err:          config.Err,
		FailFraction: config.FailFraction,
	}, nil
}

// NewNil creates a new Nil processor.
//
// Example:
//
//	proc := processor.NewNil[string, int]()
func NewNil[Req, Resp any]() *Nil[Req, Resp] {
	return &Nil[Req, Resp]{}
}
