package batch

import "runtime"

// Options contains optional configuration for creating a new Service.
// A nil *Options is equivalent to the zero value.
type Options struct {
	// Config provides the batching configuration. It is consulted again at
	// the start of every batch.
	// If nil, default configuration is used.
	Config Config `validate:"-"`

	// MailboxCapacity bounds the number of requests queued between the
	// handles and the worker. Submit blocks while the mailbox is full.
	// If 0, the MaxBatchSize in effect when the Service is created is used.
	MailboxCapacity int `validate:"gte=0"`

	// ExecutorParallelism is the number of goroutines in the pool that runs
	// the BatchFunc. It is ignored if Executor is set.
	// If 0, runtime.GOMAXPROCS(0) is used.
	ExecutorParallelism int `validate:"gte=0"`

	// Executor runs the BatchFunc. It may be shared between services, and is
	// not closed when the Service exits.
	// If nil, the Service creates its own, and closes it when done.
	Executor *Executor `validate:"-"`

	// Logger receives worker events.
	// If nil, no logging occurs.
	Logger Logger `validate:"-"`

	// Stats receives batch and item metrics.
	// If nil, no statistics are collected.
	Stats StatsCollector `validate:"-"`
}

// Validate checks the options, including the current values of Config.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return err
	}
	if o.Config != nil {
		return o.Config.Get().Validate()
	}
	return nil
}

// WithDefaults returns a copy of Options with default values where not specified.
func (o *Options) WithDefaults() *Options {
	var out Options
	if o != nil {
		out = *o
	}

	if out.Config == nil {
		out.Config = NewConstantConfig(nil)
	}
	if out.MailboxCapacity <= 0 {
		out.MailboxCapacity = out.Config.Get().withDefaults().MaxBatchSize
	}
	if out.ExecutorParallelism <= 0 {
		out.ExecutorParallelism = runtime.GOMAXPROCS(0)
	}
	if out.Logger == nil {
		out.Logger = &NoOpLogger{}
	}
	if out.Stats == nil {
		out.Stats = &NoOpStatsCollector{}
	}

	return &out
}
