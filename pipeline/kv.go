package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// Op is a key/value command.
type Op string

const (
	// Get retrieves a value for a key.
	Get Op = "GET"
	// Set stores a key-value pair.
	Set Op = "SET"
	// Del deletes a key.
	Del Op = "DEL"
	// Exists checks if a key exists.
	Exists Op = "EXISTS"
)

var (
	// ErrNil is the reply error for a GET of a key that does not exist.
	ErrNil = errors.New("pipeline: nil")

	// ErrUnsupportedOp is the reply error for a command with an unknown Op.
	ErrUnsupportedOp = errors.New("pipeline: unsupported operation")
)

// Command is a single command in a pipeline.
type Command struct {
	Op    Op
	Key   string
	Value interface{}
}

func (c Command) String() string {
	if c.Op == Set {
		return fmt.Sprintf("%s %s %v", c.Op, c.Key, c.Value)
	}
	return fmt.Sprintf("%s %s", c.Op, c.Key)
}

// Reply is the result of a single command.
type Reply struct {
	Value interface{}
	Err   error
}

// Pipeliner sends commands to a key/value store in a single round trip,
// the way a Redis client pipeline does. Exec returns one Reply per command,
// in order. A non-nil error means the round trip itself failed; every command
// is then retried in its own pipeline.
type Pipeliner interface {
	Exec(ctx context.Context, cmds []Command) ([]Reply, error)
}

// PipelinerFunc adapts a function to a Pipeliner.
type PipelinerFunc func(ctx context.Context, cmds []Command) ([]Reply, error)

// Exec calls f(ctx, cmds).
func (f PipelinerFunc) Exec(ctx context.Context, cmds []Command) ([]Reply, error) {
	return f(ctx, cmds)
}

// KVPipeline provides a synchronous API for key/value commands. Concurrent
// calls are batched and sent as a single pipeline.
//
// Example usage:
//
//	p, err := pipeline.NewKVPipeline(client, nil)
//	value, err := p.Get(ctx, "my-key")
type KVPipeline struct {
	svc *batch.Service[Command, Reply]
}

// DefaultKVPipelineOptions returns sensible default options for a KVPipeline.
func DefaultKVPipelineOptions() *batch.Options {
	return &batch.Options{
		Config: batch.NewConstantConfig(&batch.ConfigValues{
			MaxBatchSize: 100,
			MaxLatency:   5 * time.Millisecond,
		}),
		MailboxCapacity: 1000,
	}
}

// NewKVPipeline starts a KVPipeline that sends commands through client. If
// opts is nil, DefaultKVPipelineOptions is used.
func NewKVPipeline(client Pipeliner, opts *batch.Options) (*KVPipeline, error) {
	if client == nil {
		return nil, errors.New("pipeline: nil Pipeliner")
	}
	if opts == nil {
		opts = DefaultKVPipelineOptions()
	}

	svc, err := batch.New(client.Exec, opts)
	if err != nil {
		return nil, err
	}
	return &KVPipeline{svc: svc}, nil
}

func (p *KVPipeline) do(ctx context.Context, cmd Command) (interface{}, error) {
	reply, err := p.svc.Call(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return reply.Value, reply.Err
}

// Get retrieves the value for a key. It returns ErrNil if the key does not
// exist.
func (p *KVPipeline) Get(ctx context.Context, key string) (interface{}, error) {
	return p.do(ctx, Command{Op: Get, Key: key})
}

// Set sets a key-value pair.
func (p *KVPipeline) Set(ctx context.Context, key string, value interface{}) error {
	_, err := p.do(ctx, Command{Op: Set, Key: key, Value: value})
	return err
}

// Del deletes a key. It returns the number of keys deleted.
func (p *KVPipeline) Del(ctx context.Context, key string) (int64, error) {
	val, err := p.do(ctx, Command{Op: Del, Key: key})
	if err != nil {
		return 0, err
	}
	n, ok := val.(int64)
	if !ok {
		return 0, fmt.Errorf("pipeline: invalid DEL reply type %T", val)
	}
	return n, nil
}

// Exists checks if a key exists.
func (p *KVPipeline) Exists(ctx context.Context, key string) (bool, error) {
	val, err := p.do(ctx, Command{Op: Exists, Key: key})
	if err != nil {
		return false, err
	}
	n, ok := val.(int64)
	if !ok {
		return false, fmt.Errorf("pipeline: invalid EXISTS reply type %T", val)
	}
	return n > 0, nil
}

// Close gracefully shuts down the pipeline, waiting for any in-flight
// commands to complete. It can be called more than once.
func (p *KVPipeline) Close() error {
	return p.svc.Shutdown(context.Background())
}
