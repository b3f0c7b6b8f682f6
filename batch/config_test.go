package batch

import (
	"sync"
	"testing"
	"time"
)

func TestNewConstantConfig_NilValues(t *testing.T) {
	cfg := NewConstantConfig(nil)
	got := cfg.Get()

	if got.MaxBatchSize != 0 || got.MaxLatency != 0 {
		t.Errorf("expected default zero values, got %+v", got)
	}
}

func TestNewConstantConfig_WithValues(t *testing.T) {
	expected := ConfigValues{
		MaxBatchSize: 100,
		MaxLatency:   30 * time.Millisecond,
	}

	cfg := NewConstantConfig(&expected)
	got := cfg.Get()

	if got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestNewDynamicConfig_NilValues(t *testing.T) {
	cfg := NewDynamicConfig(nil)
	got := cfg.Get()

	if got.MaxBatchSize != 0 || got.MaxLatency != 0 {
		t.Errorf("expected default zero values, got %+v", got)
	}
}

func TestNewDynamicConfig_WithValues(t *testing.T) {
	expected := ConfigValues{
		MaxBatchSize: 50,
		MaxLatency:   10 * time.Millisecond,
	}

	cfg := NewDynamicConfig(&expected)
	got := cfg.Get()

	if got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestDynamicConfig_UpdateBatchSize(t *testing.T) {
	cfg := NewDynamicConfig(nil)
	cfg.UpdateBatchSize(200)

	got := cfg.Get()

	if got.MaxBatchSize != 200 || got.MaxLatency != 0 {
		t.Errorf("expected MaxBatchSize=200, got %+v", got)
	}
}

func TestDynamicConfig_UpdateLatency(t *testing.T) {
	cfg := NewDynamicConfig(nil)
	cfg.UpdateLatency(15 * time.Millisecond)

	got := cfg.Get()

	if got.MaxLatency != 15*time.Millisecond || got.MaxBatchSize != 0 {
		t.Errorf("expected MaxLatency=15ms, got %+v", got)
	}
}

func TestDynamicConfig_Update(t *testing.T) {
	cfg := NewDynamicConfig(nil)
	update := ConfigValues{
		MaxBatchSize: 70,
		MaxLatency:   20 * time.Millisecond,
	}
	cfg.Update(update)

	got := cfg.Get()

	if got != update {
		t.Errorf("expected %+v, got %+v", update, got)
	}
}

func TestDynamicConfig_ConcurrentAccess(t *testing.T) {
	cfg := NewDynamicConfig(&ConfigValues{
		MaxBatchSize: 10,
		MaxLatency:   5 * time.Millisecond,
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			cfg.UpdateBatchSize(i)
		}(i)
		go func() {
			defer wg.Done()
			_ = cfg.Get()
		}()
	}
	wg.Wait()
}

func TestConfigValues_WithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		input  ConfigValues
		expect ConfigValues
	}{
		{
			name:  "zero values",
			input: ConfigValues{},
			expect: ConfigValues{
				MaxBatchSize: DefaultMaxBatchSize,
				MaxLatency:   DefaultMaxLatency,
			},
		},
		{
			name: "negative values",
			input: ConfigValues{
				MaxBatchSize: -1,
				MaxLatency:   -5 * time.Second,
			},
			expect: ConfigValues{
				MaxBatchSize: DefaultMaxBatchSize,
				MaxLatency:   DefaultMaxLatency,
			},
		},
		{
			name: "set values are kept",
			input: ConfigValues{
				MaxBatchSize: 3,
				MaxLatency:   time.Second,
			},
			expect: ConfigValues{
				MaxBatchSize: 3,
				MaxLatency:   time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.withDefaults()
			if got != tt.expect {
				t.Errorf("expected %+v, got %+v", tt.expect, got)
			}
		})
	}
}

func TestConfigValues_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ConfigValues
		wantErr bool
	}{
		{
			name: "valid config with all values",
			config: ConfigValues{
				MaxBatchSize: 100,
				MaxLatency:   5 * time.Second,
			},
		},
		{
			name:   "valid - zero values use the defaults",
			config: ConfigValues{},
		},
		{
			name: "invalid - MaxBatchSize is negative",
			config: ConfigValues{
				MaxBatchSize: -1,
			},
			wantErr: true,
		},
		{
			name: "invalid - MaxLatency is negative",
			config: ConfigValues{
				MaxLatency: -1 * time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error but got none")
			} else if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Options
		wantErr bool
	}{
		{name: "nil options", opts: nil},
		{name: "zero options", opts: &Options{}},
		{
			name:    "negative mailbox capacity",
			opts:    &Options{MailboxCapacity: -1},
			wantErr: true,
		},
		{
			name:    "negative parallelism",
			opts:    &Options{ExecutorParallelism: -2},
			wantErr: true,
		},
		{
			name: "invalid config values",
			opts: &Options{
				Config: NewConstantConfig(&ConfigValues{MaxLatency: -time.Millisecond}),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error but got none")
			} else if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	var nilOpts *Options
	opts := nilOpts.WithDefaults()

	if opts.Config == nil || opts.Logger == nil || opts.Stats == nil {
		t.Fatalf("expected defaults to be filled in, got %+v", opts)
	}
	if opts.MailboxCapacity != DefaultMaxBatchSize {
		t.Errorf("MailboxCapacity = %d, want %d", opts.MailboxCapacity, DefaultMaxBatchSize)
	}
	if opts.ExecutorParallelism <= 0 {
		t.Errorf("ExecutorParallelism = %d, want > 0", opts.ExecutorParallelism)
	}

	orig := &Options{Config: NewConstantConfig(&ConfigValues{MaxBatchSize: 8})}
	opts = orig.WithDefaults()
	if opts.MailboxCapacity != 8 {
		t.Errorf("MailboxCapacity = %d, want 8", opts.MailboxCapacity)
	}
	if orig.MailboxCapacity != 0 || orig.Logger != nil {
		t.Error("WithDefaults modified the original options")
	}
}
