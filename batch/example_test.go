package batch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// This example shows a service that upper-cases words in batches. Batches that
// contain an empty word fail as a whole, and the service then checks each word
// on its own so that only the empty word fails.
func Example() {
	upper := func(ctx context.Context, words []string) ([]string, error) {
		out := make([]string, len(words))
		for i, w := range words {
			if w == "" {
				return nil, errors.New("empty word")
			}
			out[i] = strings.ToUpper(w)
		}
		return out, nil
	}

	svc, err := batch.New(upper, &batch.Options{
		Config: batch.NewConstantConfig(&batch.ConfigValues{
			MaxBatchSize: 4,
			MaxLatency:   10 * time.Millisecond,
		}),
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer svc.Close()

	words := []string{"alpha", "", "gamma", "delta"}
	results := make([]string, len(words))

	var wg sync.WaitGroup
	for i, w := range words {
		wg.Add(1)
		go func(i int, w string) {
			defer wg.Done()
			resp, err := svc.Call(context.Background(), w)
			if errors.Is(err, batch.ErrItemVerificationFailed) {
				results[i] = "rejected"
				return
			}
			results[i] = resp
		}(i, w)
	}
	wg.Wait()

	for _, r := range results {
		fmt.Println(r)
	}

	// Output:
	// ALPHA
	// rejected
	// GAMMA
	// DELTA
}

// This example shows a service being shut down. Requests that are still
// waiting for their batch are flushed before the service stops.
func ExampleService_Shutdown() {
	stats := batch.NewBasicStatsCollector()
	svc, err := batch.New(func(ctx context.Context, reqs []int) ([]int, error) {
		return reqs, nil
	}, &batch.Options{
		Config: batch.NewConstantConfig(&batch.ConfigValues{MaxBatchSize: 100, MaxLatency: time.Hour}),
		Stats:  stats,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	var pending []*batch.Pending[int]
	for i := 0; i < 3; i++ {
		p, err := svc.Submit(context.Background(), i)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		pending = append(pending, p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, p := range pending {
		resp, _ := p.Wait(context.Background())
		fmt.Println("result:", resp)
	}

	s := stats.GetStats()
	fmt.Println("shutdown flushes:", s.ShutdownFlushes)
	fmt.Println("terminal error:", svc.Err())

	// Output:
	// result: 0
	// result: 1
	// result: 2
	// shutdown flushes: 1
	// terminal error: batch: service closed
}
