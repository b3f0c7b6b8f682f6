package processor_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/MasterOfBinary/batchsvc/batch"
	"github.com/MasterOfBinary/batchsvc/processor"
)

// This example builds a service from a single-request parser. Requests that
// cannot be parsed fail on their own, without failing the rest of their batch.
func ExamplePerItem() {
	collector := &processor.ResultCollector[string, int]{
		Func: processor.PerItem(func(_ context.Context, s string) (int, error) {
			return strconv.Atoi(s)
		}),
	}

	svc, err := batch.New(collector.Run, &batch.Options{
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

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected []string
	)
	for _, s := range []string{"1", "two", "3", "4"} {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			if _, err := svc.Call(context.Background(), s); errors.Is(err, batch.ErrItemVerificationFailed) {
				mu.Lock()
				rejected = append(rejected, s)
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	var parsed []int
	for _, r := range collector.Results(false) {
		parsed = append(parsed, r.Resp)
	}
	sort.Ints(parsed)

	fmt.Println("parsed:", parsed)
	fmt.Println("rejected:", rejected)

	// Output:
	// parsed: [1 3 4]
	// rejected: [two]
}
