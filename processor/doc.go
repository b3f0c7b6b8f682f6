// Package processor contains reusable building blocks for batch.BatchFunc,
// including:
//
// - Transform: For turning a single-request function into a BatchFunc
// - Filter: For rejecting requests based on custom predicates
// - Logging and Stats: For observing a wrapped BatchFunc
// - ResultCollector: For recording what a wrapped BatchFunc returned
// - Nil: For testing timing behavior with zero results
// - Error: For simulating errors with configurable failure rates
//
// Every processor has a Run method with the signature of a batch.BatchFunc, so
// it is passed to batch.New as p.Run. Processors return an error for the
// batch as a whole when any request fails, and leave it to the service to find
// the failing requests.
//
// Basic usage of the Transform processor:
//
//	fn := processor.PerItem(func(ctx context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//
//	res, _ := fn(context.Background(), []int{1, 2})
//	fmt.Println(res[0], res[1])
//
// Output:
//
//	2 4
package processor
