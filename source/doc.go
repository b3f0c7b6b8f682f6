// Package source contains request sources that feed a batch.Service,
// and Pump, which runs a source against a service.
//
// Implementations:
//
//   - Channel: forwards requests from an existing channel
//   - Generator: produces a fixed number of requests from a function
//   - Error: fails without producing any requests
//   - Nil: produces nothing, for testing timing behavior
//
// Basic usage of the Channel source:
//
//	input := make(chan string, 2)
//	input <- "a"
//	input <- "b"
//	close(input)
//
//	err := source.Pump(ctx, svc, &source.Channel[string]{Input: input}, 2,
//		func(req, resp string, err error) {
//			fmt.Println(req, resp, err)
//		})
package source
