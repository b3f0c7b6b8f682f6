// Command batchbench drives a batch.Service with Ed25519 signature
// verification requests and reports how they were batched.
//
// Every request carries its own public key, message and signature. The batch
// function verifies a whole batch and fails it if any signature is invalid,
// which makes the service fall back to verifying each signature on its own.
// With --invalid-every, every n-th signature is corrupted to exercise that
// path.
//
// Usage:
//
//	batchbench --requests 10000 --concurrency 256 --max-batch-size 64 --max-latency 2ms
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
