// Package resource bounds what a test run may consume.
//
// A Controller governs three resources:
//
//   - Memory: every test matrix is charged against a byte budget before it is
//     allocated. AcquireMemory never blocks; an allocation over budget fails
//     fast with ErrMemoryLimitExceeded so a run reports it instead of being
//     killed by the OS.
//   - Workers: the correctness sweep rotates several sizes at once; worker
//     slots cap how many matrices are being rotated concurrently.
//   - IO: reads and writes of matrix blobs pass through a token bucket so a
//     sweep against remote storage does not saturate the link.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   4 << 30,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(int64(n * n / 8)); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(int64(n * n / 8))
//
// All methods are safe for concurrent use, and a nil *Controller imposes no
// limits.
package resource
