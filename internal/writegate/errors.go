package writegate

import (
	"errors"
	"fmt"
)

// ErrGateClosed is returned by Do after Stop has been called.
var ErrGateClosed = errors.New("writegate: gate closed")

// ErrQueueFull signals back-pressure: the queue stayed full for the
// whole enqueue timeout. Compare with errors.Is.
var ErrQueueFull = errors.New("writegate: queue full")

// ErrWriterPanic replaces the error of a writer that panicked.
var ErrWriterPanic = errors.New("writegate: writer panicked")

// QueueFullError carries queue occupancy at rejection time.
type QueueFullError struct {
	Length   int
	Capacity int
}

// Error implements the error interface.
func (e *QueueFullError) Error() string {
	return fmt.Sprintf("writegate: queue full (%d/%d)", e.Length, e.Capacity)
}

// Is lets errors.Is(err, ErrQueueFull) match.
func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
