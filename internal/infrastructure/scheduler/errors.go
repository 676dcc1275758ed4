package scheduler

import "fmt"

// PanicError wraps a value recovered from a panicking job
type PanicError struct {
	Job   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("scheduler: job %s panicked: %v", e.Job, e.Value)
}
