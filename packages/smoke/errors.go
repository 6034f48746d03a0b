package smoke

import "fmt"

// StepError reports the step at which a run halted.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Step.Label, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
