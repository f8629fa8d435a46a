// internal/upload/errors.go
package upload

import "fmt"

// StepError reports which step of the upload sequence failed. Context is
// the tag under which diagnostic artifacts were captured.
type StepError struct {
	Step    string
	Context string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("upload step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
