package resumes

import (
	"errors"
	"fmt"
)

// Terminal pipeline failures, one per stage. None triggers a retry.
var (
	ErrUpload        = errors.New("resume upload failed")
	ErrConversion    = errors.New("resume conversion failed")
	ErrImageUpload   = errors.New("image upload failed")
	ErrPersistence   = errors.New("record persistence failed")
	ErrScoring       = errors.New("scoring failed")
	ErrFeedbackParse = errors.New("feedback parse failed")
)

// StageError reports which stage halted the pipeline. The draft record, if
// already written, stays in the store untouched.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageFailure(stage Stage, sentinel, cause error) *StageError {
	if cause == nil {
		return &StageError{Stage: stage, Err: sentinel}
	}
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %v", sentinel, cause)}
}
