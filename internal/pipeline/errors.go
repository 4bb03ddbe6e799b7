package pipeline

import (
	"fmt"
)

// FailureCode names the external-call boundary a run died at. Each stage
// maps every failure to exactly one code; nothing is retried here — the
// orchestrator owns retry policy.
type FailureCode string

const (
	FailureGeneration  FailureCode = "generation_failed"
	FailureUpload      FailureCode = "upload_failed"
	FailureRetrieval   FailureCode = "retrieval_failed"
	FailureSchema      FailureCode = "schema_failed"
	FailurePersistence FailureCode = "persistence_failed"
)

type StageError struct {
	Code  FailureCode
	Cause error
}

func (e *StageError) Error() string {
	if e == nil {
		return "pipeline stage failed"
	}
	return fmt.Sprintf("pipeline stage failed (code=%s): %v", e.Code, e.Cause)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func stageFailure(code FailureCode, cause error) error {
	return &StageError{Code: code, Cause: cause}
}
