package screening

import "errors"

var (
	ErrSessionNotFound      = errors.New("answer session not found")
	ErrEvaluationInProgress = errors.New("evaluation already in progress")
	ErrModelUnavailable     = errors.New("model client not configured")
)
