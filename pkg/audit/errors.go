package audit

import "errors"

var (
	// ErrEventValidation indicates a structurally invalid event
	ErrEventValidation = errors.New("audit.event_validation")
)
