package wizard

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeRequired         Code = "required"
	CodeInvalidDate      Code = "invalid_date"
	CodeInvalidPlan      Code = "invalid_plan"
	CodeDowngradeBlocked Code = "downgrade_blocked"
	CodeTooManyPhotos    Code = "too_many_photos"
	CodeNoPhotos         Code = "no_photos"
	CodeInvalidFile      Code = "invalid_file"
	CodeStorageFull      Code = "storage_full"
	CodeInvalidIndex     Code = "invalid_index"
	CodeInvalidYoutube   Code = "invalid_youtube_link"
	CodeStepOutOfOrder   Code = "step_out_of_order"
	CodeAlreadySaved     Code = "already_saved"
)

// ValidationError is a rejected step action. The wizard state is unchanged
// when one is returned.
type ValidationError struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func invalid(code Code, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidation returns the ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
