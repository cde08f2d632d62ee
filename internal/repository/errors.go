package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrWardUnavailable = errors.New("ward is already occupied")
	ErrWardMismatch    = errors.New("ward does not belong to the appointment")
)

// Steps of multi-statement writes.
const (
	StepEmployee     = "employee"
	StepDoctor       = "doctor"
	StepAppointments = "appointments"
	StepWards        = "wards"
)

// StepError reports which statement of a transactional write failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step recorded in err, or "".
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
