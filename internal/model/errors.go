package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidHorizon = errors.New("invalid horizon")
	ErrUnknownExpense = errors.New("unknown expense category")
	ErrIncomeIndex    = errors.New("income index out of range")
)

// InvalidInputError reports which snapshot field was rejected and why.
type InvalidInputError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Field, e.Err, e.Value)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}
