package model

import "errors"

// Failure taxonomy shared by every pipeline stage. All of them are fatal to a run.
var (
	ErrDataUnavailable     = errors.New("no data")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNonPositiveValues   = errors.New("non-positive values")
	ErrNonFiniteValues     = errors.New("non-finite values")
	ErrModelFit            = errors.New("model fit failed")
)
