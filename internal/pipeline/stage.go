package pipeline

import "fmt"

// Stage names a pipeline step.
type Stage string

const (
	StageFetch          Stage = "fetch"
	StagePrepare        Stage = "prepare"
	StageDecompose      Stage = "decompose"
	StageCorrelate      Stage = "correlate"
	StageFitARIMA       Stage = "fit-arima"
	StageForecastARIMA  Stage = "forecast-arima"
	StageFitSARIMA      Stage = "fit-sarima"
	StageForecastSARIMA Stage = "forecast-sarima"
	StageRender         Stage = "render"
	StageRecord         Stage = "record"
)

// StageError reports the stage a run failed in. errors.Is and errors.As see
// through it to the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
