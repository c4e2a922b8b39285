// Package stats implements the diagnostics run on a price series before
// model fitting: classical seasonal decomposition, autocorrelation and
// partial autocorrelation, and the Ljung-Box portmanteau test used on
// model residuals.
//
// Decomposition follows the moving-average method: the trend is a centered
// moving average of length period (a 2xperiod average for even periods), so
// the first and last period/2 trend and residual values are undefined and
// reported as NaN.
package stats
