// Package models implements the scenario worker kinds.
//
// Each model declares its DefaultSet and emission mode through Info and
// computes a result deterministically from a resolved parameter set:
//   - pricing-elasticity: volume and revenue under a price change
//   - churn-risk: clamped churn probability and risk bucket
//   - supply-chain-risk: supplier concentration stress test
//   - freight-forecasting: monthly volume index series
//   - macroeconomic-forecasting: quarterly path under a named shock
//   - input-output: multiplier impact of a demand shock
//   - cge: industry by year impacts, streamed with progress events
//
// Monetary and percentage outputs are rounded when the output is built,
// never in intermediate steps. Risk-like outputs are clamped to their
// bounds. A derived value that turns NaN or infinite is reported as
// ErrNonFinite rather than emitted.
package models
