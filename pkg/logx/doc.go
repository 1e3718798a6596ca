// Package logx wraps zerolog behind a small structured-logging API.
//
// It exposes a value-type Logger with fixed-field derivation (With) and a
// Service that can swap sinks and levels at runtime via Apply.
package logx
