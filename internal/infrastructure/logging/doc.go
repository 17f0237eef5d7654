// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines on stderr
//   - Development: colored console output
//
// Rule runs attach their id and phase:
//
//	log := logging.NewDefault().WithRule("missing-alt-text", "detect")
//	log.Warn("rule failed", zap.Error(err))
package logging
