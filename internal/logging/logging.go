// Package logging constructs the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New builds a production logger, or a development logger (caller line
// numbers, console encoding) when env is "dev", "development" or empty.
func New(env string) (*zap.Logger, error) {
	if env == "dev" || env == "development" || env == "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
