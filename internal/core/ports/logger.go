package ports

import "io"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
	// SetOutput updates the logger's output destination.
	SetOutput(w io.Writer)
}
