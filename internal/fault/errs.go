// Package fault defines the error categories shared by the simulator packages.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates missing or malformed configuration, an empty
	// waypoint sequence or an unknown categorical key.
	ErrConfiguration = errors.New("fault: configuration")

	// ErrDomain indicates an operating parameter outside its valid range.
	ErrDomain = errors.New("fault: domain")

	// ErrIntegration indicates an invalid integration setup such as a
	// non-positive step or capacity.
	ErrIntegration = errors.New("fault: integration")

	// ErrComputation indicates a model produced a negative or non-finite current.
	ErrComputation = errors.New("fault: computation")
)

// Configf wraps ErrConfiguration with a formatted message.
func Configf(format string, args ...any) error {
	return wrap(ErrConfiguration, format, args...)
}

// Domainf wraps ErrDomain with a formatted message.
func Domainf(format string, args ...any) error {
	return wrap(ErrDomain, format, args...)
}

// Integrationf wraps ErrIntegration with a formatted message.
func Integrationf(format string, args ...any) error {
	return wrap(ErrIntegration, format, args...)
}

// Computationf wraps ErrComputation with a formatted message.
func Computationf(format string, args ...any) error {
	return wrap(ErrComputation, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
