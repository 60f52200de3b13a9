// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is the sentinel wrapped by all [ParseError]s.
	ErrParse = errors.New("not a numeric IP address literal")

	// ErrIllegalArgument is additionally wrapped when a strict numeric
	// parse rejects its input.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrResolution is the sentinel wrapped by all [ResolutionError]s.
	ErrResolution = errors.New("unable to resolve host")

	// ErrInvalidLength is the sentinel wrapped by all [LengthError]s.
	ErrInvalidLength = errors.New("invalid IP address length")
)

// ParseError reports a literal that isn't a valid numeric IPv4 or IPv6
// address. There are no sub-kinds on purpose.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q: %s", e.Input, ErrParse.Error())
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// ResolutionError reports that a host name couldn't be resolved, either
// because the name isn't a valid numeric literal and lookup failed, or the
// lookup collaborator returned no addresses.
type ResolutionError struct {
	Name string
	Err  error // underlying reason, optional.
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %s", ErrResolution.Error(), e.Name, e.Err.Error())
	}
	return fmt.Sprintf("%s %q", ErrResolution.Error(), e.Name)
}

// Unwrap returns both [ErrResolution] and the underlying reason, if any.
func (e *ResolutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrResolution, e.Err}
	}
	return []error{ErrResolution}
}

// LengthError reports raw address bytes that are neither 4 nor 16 bytes long.
type LengthError struct {
	Len int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: %d bytes", ErrInvalidLength.Error(), e.Len)
}

// Unwrap returns [ErrInvalidLength].
func (e *LengthError) Unwrap() error { return ErrInvalidLength }
