package core

import (
	"errors"
	"fmt"
)

// ErrMissingFolderName is returned when the model recommends moving an email
// to a folder without naming one
var ErrMissingFolderName = errors.New("move to folder recommended without a folder name")

// TransportError is returned when the model endpoint could not be reached or
// answered with an error
type TransportError struct {
	Provider   string
	StatusCode int
	Raw        string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Raw)
	default:
		return fmt.Sprintf("%s request failed: %s", e.Provider, e.Raw)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EnvelopeDecodeError is returned when the provider's response envelope
// cannot be decoded or is empty
type EnvelopeDecodeError struct {
	Raw string
	Err error
}

func (e *EnvelopeDecodeError) Error() string {
	return fmt.Sprintf("unable to decode response envelope: %v: %s", e.Err, e.Raw)
}

func (e *EnvelopeDecodeError) Unwrap() error {
	return e.Err
}

// PayloadDecodeError is returned when the JSON produced by the model cannot be
// decoded into the requested shape or lacks a required field
type PayloadDecodeError struct {
	Raw     string
	Payload string
	Err     error
}

func (e *PayloadDecodeError) Error() string {
	return fmt.Sprintf("unable to decode model response %q: %v: %s", e.Payload, e.Err, e.Raw)
}

func (e *PayloadDecodeError) Unwrap() error {
	return e.Err
}

// InvalidFolderError is returned when the model names a folder that no rule
// references, even after the repair attempt
type InvalidFolderError struct {
	Original string
	Repaired string
}

func (e *InvalidFolderError) Error() string {
	return fmt.Sprintf("the folder name '%s' is not a valid folder name to move to on second attempt, first folder name was '%s'",
		e.Repaired, e.Original)
}
