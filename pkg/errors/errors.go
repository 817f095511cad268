// Package errors provides structured error handling for stakectl.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitNotFound   = 3 // Resource not found
	ExitRejected   = 4 // User declined the action
	ExitIneligible = 5 // Guard condition not satisfied
)

// StakeError is the structured error type for stakectl.
type StakeError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *StakeError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *StakeError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for StakeError.
func (e *StakeError) Is(target error) bool {
	var t *StakeError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &StakeError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &StakeError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// Session errors.
	ErrConnection = &StakeError{
		Code:     "NO_WALLET_SESSION",
		Message:  "no wallet session - connect a wallet first",
		ExitCode: ExitGeneral,
	}

	ErrNotReady = &StakeError{
		Code:     "NOT_READY",
		Message:  "wallet session not ready",
		ExitCode: ExitGeneral,
	}

	// Chain errors.
	ErrProvider = &StakeError{
		Code:     "PROVIDER_ERROR",
		Message:  "RPC provider communication failed",
		ExitCode: ExitGeneral,
	}

	ErrUserRejected = &StakeError{
		Code:     "USER_REJECTED",
		Message:  "transaction rejected by user",
		ExitCode: ExitRejected,
	}

	ErrTransactionReverted = &StakeError{
		Code:     "TX_REVERTED",
		Message:  "transaction was submitted but reverted on chain",
		ExitCode: ExitGeneral,
	}

	ErrRead = &StakeError{
		Code:     "READ_FAILED",
		Message:  "on-chain read failed",
		ExitCode: ExitGeneral,
	}

	// Orchestrator guard errors.
	ErrAlreadyInProgress = &StakeError{
		Code:     "ALREADY_IN_PROGRESS",
		Message:  "another transaction is already in flight",
		ExitCode: ExitIneligible,
	}

	ErrNotEligible = &StakeError{
		Code:     "NOT_ELIGIBLE",
		Message:  "unstake conditions not met",
		ExitCode: ExitIneligible,
	}

	// Input errors.
	ErrInvalidAmount = &StakeError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &StakeError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &StakeError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrWrongPassphrase = &StakeError{
		Code:     "WRONG_PASSPHRASE",
		Message:  "could not decrypt the mnemonic file",
		ExitCode: ExitInput,
	}

	// Config errors.
	ErrConfigNotFound = &StakeError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &StakeError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new StakeError with the given code and message.
func New(code, message string) *StakeError {
	return &StakeError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *StakeError
	if errors.As(err, &se) {
		return &StakeError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &StakeError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *StakeError
	if errors.As(err, &se) {
		return &StakeError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &StakeError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *StakeError
	if errors.As(err, &se) {
		return &StakeError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &StakeError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *StakeError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *StakeError
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
