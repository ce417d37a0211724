package withdrawal

import (
	"strings"
)

// ErrorKind buckets a failure into the small set of conditions the UI layer
// reacts to differently.
type ErrorKind string

const (
	KindUserCancelled         ErrorKind = "user_cancelled"
	KindValidation            ErrorKind = "validation"
	KindInsufficientFunds     ErrorKind = "insufficient_funds"
	KindInsufficientAllowance ErrorKind = "insufficient_allowance"
	KindNetwork               ErrorKind = "network"
	KindTransaction           ErrorKind = "transaction"
)

// maxGenericMessageLength bounds unclassified node errors, which can carry
// entire revert payloads.
const maxGenericMessageLength = 120

// ClassifiedError carries a canonical user-facing message alongside the
// underlying cause.
type ClassifiedError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// IsCancelled reports whether err is a user-cancelled signature.
func IsCancelled(err error) bool {
	classified, ok := err.(*ClassifiedError)
	return ok && classified.Kind == KindUserCancelled
}

var cancelPhrases = []string{
	"user rejected",
	"user denied",
	"rejected by user",
	"user cancelled",
	"request rejected",
}

var allowancePhrases = []string{
	"insufficient allowance",
	"exceeds allowance",
	"transfer amount exceeds allowance",
}

var networkPhrases = []string{
	"network error",
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"no such host",
}

// ClassifyError maps an arbitrary transaction error into the taxonomy. The
// signer/wallet layer does not expose structured codes, so the match is on
// known message fragments, mirroring what the error actually carries.
func ClassifyError(err error) *ClassifiedError {
	if classified, ok := err.(*ClassifiedError); ok {
		return classified
	}

	message := strings.ToLower(err.Error())

	for _, phrase := range cancelPhrases {
		if strings.Contains(message, phrase) {
			return &ClassifiedError{Kind: KindUserCancelled, Message: "Transaction cancelled", Cause: err}
		}
	}

	if strings.Contains(message, "insufficient funds") {
		return &ClassifiedError{Kind: KindInsufficientFunds, Message: "Insufficient funds to complete the transaction", Cause: err}
	}

	for _, phrase := range allowancePhrases {
		if strings.Contains(message, phrase) {
			return &ClassifiedError{Kind: KindInsufficientAllowance, Message: "Insufficient token allowance", Cause: err}
		}
	}

	for _, phrase := range networkPhrases {
		if strings.Contains(message, phrase) {
			return &ClassifiedError{Kind: KindNetwork, Message: "Network error, please try again", Cause: err}
		}
	}

	generic := err.Error()
	if len(generic) > maxGenericMessageLength {
		generic = generic[:maxGenericMessageLength] + "..."
	}
	return &ClassifiedError{Kind: KindTransaction, Message: generic, Cause: err}
}

func newValidationError(message string) *ClassifiedError {
	return &ClassifiedError{Kind: KindValidation, Message: message}
}
