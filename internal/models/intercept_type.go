// Package models provides data structures and operations for the rulesync application.
// This file contains the intercept type enumeration used by interception rules
// to decide how a matched message is handled.
package models

// InterceptType is the enforcement mode of an interception rule, stored as the
// vendor's string code.
type InterceptType string

const (
	// InterceptTypeWarn warns the sender and blocks the message ("1").
	InterceptTypeWarn InterceptType = "1"

	// InterceptTypeNotice warns the sender only ("2").
	InterceptTypeNotice InterceptType = "2"
)

// ParseInterceptType resolves a vendor code into an InterceptType.
// Unrecognized codes yield ok == false rather than an error; callers treat the
// value as absent in that case.
func ParseInterceptType(code string) (InterceptType, bool) {
	switch InterceptType(code) {
	case InterceptTypeWarn:
		return InterceptTypeWarn, true
	case InterceptTypeNotice:
		return InterceptTypeNotice, true
	default:
		return "", false
	}
}

// Code returns the numeric wire representation used by create and update requests.
func (t InterceptType) Code() int {
	if t == InterceptTypeNotice {
		return 2
	}
	return 1
}

// IsValid reports whether the value is one of the known codes.
func (t InterceptType) IsValid() bool {
	return t == InterceptTypeWarn || t == InterceptTypeNotice
}

// interceptTypeLabels holds display metadata for the admin surface. Kept out
// of the sync core; only the admin API reads it.
var interceptTypeLabels = map[InterceptType]struct {
	Label string
	Badge string
}{
	InterceptTypeWarn:   {Label: "warn and block send", Badge: "warning"},
	InterceptTypeNotice: {Label: "warn only", Badge: "info"},
}

// Label returns the human-readable description of the intercept type.
func (t InterceptType) Label() string {
	return interceptTypeLabels[t].Label
}

// Badge returns the admin UI badge style for the intercept type.
func (t InterceptType) Badge() string {
	return interceptTypeLabels[t].Badge
}
