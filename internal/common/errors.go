package common

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a candidate symbol resolved to nothing at any tier.
// Non-fatal: the candidate is dropped from the result.
var ErrNotFound = errors.New("asset not found")

// ErrUpstreamUnavailable indicates a provider call timed out or errored.
// Treated as an empty result for that tier or indicator, never retried
// synchronously within the same request.
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// ErrInvalidQuery indicates empty or unparseable query text. Classification
// and extraction degrade to their defaults rather than failing.
var ErrInvalidQuery = errors.New("invalid query")

// AmbiguousAssetError is raised when one symbol resolves to multiple assets
// of different classes. It is the only error surfaced to the caller: the end
// user must disambiguate, guessing a winner is never acceptable.
type AmbiguousAssetError struct {
	Symbol string
}

func (e *AmbiguousAssetError) Error() string {
	return fmt.Sprintf("symbol %q matches multiple assets of different classes", e.Symbol)
}

// IsAmbiguous reports whether err is an AmbiguousAssetError.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousAssetError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
