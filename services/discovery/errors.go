package discovery

import "fmt"

// MalformedRecordError marks a single provider record that could not be
// normalized. Such records are dropped and counted, never fatal to a batch.
type MalformedRecordError struct {
	Source string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Source, e.Reason)
}

func newMalformedRecord(source, reason string) error {
	return &MalformedRecordError{Source: source, Reason: reason}
}

// ProviderError marks one external collaborator that timed out or errored
// during a sourcing cycle. The provider is excluded from that cycle's
// sources; the cycle itself still returns partial results.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FilterError rejects an internally inconsistent filter at the browse engine
// boundary, before any data scan.
type FilterError struct {
	Message string
}

func (e *FilterError) Error() string {
	return "invalid filter: " + e.Message
}

func NewFilterError(msg string) error {
	return &FilterError{Message: msg}
}
