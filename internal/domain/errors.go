package domain

import "fmt"

// TransportError reports a failure to reach a remote endpoint: a connection
// error or a non-2xx status. It always aborts the step that was in flight.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that does not decode into
// the expected envelope. Fatal for feed reads; the apply-edits applier
// instead degrades to a halted partial result.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
