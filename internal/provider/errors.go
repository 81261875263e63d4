package provider

import "fmt"

// TransportError is returned when the request could not be sent or the
// provider answered with a non-success status.
type TransportError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Body holds a truncated excerpt of the response body, if any.
	Body string
	Err  error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("transport: unexpected status code: %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("transport: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BodyReadError is returned when the response body could not be read.
type BodyReadError struct {
	Err error
}

func (e *BodyReadError) Error() string { return fmt.Sprintf("reading body: %v", e.Err) }

func (e *BodyReadError) Unwrap() error { return e.Err }

// DeserializationError is returned when the body is not valid JSON or does
// not carry the expected series object.
type DeserializationError struct {
	// Key is the top-level key that was expected.
	Key string
	// Message is the provider's own explanation when it sent one instead of data.
	Message string
	Err     error
}

func (e *DeserializationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("decoding %q: %v: %s", e.Key, e.Err, e.Message)
	}
	return fmt.Sprintf("decoding %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
