package exchangerateapi

import (
	"errors"
	"fmt"
)

// Kind classifies why a rate fetch failed
type Kind int

const (
	// Network the request could not be built or the transport failed (DNS, timeout, reset)
	Network Kind = iota + 1
	// NoData the provider answered with an empty body
	NoData
	// Decode the body was not JSON of the expected shape
	Decode
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case NoData:
		return "no_data"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError reports a failed rate fetch. Its message is what gets shown to the user.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case Network:
		return fmt.Sprintf("network error: %v", e.Err)
	case NoData:
		return "no data received"
	case Decode:
		return fmt.Sprintf("failed to decode data: %v", e.Err)
	default:
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain. It returns 0 when err is not a FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
