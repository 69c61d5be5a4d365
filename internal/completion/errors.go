package completion

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

// Kind classifies why a completion request did not produce text.
type Kind int

const (
	KindCredentialMissing Kind = iota + 1
	KindSerialization
	KindTransport
	KindDecode
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside the underlying cause. Its message is the
// single line shown to the user.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport, KindCredentialMissing:
		return e.Err.Error()
	case KindAPI:
		var apiErr *openai.APIError
		if errors.As(e.Err, &apiErr) {
			return "ERROR: " + apiErr.Type
		}
	}
	return "ERROR: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or zero if err is not a completion error.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return 0
}
