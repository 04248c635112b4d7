package jwt

// DecodeErrorKind enumerates why a token failed to decode.
type DecodeErrorKind int

const (
	// KindMalformed covers unparsable tokens and missing or invalid claims.
	KindMalformed DecodeErrorKind = iota + 1
	// KindBadSignature covers signature mismatches and unexpected algorithms.
	KindBadSignature
	// KindExpired covers tokens past their expiry instant.
	KindExpired
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindBadSignature:
		return "bad_signature"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// DecodeError is the internal classification of a failed Decode.
//
// It matches ErrInvalidToken under errors.Is so callers never need the kind;
// logs may record it.
type DecodeError struct {
	kind DecodeErrorKind
	err  error
}

func newDecodeError(kind DecodeErrorKind, err error) *DecodeError {
	return &DecodeError{kind: kind, err: err}
}

// Kind returns the failure classification.
func (e *DecodeError) Kind() DecodeErrorKind {
	return e.kind
}

func (e *DecodeError) Error() string {
	if e.err == nil {
		return "jwt: " + e.kind.String()
	}
	return "jwt: " + e.kind.String() + ": " + e.err.Error()
}

// Unwrap returns the underlying library error, if any.
func (e *DecodeError) Unwrap() error {
	return e.err
}

// Is reports ErrInvalidToken as a match for every kind.
func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidToken
}
