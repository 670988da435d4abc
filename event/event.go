package event

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"strings"
)

var (
	ErrEmptyKind = errors.New("event kind must not be empty")
)

// Kind discriminates which module handles a [Request].
// Kinds are compared exactly, so "echo" and "Echo" are different kinds.
type Kind string

func (k Kind) String() string {
	return string(k)
}

// ParseKind validates a string as a [Kind].
// Surrounding whitespace is trimmed, and an empty result is rejected with [ErrEmptyKind].
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return "", ErrEmptyKind
	}
	return Kind(s), nil
}

// Request is a single event request submitted to a dispatcher.
// The payload is opaque to the dispatcher, and is only interpreted by the module handling the [Kind].
type Request struct {
	kind    Kind
	id      string
	payload []byte
}

// RequestOption customizes a [Request] created with [NewRequest].
type RequestOption func(req *Request)

// WithID sets an explicit request ID.
// An empty ID is ignored, and a generated ID is used instead.
func WithID(id string) RequestOption {
	return func(req *Request) {
		id = strings.TrimSpace(id)
		if len(id) > 0 {
			req.id = id
		}
	}
}

// NewRequest creates a [Request] for the given [Kind].
// A random UUID is used as the request ID unless [WithID] is passed.
func NewRequest(kind Kind, payload []byte, opts ...RequestOption) (*Request, error) {
	if len(kind) == 0 {
		return nil, ErrEmptyKind
	}
	req := &Request{
		kind:    kind,
		payload: payload,
	}
	for _, opt := range opts {
		opt(req)
	}
	if len(req.id) == 0 {
		req.id = uuid.NewString()
	}
	return req, nil
}

// MustRequest is the same as [NewRequest], but panics if the request can't be created.
func MustRequest(kind Kind, payload []byte, opts ...RequestOption) *Request {
	req, err := NewRequest(kind, payload, opts...)
	if err != nil {
		panic(err)
	}
	return req
}

func (r *Request) Kind() Kind {
	return r.kind
}

// ID returns the request ID, which is passed to a module as its per-request configuration.
func (r *Request) ID() string {
	return r.id
}

func (r *Request) Payload() []byte {
	return r.payload
}

func (r *Request) String() string {
	return fmt.Sprintf("Request{kind: %s, id: %s, payload: %d bytes}", r.kind, r.id, len(r.payload))
}
