package event

import "fmt"

// Status reports how a handler regards the outcome it produced.
// A response with [StatusError] is still a delivered response; handler failures are reported as errors instead.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Response is the outcome produced by a handler for a single [Request].
type Response struct {
	Status  Status
	Payload []byte
}

// OK creates a [Response] with [StatusOK] and the given payload.
func OK(payload []byte) Response {
	return Response{Status: StatusOK, Payload: payload}
}

// Text creates a [Response] with [StatusOK] and a string payload.
func Text(payload string) Response {
	return OK([]byte(payload))
}

func (r Response) String() string {
	return fmt.Sprintf("Response{status: %s, payload: %d bytes}", r.Status, len(r.Payload))
}
