package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind tells a transport failure, a non-2xx status and an unparseable body apart.
type ErrorKind string

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = "transport"
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus ErrorKind = "status"
	// KindParse means a 2xx body was not valid JSON.
	KindParse ErrorKind = "parse"
)

// RequestError is the single error type returned by Client.Request.
// Its Error string keeps the historical format callers used to match on;
// new code should branch on Kind and Status instead.
type RequestError struct {
	Kind     ErrorKind
	Endpoint string
	// Status is the HTTP status code, 0 for transport failures.
	Status int
	// Detail is the backend message, the raw body, or the transport error text.
	Detail string
	Err    error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("Failed to fetch from %s. Status: %d. Response: %s", e.Endpoint, e.Status, e.Detail)
	case KindParse:
		return fmt.Sprintf("Failed to parse JSON response from %s. Response: %s", e.Endpoint, e.Detail)
	default:
		return fmt.Sprintf("Failed to fetch from %s. Response: %s", e.Endpoint, e.Detail)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// AsRequestError unwraps err into a *RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsStatus reports whether err is a RequestError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Kind == KindStatus && reqErr.Status == status
}

// errorDetail extracts a human readable message from a non-2xx body:
// the "message" field, then the "error" field of a JSON object, or the raw text
// when the body is not JSON at all.
func errorDetail(raw []byte) string {
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return string(raw)
	}
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return "Unknown error"
	}
	for _, key := range []string{"message", "error"} {
		if s := fieldText(obj[key]); s != "" {
			return s
		}
	}
	return "Unknown error"
}

func fieldText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
