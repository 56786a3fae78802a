package smhi

import (
	"fmt"
	"strings"

	"github.com/vaderkoll/smhi-dashboard/internal/common"
)

// bodySampleLimit bounds how much of an upstream response body is carried
// in errors for diagnostics.
const bodySampleLimit = 200

// StatusError is returned when the upstream responds with a non-2xx status
// after all retries are exhausted.
type StatusError struct {
	Status     int
	BodySample string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("smhi: HTTP %d (body starts: %q)", e.Status, e.BodySample)
}

// ContentTypeError is returned when a 2xx response does not declare a JSON
// media type.
type ContentTypeError struct {
	ContentType string
	BodySample  string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("smhi: response is not JSON (Content-Type=%q, body starts: %q)", e.ContentType, e.BodySample)
}

// DecodeError is returned when a 2xx JSON response cannot be parsed.
type DecodeError struct {
	Err        error
	BodySample string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("smhi: cannot parse JSON: %v (body starts: %q)", e.Err, e.BodySample)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// bodySample truncates a response body for error reporting, collapsing
// newlines so the sample stays on one log line.
func bodySample(body []byte) string {
	s := common.Truncate(string(body), bodySampleLimit)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
