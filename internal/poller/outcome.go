package poller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Outcome kinds, as reported by [Outcome.Kind].
const (
	KindSuccess        = "success"
	KindHTTPError      = "http_error"
	KindTimeout        = "timeout"
	KindTransportError = "transport_error"
)

// Outcome is the result of fetching one route from one node.
//
// The set of implementations is closed: [Success], [HTTPError], [Timeout]
// and [TransportError]. Consumers switch on the concrete type.
type Outcome interface {
	// Kind returns one of the Kind* constants.
	Kind() string

	// Succeeded reports whether the outcome is a [Success].
	Succeeded() bool

	String() string

	outcome()
}

// Success is a 200 response whose body decoded cleanly.
type Success struct {
	StatusCode int
	Payload    any
}

// HTTPError is a response with any status other than 200.
type HTTPError struct {
	StatusCode int
}

// Timeout means the per-request timeout expired.
type Timeout struct{}

// TransportError covers connection failures, unreadable bodies and
// payloads that failed to decode. Message never contains URL credentials.
type TransportError struct {
	Message string
}

func (Success) Kind() string        { return KindSuccess }
func (HTTPError) Kind() string      { return KindHTTPError }
func (Timeout) Kind() string        { return KindTimeout }
func (TransportError) Kind() string { return KindTransportError }

func (Success) Succeeded() bool        { return true }
func (HTTPError) Succeeded() bool      { return false }
func (Timeout) Succeeded() bool        { return false }
func (TransportError) Succeeded() bool { return false }

func (s Success) String() string        { return fmt.Sprintf("success (%d)", s.StatusCode) }
func (e HTTPError) String() string      { return fmt.Sprintf("http error %d", e.StatusCode) }
func (Timeout) String() string          { return "timeout" }
func (e TransportError) String() string { return "transport error: " + e.Message }

func (Success) outcome()        {}
func (HTTPError) outcome()      {}
func (Timeout) outcome()        {}
func (TransportError) outcome() {}

// DecodeFunc parses the body of a successful response for route.
type DecodeFunc func(route string, body []byte) (any, error)

// classify turns a raw [Response] into an [Outcome].
func classify(route string, resp Response, decode DecodeFunc) Outcome {
	if resp.Error != nil {
		if resp.TimedOut {
			return Timeout{}
		}
		return TransportError{Message: sanitizeError(resp.Error)}
	}

	if resp.StatusCode != http.StatusOK {
		return HTTPError{StatusCode: resp.StatusCode}
	}

	payload, err := decode(route, resp.Body)
	if err != nil {
		return TransportError{Message: "invalid payload: " + err.Error()}
	}
	return Success{StatusCode: resp.StatusCode, Payload: payload}
}

// sanitizeError renders err with any URL inside it redacted, so credentials
// embedded in a node address never reach logs or reports.
func sanitizeError(err error) string {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err.Error()
	}

	redacted := "<invalid url>"
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		redacted = u.Redacted()
	}

	msg := fmt.Sprintf("%s %q: %v", urlErr.Op, redacted, urlErr.Err)
	if urlErr.URL != "" && urlErr.URL != redacted {
		msg = strings.ReplaceAll(msg, urlErr.URL, redacted)
	}
	return msg
}
