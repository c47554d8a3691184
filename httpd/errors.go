package httpd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/fasthttp"
)

var (
	// ErrLineTooLong is returned when a request line or header line does not
	// fit in the configured maximum.
	ErrLineTooLong = errors.New("line too long")

	// errAbort marks a client that went away before the request was complete.
	errAbort = errors.New("client closed connection")
)

// ClientError is an error that is reported to the client as an HTML page.
type ClientError struct {
	Cause   string // the faulting resource
	Code    int
	Phrase  string
	Message string

	// Footer names the server at the bottom of the page.
	Footer string
}

func newClientError(cause string, code int, message string) *ClientError {
	return &ClientError{
		Cause:   cause,
		Code:    code,
		Phrase:  fasthttp.StatusMessage(code),
		Message: message,
	}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%d %s: %s: %s", e.Code, e.Phrase, e.Message, e.Cause)
}

// Body returns the HTML page for e.
func (e *ClientError) Body() string {
	footer := e.Footer
	if footer == "" {
		footer = "Tiny Web Server"
	}

	return "<html><title>Tiny Error</title>" +
		"<body bgcolor=\"ffffff\">\r\n" +
		strconv.Itoa(e.Code) + ": " + e.Phrase + "\r\n" +
		"<p>" + e.Message + ": " + e.Cause + "\r\n" +
		"<hr><em>The " + footer + "</em>\r\n"
}

// WriteTo sends the complete error response to w.
func (e *ClientError) WriteTo(w io.Writer) (int64, error) {
	body := e.Body()

	resp := fmt.Sprintf("HTTP/1.0 %d %s\r\n", e.Code, e.Phrase) +
		"Content-Type: text/html\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n", len(body)) +
		"\r\n" +
		body

	n, err := io.WriteString(w, resp)
	return int64(n), err
}
