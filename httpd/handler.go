package httpd

import (
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/valyala/fasthttp"

	"github.com/movsb/tiny/internal"
)

// Handler runs one request/response cycle per connection.
type Handler struct {
	Resolver   Resolver
	ServerName string
	MaxLine    int
	AllowHead  bool
	Log        *internal.TSLog
}

// NewHandler builds a Handler from the server settings.
func NewHandler(c *internal.Config, log *internal.TSLog) *Handler {
	if log == nil {
		log = internal.Discard()
	}

	return &Handler{
		Resolver: Resolver{
			Root:            c.Root,
			Marker:          c.CGIMarker,
			DefaultDocument: c.DefaultDocument,
			Prefix:          c.CGIMatch == internal.MatchPrefix,
		},
		ServerName: c.ServerName,
		MaxLine:    c.MaxLineLength,
		AllowHead:  c.AllowHead,
		Log:        log,
	}
}

// Handle serves exactly one request on conn. The caller closes conn.
func (h *Handler) Handle(conn net.Conn) {
	err := h.handle(conn)
	if err == nil {
		return
	}

	var ce *ClientError
	switch {
	case errors.Is(err, errAbort):
		h.Log.Gray("%s: %s", conn.RemoteAddr(), err)
	case errors.As(err, &ce):
		ce.Footer = h.ServerName
		h.Log.Log("%d %s: %s", ce.Code, ce.Phrase, ce.Cause)
		if _, err := ce.WriteTo(conn); err != nil {
			h.Log.Red("write error response: %s", err)
			return
		}
		h.drain(conn)
	default:
		h.Log.Red("%s", err)
	}
}

const (
	drainLimit   = 256 << 10
	drainTimeout = time.Second
)

// drain half-closes conn and discards what the client still sends, so the
// final close does not reset the connection under an unread error page.
func (h *Handler) drain(conn net.Conn) {
	cw, ok := conn.(interface{ CloseWrite() error })
	if !ok {
		return
	}
	if err := cw.CloseWrite(); err != nil {
		return
	}

	conn.SetReadDeadline(time.Now().Add(drainTimeout))
	n, _ := io.CopyN(io.Discard, conn, drainLimit)
	h.Log.Gray("%s: drained %d bytes", conn.RemoteAddr(), n)
}

func (h *Handler) handle(conn net.Conn) error {
	lr := newLineReader(conn, h.MaxLine)

	line, err := lr.ReadLine()
	if err != nil {
		if errors.Is(err, ErrLineTooLong) {
			return newClientError("request line", fasthttp.StatusBadRequest, "Request line too long")
		}
		return err
	}

	h.Log.Gray("Request headers:")
	h.Log.Gray("%s", line)

	req, ok := parseRequestLine(line)

	if err := h.skipHeaders(lr); err != nil {
		return err
	}

	if !ok {
		return newClientError(line, fasthttp.StatusBadRequest, "Tiny couldn't parse the request line")
	}

	if !h.methodAllowed(req.Method) {
		return newClientError(req.Method, fasthttp.StatusNotImplemented, "Tiny does not implement this method")
	}

	return h.route(conn, &req)
}

// skipHeaders reads header lines up to and including the blank line.
func (h *Handler) skipHeaders(lr *lineReader) error {
	for {
		line, err := lr.ReadLine()
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return newClientError("header", fasthttp.StatusBadRequest, "Header line too long")
			}
			return err
		}
		if line == "" {
			return nil
		}
		h.Log.Gray("%s", line)
	}
}

func (h *Handler) methodAllowed(method string) bool {
	if strings.EqualFold(method, http.MethodGet) {
		return true
	}
	return h.AllowHead && strings.EqualFold(method, http.MethodHead)
}

func (h *Handler) route(conn net.Conn, req *Request) error {
	if hasDotDot(req.URI) {
		return newClientError(req.URI, fasthttp.StatusForbidden, "Tiny won't leave the document root")
	}

	t := h.Resolver.Resolve(req.URI)
	h.Log.Gray("uri: %s, filename: %s, cgiargs: %s", req.URI, t.Filename, t.Args)

	fi, err := os.Stat(t.Filename)
	if err != nil {
		return newClientError(t.Filename, fasthttp.StatusNotFound, "Tiny couldn't find this file")
	}

	mode := fi.Mode()

	if !t.Dynamic {
		if !mode.IsRegular() || mode.Perm()&0400 == 0 {
			return newClientError(t.Filename, fasthttp.StatusForbidden, "Tiny couldn't read the file")
		}

		headOnly := strings.EqualFold(req.Method, http.MethodHead)
		head, err := serveStatic(conn, h.ServerName, t.Filename, ContentType(t.Path), fi.Size(), headOnly)
		h.Log.Gray("Response headers:\n%s", head)
		if err != nil {
			return err
		}
		h.Log.Green("200 %s (%s)", t.Filename, humanize.Bytes(uint64(fi.Size())))
		return nil
	}

	if !mode.IsRegular() || mode.Perm()&0100 == 0 {
		return newClientError(t.Filename, fasthttp.StatusForbidden, "Tiny couldn't run the CGI program")
	}

	if err := serveDynamic(conn, h.ServerName, t.Filename, t.Args, req.Method); err != nil {
		return err
	}
	h.Log.Green("200 %s?%s", t.Filename, t.Args)
	return nil
}
