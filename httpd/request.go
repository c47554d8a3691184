package httpd

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Request is the parsed request line. Headers are read but not kept.
type Request struct {
	Method  string
	URI     string
	Version string
}

// lineReader reads CRLF or LF terminated lines of at most max bytes, not
// counting the terminator.
type lineReader struct {
	br  *bufio.Reader
	max int
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{
		br:  bufio.NewReaderSize(r, max+2),
		max: max,
	}
}

// ReadLine returns the next line without its terminator. A line that does
// not fit in the buffer yields ErrLineTooLong, and a connection closed
// before the terminator yields errAbort.
func (l *lineReader) ReadLine() (string, error) {
	b, err := l.br.ReadSlice('\n')
	switch {
	case err == nil:
	case errors.Is(err, bufio.ErrBufferFull):
		return "", ErrLineTooLong
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "", errAbort
	default:
		return "", err
	}

	line := strings.TrimRight(string(b), "\r\n")
	if len(line) > l.max {
		return "", ErrLineTooLong
	}
	return line, nil
}

// parseRequestLine splits "<METHOD> <URI> <VERSION>". ok is false when fewer
// than three tokens are present.
func parseRequestLine(line string) (req Request, ok bool) {
	toks := strings.Fields(line)
	if len(toks) < 3 {
		if len(toks) > 0 {
			req.Method = toks[0]
		}
		return req, false
	}

	req.Method, req.URI, req.Version = toks[0], toks[1], toks[2]
	return req, true
}
