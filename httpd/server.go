package httpd

import (
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/movsb/tiny/internal"
)

// Server accepts connections and serves them one at a time.
type Server struct {
	Handler    *Handler
	LookupPeer bool
	Log        *internal.TSLog

	mu     sync.Mutex
	l      net.Listener
	closed bool
}

// NewServer creates a server from c.
func NewServer(c *internal.Config, log *internal.TSLog) *Server {
	if log == nil {
		log = internal.Discard()
	}

	return &Server{
		Handler:    NewHandler(c, log),
		LookupPeer: c.LookupPeer,
		Log:        log,
	}
}

// Run listens on addr and serves until the listener is closed.
func (s *Server) Run(network, addr string) error {
	l, err := net.Listen(network, addr)
	if err != nil {
		return err
	}

	return s.Serve(l)
}

// Serve runs the accept loop on l. Each connection is handled to completion
// and closed before the next one is accepted. It returns nil after Close.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return nil
	}
	s.l = l
	s.mu.Unlock()

	s.Log.Log("listening on %s", l.Addr())

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.Log.Red("accept: %s", err)
				continue
			}
			return err
		}

		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	host, port := s.peer(conn.RemoteAddr())
	s.Log.Log("Accepted connection from (%s, %s)", host, port)

	defer s.Log.Elapsed("cycle", time.Now())

	s.Handler.Handle(conn)
}

func (s *Server) peer(addr net.Addr) (string, string) {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), ""
	}

	if s.LookupPeer {
		if names, err := net.LookupAddr(host); err == nil && len(names) > 0 {
			host = strings.TrimSuffix(names[0], ".")
		}
	}

	return host, port
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.l == nil {
		return nil
	}
	return s.l.Addr()
}

// Close stops the accept loop. The connection being served, if any, is
// finished first. A later Serve returns at once.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.l == nil {
		return nil
	}
	return s.l.Close()
}
