package httpd

import (
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/movsb/tiny/internal"
)

func newTestHandler(t *testing.T, root string) *Handler {
	t.Helper()

	c := internal.Defaults()
	c.Root = root
	c.MaxLineLength = 128
	return NewHandler(&c, nil)
}

// roundTrip runs one cycle of h over an in-memory pipe.
func roundTrip(t *testing.T, h *Handler, req string) string {
	t.Helper()

	client, server := net.Pipe()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Handle(server)
		server.Close()
	}()

	go client.Write([]byte(req))

	out, err := io.ReadAll(client)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	<-done

	return string(out)
}

func TestHandler_Static(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "home.html", []byte("hello"), 0644)
	writeFile(t, root, "docs/home.html", []byte("docs"), 0644)

	h := newTestHandler(t, root)

	out := roundTrip(t, h, "GET /home.html HTTP/1.0\r\nHost: localhost\r\n\r\n")
	want := "HTTP/1.0 200 OK\r\n" +
		"Server: Tiny Web Server\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 5\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"hello"
	if out != want {
		t.Errorf("Unexpected response:\n%q\nwant\n%q", out, want)
	}

	out = roundTrip(t, h, "GET /docs/ HTTP/1.0\r\n\r\n")
	if !strings.HasSuffix(out, "\r\n\r\ndocs") {
		t.Errorf("Default document not served: %q", out)
	}
}

func TestHandler_Head(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "home.html", []byte("hello"), 0644)

	h := newTestHandler(t, root)

	out := roundTrip(t, h, "head /home.html HTTP/1.0\r\n\r\n")
	if !strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n") {
		t.Fatalf("Expected 200, got %q", out)
	}
	if !strings.Contains(out, "Content-Length: 5\r\n") || !strings.HasSuffix(out, "\r\n\r\n") {
		t.Errorf("Expected headers only: %q", out)
	}

	h.AllowHead = false
	out = roundTrip(t, h, "HEAD /home.html HTTP/1.0\r\n\r\n")
	if !strings.HasPrefix(out, "HTTP/1.0 501 Not Implemented\r\n") {
		t.Errorf("Expected 501 with HEAD disabled, got %q", out)
	}
}

func TestHandler_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "secret.html", []byte("x"), 0200)
	writeFile(t, root, "cgi-bin/noexec", []byte("#!/bin/sh\n"), 0644)
	writeFile(t, root, "home.html", []byte("hello"), 0644)
	writeFile(t, root, "docs/index.txt", []byte("x"), 0644)

	h := newTestHandler(t, root)

	tests := []struct {
		name   string
		req    string
		status string
		body   string
	}{
		{"missing", "GET /missing.html HTTP/1.0\r\n\r\n", "404 Not Found", "/missing.html"},
		{"unreadable", "GET /secret.html HTTP/1.0\r\n\r\n", "403 Forbidden", "couldn't read the file"},
		{"directory", "GET /docs HTTP/1.0\r\n\r\n", "403 Forbidden", filepath.Join(root, "docs")},
		{"not executable", "GET /cgi-bin/noexec HTTP/1.0\r\n\r\n", "403 Forbidden", "couldn't run the CGI program"},
		{"cgi directory", "GET /cgi-bin/ HTTP/1.0\r\n\r\n", "403 Forbidden", "couldn't run the CGI program"},
		{"post", "POST /home.html HTTP/1.0\r\n\r\n", "501 Not Implemented", "POST"},
		{"dot dot", "GET /../home.html HTTP/1.0\r\n\r\n", "403 Forbidden", "/../home.html"},
		{"malformed", "GET\r\n\r\n", "400 Bad Request", "parse the request line"},
		{"long line", "GET /" + strings.Repeat("a", 200) + " HTTP/1.0\r\n\r\n", "400 Bad Request", "Request line too long"},
		{"long header", "GET / HTTP/1.0\r\nX: " + strings.Repeat("b", 200) + "\r\n\r\n", "400 Bad Request", "Header line too long"},
	}

	for _, tt := range tests {
		out := roundTrip(t, h, tt.req)

		if !strings.HasPrefix(out, "HTTP/1.0 "+tt.status+"\r\nContent-Type: text/html\r\n") {
			t.Errorf("%s: expected %s, got %q", tt.name, tt.status, out)
			continue
		}
		if !strings.Contains(out, tt.body) {
			t.Errorf("%s: body should contain %q: %q", tt.name, tt.body, out)
		}
	}
}

func TestHandler_ContentTypeIgnoresRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site.html")
	writeFile(t, root, "notes.txt", []byte("plain"), 0644)
	writeFile(t, root, "logo.png", []byte("png"), 0644)

	h := newTestHandler(t, root)

	out := roundTrip(t, h, "GET /notes.txt HTTP/1.0\r\n\r\n")
	if !strings.Contains(out, "Content-Type: text/plain\r\n") {
		t.Errorf("Expected text/plain, got %q", out)
	}

	out = roundTrip(t, h, "GET /logo.png HTTP/1.0\r\n\r\n")
	if !strings.Contains(out, "Content-Type: image/png\r\n") {
		t.Errorf("Expected image/png, got %q", out)
	}
}
