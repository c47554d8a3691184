package httpd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// staticHeader builds the response head for a file of size bytes.
func staticHeader(server, contentType string, size int64) string {
	return "HTTP/1.0 200 OK\r\n" +
		"Server: " + server + "\r\n" +
		"Connection: close\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n", size) +
		"Content-Type: " + contentType + "\r\n" +
		"\r\n"
}

// serveStatic writes filename to w. size is the length from the earlier
// stat; the file is mapped with that length and not checked again.
func serveStatic(w io.Writer, server, filename, contentType string, size int64, headOnly bool) (string, error) {
	head := staticHeader(server, contentType, size)
	if _, err := io.WriteString(w, head); err != nil {
		return head, err
	}

	if headOnly || size == 0 {
		return head, nil
	}

	fp, err := os.Open(filename)
	if err != nil {
		return head, err
	}
	defer fp.Close()

	data, err := unix.Mmap(int(fp.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return head, fmt.Errorf("mmap %s: %w", filename, err)
	}
	defer unix.Munmap(data)

	_, err = w.Write(data)
	return head, err
}
