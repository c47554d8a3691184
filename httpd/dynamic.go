package httpd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// filer is implemented by connections that can expose their descriptor,
// such as *net.TCPConn and *net.UnixConn.
type filer interface {
	File() (*os.File, error)
}

// cgiEnv returns base with QUERY_STRING and REQUEST_METHOD replaced.
func cgiEnv(base []string, args, method string) []string {
	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		if strings.HasPrefix(kv, "QUERY_STRING=") || strings.HasPrefix(kv, "REQUEST_METHOD=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		"QUERY_STRING="+args,
		"REQUEST_METHOD="+method,
	)
}

// serveDynamic sends the status line and Server header, then runs filename
// with its standard output on the connection. The program writes the rest of
// the response. It returns once the program has exited.
func serveDynamic(conn io.Writer, server, filename, args, method string) error {
	prefix := "HTTP/1.0 200 OK\r\n" +
		"Server: " + server + "\r\n"
	if _, err := io.WriteString(conn, prefix); err != nil {
		return err
	}

	cmd := &exec.Cmd{
		Path:   filename,
		Args:   []string{filename},
		Env:    cgiEnv(os.Environ(), args, method),
		Stderr: os.Stderr,
	}

	// Hand the socket itself to the child when we can, so its output is not
	// copied through us.
	if f, ok := conn.(filer); ok {
		fp, err := f.File()
		if err != nil {
			return fmt.Errorf("cgi %s: %w", filename, err)
		}
		defer fp.Close()
		cmd.Stdout = fp
	} else {
		cmd.Stdout = conn
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("cgi %s: start: %w", filename, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("cgi %s: %w", filename, err)
	}

	return nil
}
