package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/movsb/tiny/httpd"
	"github.com/movsb/tiny/internal"
)

var errUsage = errors.New("usage")

type options struct {
	configFile string
	verbose    bool
	port       string
}

// parseArgs parses the command line after the program name. Usage is
// printed to stderr on errors.
func parseArgs(prog string, args []string, stderr io.Writer) (*options, error) {
	var opts options

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "yaml config file")
	fs.BoolVar(&opts.verbose, "v", false, "log request and response headers")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s <port>\n", prog)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: %s <port>\n", prog)
		return nil, errUsage
	}

	opts.port = fs.Arg(0)
	return &opts, nil
}

func parseConfig() (*internal.Config, string) {
	opts, err := parseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(1)
	}

	config, err := internal.LoadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.verbose {
		config.Verbose = true
	}

	return config, opts.port
}

func main() {
	config, port := parseConfig()

	tslog := internal.NewTSLog(os.Stderr, config.Verbose)

	s := httpd.NewServer(config, tslog)
	if err := s.Run("tcp", net.JoinHostPort(config.Listen, port)); err != nil {
		tslog.Red("%s", err)
		os.Exit(1)
	}
}
