package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CGI marker matching modes.
const (
	MatchSubstring = "substring"
	MatchPrefix    = "prefix"
)

// Config holds the server settings. Zero values are filled by Defaults.
type Config struct {
	Listen          string `yaml:"listen"`
	Root            string `yaml:"root"`
	ServerName      string `yaml:"server_name"`
	DefaultDocument string `yaml:"default_document"`
	CGIMarker       string `yaml:"cgi_marker"`
	CGIMatch        string `yaml:"cgi_match"`
	MaxLineLength   int    `yaml:"max_line_length"` // excluding CRLF
	AllowHead       bool   `yaml:"allow_head"`
	LookupPeer      bool   `yaml:"lookup_peer"`
	Verbose         bool   `yaml:"verbose"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Root:            ".",
		ServerName:      "Tiny Web Server",
		DefaultDocument: "home.html",
		CGIMarker:       "cgi-bin",
		CGIMatch:        MatchSubstring,
		MaxLineLength:   8192,
		AllowHead:       true,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	c := Defaults()
	if path == "" {
		return &c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.decode(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &c, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return c.Validate()
}

// Validate checks the settings for values the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Root == "":
		return errors.New("root must not be empty")
	case c.DefaultDocument == "":
		return errors.New("default_document must not be empty")
	case c.CGIMarker == "":
		return errors.New("cgi_marker must not be empty")
	case c.MaxLineLength <= 0:
		return fmt.Errorf("bad max_line_length: %d", c.MaxLineLength)
	}

	switch c.CGIMatch {
	case MatchSubstring, MatchPrefix:
	default:
		return fmt.Errorf("bad cgi_match: %q", c.CGIMatch)
	}

	return nil
}
