package server

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mjl-/sconf"
	"github.com/pkg/errors"
)

// Config is the viewer configuration, read from an sconf file.
type Config struct {
	Path         string `sconf-doc:"Directory with archives (.mht, .mhtml, .eml) and mbox mailboxes. Mailbox file names are IMAP-UTF7 encoded."`
	Listen       string `sconf:"optional" sconf-doc:"Address to listen on. Default: localhost:8080."`
	Static       string `sconf:"optional" sconf-doc:"Directory with the web interface, served at / and /static/. Default: static."`
	LogLevel     string `sconf:"optional" sconf-doc:"Log level: debug, info, warn or error. Default: info."`
	Metrics      bool   `sconf:"optional" sconf-doc:"Serve prometheus metrics at /metrics."`
	BinaryBodies bool   `sconf:"optional" sconf-doc:"Accept transfer encoded bodies that are not UTF-8 text, such as images in MHTML snapshots. Without it such archives fail to parse."`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Path:         ".",
		Listen:       "localhost:8080",
		Static:       "static",
		LogLevel:     "info",
		BinaryBodies: true,
	}
}

// ParseConfig reads an sconf configuration file. Optional fields that are not
// set keep their defaults.
func ParseConfig(path string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return c, errors.Wrap(err, "open config file")
	}
	defer f.Close()
	if err := sconf.Parse(f, &c); err != nil {
		return c, errors.Wrapf(err, "parsing config file %s", path)
	}
	if _, err := c.Level(); err != nil {
		return c, err
	}
	return c, nil
}

// DescribeConfig writes an example configuration file with documentation.
func DescribeConfig(w io.Writer) error {
	c := DefaultConfig()
	c.Path = "/var/mail/archive"
	return sconf.Describe(w, &c)
}

// Level returns the slog level for LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	s := c.LogLevel
	if s == "" {
		s = "info"
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, errors.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}
