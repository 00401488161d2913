package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/emurenMRz/mimeview/internal/mimeheader"
	"github.com/emurenMRz/mimeview/internal/mimeparse"
	"github.com/emurenMRz/mimeview/internal/server"
)

// message is a mailbox message split into its header and body. header is
// the text written out, fields its raw fields.
type message struct {
	fields []string
	header string
	body   string
}

var leadingBlankLineRegex = regexp.MustCompile(`^\r?\n`)

func splitMessage(text string) message {
	c := mimeparse.NewCursor(text)
	raw, err := mimeparse.ReadHeader(c)
	if err != nil {
		return message{body: text}
	}
	return message{
		fields: raw,
		header: mimeheader.Refold(raw),
		body:   leadingBlankLineRegex.ReplaceAllString(c.Remainder(), ""),
	}
}

func fixCommand() cli.Command {
	return cli.Command{
		Name:      "fix",
		Usage:     "add missing Message-ID fields and refold the headers of a mailbox",
		ArgsUsage: "mbox",
		Before:    requireArgs(1),
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "inplace", Usage: "modify the mailbox in-place"},
			cli.StringFlag{Name: "out", Usage: "output file path"},
			cli.BoolFlag{Name: "dry-run", Usage: "simulate the fix without writing"},
			cli.BoolFlag{Name: "remove-deleted", Usage: "remove messages with Status: D"},
			cli.BoolFlag{Name: "quiet", Usage: "suppress the problem report"},
			cli.StringFlag{Name: "host", Value: "localhost", Usage: "domain of generated Message-IDs"},
		},
		Action: func(c *cli.Context) error {
			inputPath := c.Args().First()
			messages, err := server.ReadMessages(inputPath)
			if err != nil {
				return err
			}

			fixed, results := fixMessages(messages, c.String("host"), c.Bool("remove-deleted"))
			if !c.Bool("quiet") {
				outputText(os.Stderr, results)
			}

			switch {
			case c.Bool("dry-run"):
				return nil
			case c.Bool("inplace"):
				return replaceMailbox(inputPath, fixed)
			case c.String("out") != "":
				return writeMailboxFile(c.String("out"), fixed)
			}
			return writeMailbox(stdout, fixed)
		},
	}
}

func fixMessages(texts []string, host string, removeDeleted bool) ([]message, []mimeheader.ValidationResult) {
	var fixed []message
	var allResults []mimeheader.ValidationResult

	for i, text := range texts {
		m := splitMessage(text)
		if removeDeleted {
			if status, exists := mimeheader.NewFields(m.fields).Get("status"); exists && status == "D" {
				continue
			}
		}

		normalized, results := mimeheader.NormalizeHeaders(m.fields, host, i)
		allResults = append(allResults, results...)
		m.header = normalized
		fixed = append(fixed, m)
	}
	return fixed, allResults
}

func writeMailbox(w io.Writer, messages []message) error {
	mw := mbox.NewWriter(w)
	for i, m := range messages {
		from, date := mimeheader.Envelope(mimeheader.NewFields(m.fields), time.Now())
		ww, err := mw.CreateMessage(from, date)
		if err != nil {
			return errors.Wrapf(err, "writing message %d", i)
		}
		text := m.body
		if m.header != "" {
			text = m.header + "\n" + m.body
		}
		// Close ends each message with the blank line before the next one.
		text = strings.TrimRight(text, "\r\n")
		if _, err := io.WriteString(ww, text); err != nil {
			return errors.Wrapf(err, "writing message %d", i)
		}
	}
	return mw.Close()
}

func writeMailboxFile(path string, messages []message) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if err := writeMailbox(file, messages); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// replaceMailbox writes to a temporary file next to path and renames it over
// path.
func replaceMailbox(path string, messages []message) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "mimecheck-fix-*.mbox")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if err := writeMailbox(tmp, messages); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replacing mailbox")
	}
	fmt.Fprintf(os.Stderr, "%s: %d message(s) written\n", path, len(messages))
	return nil
}
