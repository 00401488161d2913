package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/emurenMRz/mimeview/internal/loader"
	"github.com/emurenMRz/mimeview/internal/metrics"
	"github.com/emurenMRz/mimeview/internal/mimeheader"
	"github.com/emurenMRz/mimeview/internal/mimeparse"
	"github.com/emurenMRz/mimeview/internal/server"
)

var stdout io.Writer = os.Stdout

func main() {
	app := makeApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = "mimecheck"
	app.Usage = "Check, inspect and fix MIME archives and mbox mailboxes."
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "Log parser details to stderr.",
		},
		cli.BoolFlag{
			Name:  "strict-text",
			Usage: "Require every transfer encoded body to decode to UTF-8 text.",
		},
	}
	app.Commands = []cli.Command{
		validateCommand(),
		showCommand(),
		headersCommand(),
		fixCommand(),
	}
	return app
}

func newParser(c *cli.Context) *mimeparse.Parser {
	level := slog.LevelWarn
	if c.GlobalBool("verbose") {
		level = slog.LevelDebug
	}
	return mimeparse.NewParser(mimeparse.Options{
		Logger:       slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		BinaryBodies: !c.GlobalBool("strict-text"),
	})
}

func requireArgs(n int) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			return errors.Errorf("need at least %d file argument(s)", n)
		}
		return nil
	}
}

func validateCommand() cli.Command {
	return cli.Command{
		Name:      "validate",
		Usage:     "report header and body problems; exits with status 1 when any are found",
		ArgsUsage: "file ...",
		Before:    requireArgs(1),
		Action: func(c *cli.Context) error {
			problems := 0
			for _, path := range c.Args() {
				results, err := validateFile(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "%s:\n", path)
				outputText(stdout, results)
				problems += len(results)
			}
			if problems > 0 {
				return cli.NewExitError(fmt.Sprintf("%d problem(s) found", problems), 1)
			}
			return nil
		},
	}
}

// validateFile lints an archive, or checks every message of a mailbox against
// RFC 5322.
func validateFile(path string) ([]mimeheader.ValidationResult, error) {
	if !server.IsArchiveName(path) {
		messages, err := server.ReadMessages(path)
		if err != nil {
			return nil, err
		}
		var results []mimeheader.ValidationResult
		for i, text := range messages {
			results = append(results, mimeheader.ValidateMessage(mimeheader.Parse(text), i)...)
		}
		return results, nil
	}

	text, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	results := mimeheader.LintArchive(text)
	if mimeheader.Parse(text).Has("from") {
		// A saved message, hold it to the message rules too.
		results = append(results, mimeheader.ValidateMessage(mimeheader.Parse(text), 0)...)
	}
	return results, nil
}

func showCommand() cli.Command {
	return cli.Command{
		Name:      "show",
		Usage:     "list the resources of an archive",
		ArgsUsage: "file",
		Before:    requireArgs(1),
		Action: func(c *cli.Context) error {
			text, err := loader.Load(c.Args().First())
			if err != nil {
				return err
			}
			start := time.Now()
			a, err := newParser(c).Parse(text)
			metrics.ParseObserve("check", a, err, start)
			if err != nil {
				return errors.Wrap(err, "parsing archive")
			}
			showArchive(stdout, a)
			return nil
		},
	}
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func showArchive(w io.Writer, a *mimeparse.Archive) {
	fields := mimeheader.NewFields(a.MainResource.Header.Fields)
	if subject := fields.Decoded("subject"); subject != "" {
		fmt.Fprintf(w, "Subject: %s\n", subject)
	}

	t := tabby.NewCustom(newTabWriter(w))
	t.AddHeader("#", "Type", "Encoding", "Size", "ID")
	var total uint64
	for i, r := range a.Resources() {
		h := r.Header
		t.AddLine(i, h.MediaType(), h.ContentTransferEncoding, humanize.Bytes(uint64(len(r.Body))), mimeheader.ResourceID(mimeheader.NewFields(h.Fields)))
		total += uint64(len(r.Body))
	}
	t.Print()
	fmt.Fprintf(w, "%d resource(s), %s\n", len(a.Resources()), humanize.Bytes(total))
}

func headersCommand() cli.Command {
	return cli.Command{
		Name:      "headers",
		Usage:     "print the refolded header of a resource",
		ArgsUsage: "file",
		Before:    requireArgs(1),
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "resource, r",
				Usage: "resource index, 0 is the document header",
			},
		},
		Action: func(c *cli.Context) error {
			text, err := loader.Load(c.Args().First())
			if err != nil {
				return err
			}
			a, err := newParser(c).Parse(text)
			if err != nil {
				return errors.Wrap(err, "parsing archive")
			}
			resources := a.Resources()
			i := c.Int("resource")
			if i < 0 || i >= len(resources) {
				return errors.Errorf("resource %d out of range, archive has %d", i, len(resources))
			}
			fmt.Fprint(stdout, mimeheader.Refold(resources[i].Header.Fields))
			return nil
		},
	}
}

func outputText(w io.Writer, results []mimeheader.ValidationResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No validation errors found.")
		return
	}

	for _, result := range results {
		switch result.Status {
		case mimeheader.StatusMissing:
			fmt.Fprintf(w, "Resource %d: %s is missing", result.Resource, result.Field)
		case mimeheader.StatusInvalid:
			fmt.Fprintf(w, "Resource %d: %s is invalid", result.Resource, result.Field)
		case mimeheader.StatusDeleted:
			fmt.Fprintf(w, "Resource %d: Status = D (will be removed)", result.Resource)
		}
		if result.Detail != "" {
			fmt.Fprintf(w, " (%s)", result.Detail)
		}
		fmt.Fprintln(w)
	}
}
