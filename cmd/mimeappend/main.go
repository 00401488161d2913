// Command mimeappend appends a message read from stdin to an mbox file. It is
// meant to be run as a local delivery agent, so it exits with sysexits codes.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/pkg/errors"

	"github.com/emurenMRz/mimeview/internal/loader"
	"github.com/emurenMRz/mimeview/internal/metrics"
	"github.com/emurenMRz/mimeview/internal/mimeheader"
	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

const (
	exitOK       = 0
	exitDataErr  = 65 // EX_DATAERR
	exitTempFail = 75 // EX_TEMPFAIL
)

var errNoHeader = errors.New("message has no header")

func main() {
	host := flag.String("host", "localhost", "domain of generated Message-IDs")
	strict := flag.Bool("strict", false, "reject messages that are not valid MIME documents")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <mbox-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(exitTempFail)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Error("read error", slog.Any("err", err))
		os.Exit(exitTempFail)
	}

	msg, err := prepareMessage(data, *host, *strict, log)
	if err != nil {
		log.Error("rejecting message", slog.Any("err", err))
		os.Exit(exitDataErr)
	}

	if err := appendMessage(flag.Arg(0), msg); err != nil {
		log.Error("cannot append to mbox", slog.Any("err", err))
		os.Exit(exitTempFail)
	}
	os.Exit(exitOK)
}

type message struct {
	from string
	date time.Time
	text string
}

// prepareMessage adds a Message-ID to a message without one. Messages that do
// not parse as MIME documents are delivered with a warning, or rejected when
// strict is set.
func prepareMessage(data []byte, host string, strict bool, log *slog.Logger) (message, error) {
	text, err := loader.DecodeText(data, "")
	if err != nil {
		text = string(data)
	}

	c := mimeparse.NewCursor(text)
	raw, err := mimeparse.ReadHeader(c)
	if err != nil {
		return message{}, errors.Wrap(errNoHeader, err.Error())
	}
	body := c.Remainder()

	start := time.Now()
	a, err := mimeparse.NewParser(mimeparse.Options{Logger: log, BinaryBodies: true}).Parse(text)
	metrics.ParseObserve("append", a, err, start)
	if err != nil {
		if strict {
			return message{}, err
		}
		log.Warn("message is not a valid mime document", slog.Any("err", err))
	}

	header, results := mimeheader.NormalizeHeaders(raw, host, 0)
	for _, r := range results {
		log.Info("header problem", slog.String("field", r.Field), slog.String("status", r.Status))
	}

	from, date := mimeheader.Envelope(mimeheader.NewFields(raw), time.Now())
	// The mbox writer adds the blank line that ends the message.
	msg := message{from: from, date: date, text: strings.TrimRight(header+body, "\r\n")}
	return msg, nil
}

func appendMessage(path string, msg message) error {
	var buf bytes.Buffer
	mw := mbox.NewWriter(&buf)
	w, err := mw.CreateMessage(msg.from, msg.date)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, msg.text); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0660)
	if err != nil {
		return errors.Wrap(err, "open mbox")
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return errors.Wrap(err, "write")
	}
	return f.Close()
}
