package server

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-imap/utf7"
	"github.com/emersion/go-mbox"
	"github.com/pkg/errors"

	"github.com/emurenMRz/mimeview/internal/loader"
)

var archiveExtensions = []string{".mht", ".mhtml", ".eml"}

// IsArchiveName returns whether a file holds a single MIME document rather
// than an mbox mailbox.
func IsArchiveName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range archiveExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// mailboxPath returns the file of a mailbox. The name coming from the API is
// UTF-8, files on disk are IMAP-UTF7 encoded.
func mailboxPath(mailboxName string) (string, error) {
	encoded, err := utf7.Encoding.NewEncoder().String(mailboxName)
	if err != nil {
		return "", errors.Wrap(err, "encoding mailbox name")
	}
	if encoded != filepath.Base(encoded) || encoded == "." || encoded == ".." {
		return "", errors.Errorf("bad mailbox name %q", mailboxName)
	}
	return filepath.Join(basePath, encoded), nil
}

// archivePath returns the file of an archive in the base directory.
func archivePath(name string) (string, error) {
	if name != filepath.Base(name) || !IsArchiveName(name) {
		return "", errors.Errorf("bad archive name %q", name)
	}
	return filepath.Join(basePath, name), nil
}

// ReadMessages reads all messages from an mbox file as UTF-8 text, without
// their envelope lines.
func ReadMessages(mboxPath string) ([]string, error) {
	f, err := os.Open(mboxPath)
	if err != nil {
		return nil, errors.Wrap(err, "open mailbox")
	}
	defer f.Close()

	var messages []string
	reader := mbox.NewReader(f)
	for i := 0; ; i++ {
		// reader.NextMessage returns an io.Reader positioned at the start of a message
		mr, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return messages, errors.Wrapf(err, "reading message %d", i)
		}
		buf, err := io.ReadAll(mr)
		if err != nil {
			return messages, errors.Wrapf(err, "reading message %d", i)
		}
		text, err := loader.DecodeText(buf, "")
		if err != nil {
			// Keep the index of later messages stable.
			text = string(buf)
		}
		messages = append(messages, text)
	}
	return messages, nil
}
