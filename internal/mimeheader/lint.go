package mimeheader

import "github.com/emurenMRz/mimeview/internal/mimeparse"

// LintArchive checks a whole document and reports every problem found in its
// headers and bodies, where mimeparse.Parse stops at the first. Resource 0 is
// the document, parts count from 1. Structural problems that make the rest of
// the document unreadable end the walk.
func LintArchive(text string) []ValidationResult {
	var results []ValidationResult
	add := func(index int, field, status string, err error) {
		results = append(results, ValidationResult{Resource: index, Field: field, Status: status, Detail: err.Error()})
	}

	c := mimeparse.NewCursor(text)
	raw, err := mimeparse.ReadHeader(c)
	if err != nil {
		add(0, "header", StatusMissing, err)
		return results
	}
	results = append(results, ValidateHeaders(NewFields(raw), mimeparse.DocumentRole, 0)...)
	h, err := mimeparse.NewHeader(mimeparse.DocumentRole, mimeparse.InterpretFields(raw, mimeparse.DocumentRole))
	if err != nil {
		add(0, "header", StatusInvalid, err)
		return results
	}

	if !h.IsMultipart() {
		body, _ := mimeparse.ReadBody(c)
		if err := lintBody(body, h); err != nil {
			add(0, "body", StatusInvalid, err)
		}
		return results
	}

	s := mimeparse.NewBoundaryScanner(c, *h.Boundary)
	if err := s.SkipToBodyStart(); err != nil {
		add(0, "body", StatusMissing, err)
		return results
	}
	for i := 1; ; i++ {
		raw, err := mimeparse.ReadHeader(c)
		if err != nil {
			add(i, "header", StatusMissing, err)
			return results
		}
		results = append(results, ValidateHeaders(NewFields(raw), mimeparse.SectionRole, i)...)
		ph, herr := mimeparse.NewHeader(mimeparse.SectionRole, mimeparse.InterpretFields(raw, mimeparse.SectionRole))
		if herr != nil {
			add(i, "header", StatusInvalid, herr)
		}

		body, closing, err := s.ReadPartBody()
		if err != nil {
			add(i, "body", StatusMissing, err)
			return results
		}
		if ph != nil {
			if err := lintBody(body, ph); err != nil {
				add(i, "body", StatusInvalid, err)
			}
		}
		if closing {
			return results
		}
	}
}

// lintBody decodes body. Only UTF-8 text bodies must decode to valid UTF-8.
func lintBody(body string, h *mimeparse.Header) error {
	if h.IsUTF8Text() {
		_, err := mimeparse.Decode(body, h.ContentTransferEncoding)
		return err
	}
	_, err := mimeparse.DecodeBytes(body, h.ContentTransferEncoding)
	return err
}
