// Package report serializes run reports into the text and XML result file
// formats and parses those files back into counts.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/acarl005/stripansi"

	"osptest/internal/domain"
)

var (
	ErrFileExists          = errors.New("report file already exists")
	ErrStorageFull         = errors.New("storage full")
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// Write renders rep in the given format
func Write(w io.Writer, typ domain.ReportType, rep domain.RunReport) error {
	switch typ {
	case domain.ReportText:
		return WriteText(w, rep)
	case domain.ReportXML:
		return WriteXML(w, rep)
	}
	return fmt.Errorf("unsupported report type %d", typ)
}

// WriteFile renders rep and writes it to path. Without overwrite an existing
// file is left untouched and ErrFileExists is returned.
func WriteFile(path string, overwrite bool, typ domain.ReportType, rep domain.RunReport) error {
	var buf bytes.Buffer
	if err := Write(&buf, typ, rep); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return classify(path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return classify(path, err)
	}
	if err := f.Close(); err != nil {
		return classify(path, err)
	}
	return nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	case errors.Is(err, syscall.ENOSPC):
		return fmt.Errorf("%w: %w", ErrStorageFull, err)
	default:
		return fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
}

// FailureData returns "[F]Suite::Case-message" and "[E]Suite::Case-message"
// lines in recorded order.
func FailureData(rep domain.RunReport) []string {
	var out []string
	for _, s := range rep.Suites {
		for _, c := range s.Cases {
			if c.Outcome != domain.OutcomeFail && c.Outcome != domain.OutcomeError {
				continue
			}
			out = append(out, fmt.Sprintf("%s%s::%s-%s", c.Outcome.Marker(), s.Name, c.Name, flatten(c.Message)))
		}
	}
	return out
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// flatten makes msg fit on one report line
func flatten(msg string) string {
	return strings.TrimSpace(newlines.Replace(stripansi.Strip(msg)))
}
