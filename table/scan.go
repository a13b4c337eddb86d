package table

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

const maxLineBytes = 1 << 20

// Row is one accepted data line.
type Row struct {
	Fields []string
	Line   int // 1-based, counting header lines
	format string
}

// Scan reads r line by line according to f and calls fn for every data row.
//
// The first f.HeaderLines lines are dropped whatever they contain. Remaining
// lines are trimmed; empty lines, comment lines and lines with an unexpected
// field count are skipped. Lines longer than maxLineBytes are noise too and
// are skipped without being buffered. An error from fn stops the scan and is
// returned as is.
func Scan(r io.Reader, f Format, fn func(Row) error) error {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		buf     []byte
		tooLong bool
		line    int
	)
	for {
		chunk, more, err := br.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(errors.Mark(err, errors.ErrSourceUnreadable), "%s table after line %d", f.Name, line)
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if more {
			continue
		}

		line++
		text, skip := strings.TrimSpace(string(buf)), tooLong
		buf, tooLong = buf[:0], false
		if skip || line <= f.HeaderLines || text == "" {
			continue
		}
		if f.Comment != "" && strings.HasPrefix(text, f.Comment) {
			continue
		}

		fields := strings.Fields(text)
		if !f.accepts(len(fields)) {
			continue
		}

		if err := fn(Row{Fields: fields, Line: line, format: f.Name}); err != nil {
			return err
		}
	}
}

func (r Row) malformed(col int, what string, cause error) error {
	text := ""
	if col >= 0 && col < len(r.Fields) {
		text = r.Fields[col]
	}
	err := errors.Wrapf(errors.ErrMalformedField, "%s table line %d column %d: %q is not %s", r.format, r.Line, col+1, text, what)
	if cause != nil {
		err = errors.WithDetail(err, cause.Error())
	}
	return err
}

// Int decodes field i as a base-10 integer.
func (r Row) Int(i int) (int, error) {
	if i < 0 || i >= len(r.Fields) {
		return 0, r.malformed(i, "present", nil)
	}
	v, err := strconv.Atoi(r.Fields[i])
	if err != nil {
		return 0, r.malformed(i, "an integer", err)
	}
	return v, nil
}

// Float decodes field i as a float64 ("5.61488E-04").
func (r Row) Float(i int) (float64, error) {
	if i < 0 || i >= len(r.Fields) {
		return 0, r.malformed(i, "present", nil)
	}
	v, err := strconv.ParseFloat(r.Fields[i], 64)
	if err != nil {
		return 0, r.malformed(i, "a number", err)
	}
	return v, nil
}

// Subshell decodes field i as a numeric subshell code.
func (r Row) Subshell(i int) (subshell.Subshell, error) {
	code, err := r.Int(i)
	if err != nil {
		return 0, err
	}
	s, err := subshell.FromCode(code)
	if err != nil {
		return 0, r.malformed(i, "a subshell code", err)
	}
	return s, nil
}

// SubshellLabel decodes field i as a subshell label ("L3").
func (r Row) SubshellLabel(i int) (subshell.Subshell, error) {
	if i < 0 || i >= len(r.Fields) {
		return 0, r.malformed(i, "present", nil)
	}
	s, err := subshell.Parse(r.Fields[i])
	if err != nil {
		return 0, r.malformed(i, "a subshell label", err)
	}
	return s, nil
}
