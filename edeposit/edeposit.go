// Package edeposit reads and writes eDeposit.txt files: one
// "eventID,charge" record per line.
package edeposit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FileName is the name of the deposit file inside a run directory.
const FileName = "eDeposit.txt"

type Record struct {
	EventID int
	Charge  float64
}

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Read parses records from r. Blank lines and lines starting with '#' are
// skipped.
func Read(r io.Reader) ([]Record, error) {
	records := make([]Record, 0)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		items := strings.Split(text, ",")
		if len(items) < 2 {
			return nil, &ParseError{line, text, errors.New("expected eventID,charge")}
		}
		eid, err := strconv.Atoi(strings.TrimSpace(items[0]))
		if err != nil {
			return nil, &ParseError{line, text, err}
		}
		charge, err := strconv.ParseFloat(strings.TrimSpace(items[1]), 64)
		if err != nil {
			return nil, &ParseError{line, text, err}
		}
		records = append(records, Record{eid, charge})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading deposits")
	}
	return records, nil
}

// Write writes one line per record.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%d,%s\n", r.EventID, strconv.FormatFloat(r.Charge, 'g', -1, 64)); err != nil {
			return errors.Wrap(err, "writing deposits")
		}
	}
	return errors.Wrap(bw.Flush(), "writing deposits")
}

// Charges returns the charge column of records.
func Charges(records []Record) []float64 {
	c := make([]float64, len(records))
	for i, r := range records {
		c[i] = r.Charge
	}
	return c
}
