package resultfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// ResultMarker starts the line holding the result signature
	ResultMarker = "Result:"
	// TimeMarker starts the line holding the elapsed seconds
	TimeMarker = "Time:"

	maxLineSize = 16 * 1024 * 1024
)

// ErrMalformedTime is returned when a Time: line carries no parsable number.
var ErrMalformedTime = errors.New("malformed Time line")

// Record holds the values a kernel run declares in its output.
// Only the first Result: and Time: lines are considered.
type Record struct {
	result    string
	hasResult bool
	time      float64
	hasTime   bool
}

// NewRecord builds a record; use nil to mark a value as absent.
func NewRecord(result *string, seconds *float64) Record {
	var r Record
	if result != nil {
		r.result, r.hasResult = *result, true
	}
	if seconds != nil {
		r.time, r.hasTime = *seconds, true
	}
	return r
}

// Result returns the declared result signature.
func (r Record) Result() (string, bool) {
	return r.result, r.hasResult
}

// Time returns the declared elapsed time in seconds.
func (r Record) Time() (float64, bool) {
	return r.time, r.hasTime
}

// Parse scans kernel output line by line for the Result: and Time: markers.
func Parse(reader io.Reader) (Record, error) {
	return parse(reader, true)
}

// ParseResult scans kernel output for the Result: marker only. Time: lines
// are ignored, malformed or not.
func ParseResult(reader io.Reader) (Record, error) {
	return parse(reader, false)
}

func parse(reader io.Reader, withTime bool) (Record, error) {
	var rec Record

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if !rec.hasResult && strings.HasPrefix(line, ResultMarker) {
			rec.result = strings.TrimPrefix(line, ResultMarker)
			rec.hasResult = true
			continue
		}

		if withTime && !rec.hasTime && strings.HasPrefix(line, TimeMarker) {
			fields := strings.Fields(strings.TrimPrefix(line, TimeMarker))
			if len(fields) == 0 {
				return Record{}, fmt.Errorf("%w: %q", ErrMalformedTime, line)
			}
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return Record{}, fmt.Errorf("%w: %q", ErrMalformedTime, line)
			}
			rec.time = v
			rec.hasTime = true
		}

		if rec.hasResult && (rec.hasTime || !withTime) {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("error reading output: %w", err)
	}

	return rec, nil
}
