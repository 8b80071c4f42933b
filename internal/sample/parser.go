package sample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const maxLineBytes = 1 << 20

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var counterKeys = [...]string{"molts", "likes", "views"}

// ParseResult is the outcome of reading a whole log.
type ParseResult struct {
	Samples []Sample
	Lines   int // non-blank lines seen
	Dropped int // non-blank lines rejected by ParseLine
}

// ParseLine parses one raw log line of the form
//
//	2026-02-06T03:40:02Z molts=389434 likes=563308 views=43927138
//
// The counter fields are located by key, so their order does not matter and
// trailing fields are ignored. Every failure wraps ErrParseFailure.
func ParseLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Sample{}, fmt.Errorf("%w: %w", ErrParseFailure, ErrMalformedLine)
	}

	ts := fields[0]
	t, ok := parseTimestamp(ts)
	if !ok {
		return Sample{}, fmt.Errorf("%w: %w: %q", ErrParseFailure, ErrInvalidTimestamp, ts)
	}

	values := make(map[string]string, len(counterKeys))
	for _, f := range fields[1:] {
		key, val, found := strings.Cut(f, "=")
		if !found {
			continue
		}
		if _, seen := values[key]; !seen {
			values[key] = val
		}
	}

	var parsed [len(counterKeys)]int64
	for i, key := range counterKeys {
		raw, ok := values[key]
		if !ok {
			return Sample{}, fmt.Errorf("%w: %w: %s", ErrParseFailure, ErrMissingField, key)
		}
		n, err := parseCounter(raw)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: %w: %s=%q", ErrParseFailure, ErrInvalidCounter, key, raw)
		}
		parsed[i] = n
	}

	return Sample{
		Timestamp: ts,
		Epoch:     t.Unix(),
		Counters:  Counters{Molts: parsed[0], Likes: parsed[1], Views: parsed[2]},
	}, nil
}

// ParseLog reads every line from r. Blank lines are skipped and malformed lines
// are dropped and counted. Only a read failure is returned as an error.
func ParseLog(r io.Reader) (ParseResult, error) {
	var res ParseResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.Lines++
		s, err := ParseLine(line)
		if err != nil {
			res.Dropped++
			continue
		}
		res.Samples = append(res.Samples, s)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return res, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCounter accepts only plain decimal digits, no sign.
func parseCounter(s string) (int64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
