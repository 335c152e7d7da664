// Package mgen reads MGEN receiver logs and extracts RECV events.
package mgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	recvMarker   = "RECV"
	reportMarker = "REPORT"

	// HH:MM:SS plus up to six fraction digits
	clockLayout    = "15:04:05"
	maxFracDigits  = 6
	clockPrefixLen = len("15:04:05.")
)

// recvLine captures, in order: receive time, seq>, sent>, size>.
var recvLine = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d+) RECV .*seq>(\d+) .*sent>(\d{2}:\d{2}:\d{2}\.\d+) size>(\d+)`)

// ReceiveRecord is one datagram delivery seen by the receiver.
type ReceiveRecord struct {
	Sequence   uint64
	SentAt     time.Time
	ReceivedAt time.Time
	SizeBytes  uint64
}

// Latency is ReceivedAt - SentAt. Clock skew can make it negative.
func (r ReceiveRecord) Latency() time.Duration {
	return r.ReceivedAt.Sub(r.SentAt)
}

// Stats counts what the parser saw in one input.
type Stats struct {
	Lines      int
	Candidates int
	Records    int
	Skipped    int
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]ReceiveRecord, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()

	recs, st, err := Parse(f)
	if err != nil {
		return nil, st, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, st, nil
}

// Parse returns the RECV records of r in input order. Lines that are not
// receive events, or do not match the grammar, are skipped and counted.
// Only read errors are returned.
func Parse(r io.Reader) ([]ReceiveRecord, Stats, error) {
	var (
		recs []ReceiveRecord
		st   Stats
	)

	// bufio.Reader instead of Scanner: MGEN lines have no upper length bound
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			st.Lines++
			if isCandidate(line) {
				st.Candidates++
				if rec, ok := parseLine(line); ok {
					recs = append(recs, rec)
				} else {
					st.Skipped++
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, err
		}
	}

	st.Records = len(recs)
	return recs, st, nil
}

// isCandidate rejects REPORT lines, which reuse the RECV vocabulary.
func isCandidate(line string) bool {
	return strings.Contains(line, recvMarker) && !strings.Contains(line, reportMarker)
}

func parseLine(line string) (ReceiveRecord, bool) {
	m := recvLine.FindStringSubmatch(line)
	if m == nil {
		return ReceiveRecord{}, false
	}

	recvAt, ok := parseClock(m[1])
	if !ok {
		return ReceiveRecord{}, false
	}
	// capped at MaxInt64 so a sequence span always fits the loss counters
	seq, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil || seq > math.MaxInt64 {
		return ReceiveRecord{}, false
	}
	sentAt, ok := parseClock(m[3])
	if !ok {
		return ReceiveRecord{}, false
	}
	size, err := strconv.ParseUint(m[4], 10, 64)
	if err != nil {
		return ReceiveRecord{}, false
	}

	return ReceiveRecord{
		Sequence:   seq,
		SentAt:     sentAt,
		ReceivedAt: recvAt,
		SizeBytes:  size,
	}, true
}

// parseClock parses HH:MM:SS.f with 1 to 6 fraction digits.
func parseClock(s string) (time.Time, bool) {
	if len(s)-clockPrefixLen > maxFracDigits {
		return time.Time{}, false
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
