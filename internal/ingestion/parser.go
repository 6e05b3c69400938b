package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

// expectedHeaders enforces strict column ordering for tick history files.
// If the header doesn't match EXACTLY (order + count), the file is rejected.
var expectedHeaders = []string{
	"Timestamp",
	"Price",
	"Open",
	"High",
	"Low",
	"Volume",
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// emitFunc receives parsed ticks in batches. The slice is reused after the
// call returns.
type emitFunc func(batch []models.Tick) error

// parseFile opens, validates and parses one file, handing ticks to emit in batches.
// It fails on:
//   - header not matching expected order/length
//   - a row with a missing or malformed timestamp or price
//   - unrecoverable I/O errors
//
// It tolerates:
//   - comma decimal separators
//   - empty Open/High/Low cells (they default to Price)
//   - empty Volume cells (volume unknown)
func parseFile(ctx context.Context, path string, emit emitFunc, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // checked explicitly below

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) != expectedHeaders[i] {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	buf := make([]models.Tick, 0, batch)
	lineNumber := 1

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := emit(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		tk, err := recordToTick(rec)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		buf = append(buf, tk)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	return total, nil
}

// recordToTick converts one validated record into a models.Tick.
//
// Column order:
//
//	0 Timestamp → Timestamp (RFC3339 or "2006-01-02 15:04:05", required)
//	1 Price     → Price (float, comma→dot, required)
//	2 Open      → Open (float, empty→Price)
//	3 High      → High (float, empty→Price)
//	4 Low       → Low (float, empty→Price)
//	5 Volume    → Volume (float, empty→unknown)
func recordToTick(rec []string) (models.Tick, error) {
	var t models.Tick

	ts, err := parseTimestamp(strings.TrimSpace(rec[0]))
	if err != nil {
		return t, err
	}
	t.Timestamp = ts

	price, ok, err := parseDecimal(rec[1])
	if err != nil {
		return t, fmt.Errorf("invalid Price: %v", err)
	}
	if !ok {
		return t, errors.New("missing Price")
	}
	t.Price = price

	for i, dst := range []*float64{&t.Open, &t.High, &t.Low} {
		v, ok, err := parseDecimal(rec[2+i])
		if err != nil {
			return t, fmt.Errorf("invalid %s: %v", expectedHeaders[2+i], err)
		}
		if !ok {
			v = price
		}
		*dst = v
	}

	v, ok, err := parseDecimal(rec[5])
	if err != nil {
		return t, fmt.Errorf("invalid Volume: %v", err)
	}
	if ok {
		t.Volume = &v
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing Timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Timestamp: %q", s)
}

// parseDecimal parses a float that may use a comma decimal separator.
// An empty cell reports ok=false.
func parseDecimal(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
