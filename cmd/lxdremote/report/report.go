// Package report renders command output as tables or JSON.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer is a tab separated table writer.
type Writer struct {
	tw *tabwriter.Writer
}

// NewWriter returns a table writer on out. Call Flush when done.
func NewWriter(out io.Writer) *Writer {
	return &Writer{tw: tabwriter.NewWriter(out, 8, 2, 2, ' ', 0)}
}

// Row writes one line of cells.
func (w *Writer) Row(cells ...string) {
	fmt.Fprintln(w.tw, strings.Join(cells, "\t"))
}

func (w *Writer) Flush() error {
	return w.tw.Flush()
}

// JSON writes v indented.
func JSON(out io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

// Size formats a byte count for humans.
func Size(bytes int64) string {
	return units.HumanSizeWithPrecision(float64(bytes), 3)
}

// Since formats the time elapsed since t, "Unknown" for a zero time.
func Since(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return units.HumanDuration(time.Since(t)) + " ago"
}

// Short truncates a fingerprint for display.
func Short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}

// ParseKeyValues turns key=value arguments into a map.
func ParseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid key=value pair %q", pair)
		}
		m[k] = v
	}
	return m, nil
}
