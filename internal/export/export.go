// Package export renders a snapshot for people and other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"

	"stockseries/internal/snapshot"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Write renders snap to w in the given format.
func Write(w io.Writer, format Format, snap *snapshot.Snapshot) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatCSV:
		return writeCSV(w, snap)
	case FormatTable:
		return writeTable(w, snap)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeJSON(w io.Writer, snap *snapshot.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// csvRow is one CSV line; timestamps are pre-formatted so the encoder only
// sees plain strings and numbers.
type csvRow struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    uint64  `csv:"volume"`
}

func writeCSV(w io.Writer, snap *snapshot.Snapshot) error {
	rows := make([]*csvRow, 0, len(snap.Series))
	for _, e := range snap.Series {
		rows = append(rows, &csvRow{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Open:      e.Open,
			High:      e.High,
			Low:       e.Low,
			Close:     e.Close,
			Volume:    e.Volume,
		})
	}
	if len(rows) == 0 {
		// gocsv needs at least one element to derive the header.
		_, err := io.WriteString(w, "timestamp,open,high,low,close,volume\n")
		return err
	}
	return gocsv.Marshal(rows, w)
}

func writeTable(w io.Writer, snap *snapshot.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", snap.Request.Symbol, snap.Request.Interval)
	fmt.Fprintln(tw, "TIME\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME\t")
	for _, e := range snap.Series {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			price(e.Open), price(e.High), price(e.Low), price(e.Close),
			humanize.Comma(int64(e.Volume)),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := snap.Summary
	if sum.Count == 0 {
		_, err := fmt.Fprintln(w, "no entries")
		return err
	}
	_, err := fmt.Fprintf(w, "%d entries, close min %s max %s avg %s last %s, volume %s\n",
		sum.Count,
		price(sum.MinClose), price(sum.MaxClose), price(sum.AvgClose), price(sum.LastClose),
		humanize.Comma(int64(sum.TotalVolume)),
	)
	return err
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
