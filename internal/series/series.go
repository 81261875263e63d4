// Package series converts raw provider payloads into typed, time-ordered bars.
package series

import "time"

// TimestampLayout is the fixed pattern of raw series keys.
const TimestampLayout = "2006-01-02 15:04:05"

// Known field labels of a raw series entry.
const (
	LabelOpen   = "1. open"
	LabelHigh   = "2. high"
	LabelLow    = "3. low"
	LabelClose  = "4. close"
	LabelVolume = "5. volume"
)

// Entry is one normalized intraday bar. Fields missing from the raw entry
// keep their zero value.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    uint64    `json:"volume"`
}

// Series is a sequence of entries, non-decreasing by Timestamp once normalized.
type Series []Entry

