package series

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockseries/internal/provider"
)

// Policy decides what happens when an entry cannot be parsed.
type Policy int

const (
	// FailFast aborts the whole normalization on the first bad entry.
	FailFast Policy = iota
	// SkipInvalid drops bad entries and reports them alongside the result.
	SkipInvalid
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case SkipInvalid:
		return "skip-invalid"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "fail-fast" or "skip-invalid" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast", "strict":
		return FailFast, nil
	case "skip-invalid", "skipinvalid", "lenient":
		return SkipInvalid, nil
	}
	return FailFast, fmt.Errorf("unknown normalize policy %q", s)
}

// EntryError describes why one raw entry could not be normalized.
// Label is empty when the timestamp key itself is malformed.
type EntryError struct {
	Key   string
	Label string
	Value string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("entry %q: parsing timestamp: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("entry %q: parsing %q value %q: %v", e.Key, e.Label, e.Value, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// errNotFinite rejects NaN and infinities, which strconv accepts.
var errNotFinite = errors.New("value is not finite")

type setter func(e *Entry, value string) error

func floatSetter(field func(*Entry) *float64) setter {
	return func(e *Entry, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNotFinite
		}
		*field(e) = v
		return nil
	}
}

// labels fixes the order known labels are applied in, so the reported
// error is stable when several fields of one entry are malformed.
var labels = []string{LabelOpen, LabelHigh, LabelLow, LabelClose, LabelVolume}

// setters maps each known label to the field it fills. Labels not listed
// here are ignored.
var setters = map[string]setter{
	LabelOpen:  floatSetter(func(e *Entry) *float64 { return &e.Open }),
	LabelHigh:  floatSetter(func(e *Entry) *float64 { return &e.High }),
	LabelLow:   floatSetter(func(e *Entry) *float64 { return &e.Low }),
	LabelClose: floatSetter(func(e *Entry) *float64 { return &e.Close }),
	LabelVolume: func(e *Entry, value string) error {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		e.Volume = v
		return nil
	},
}

// Normalizer turns a provider.RawSeries into a Series.
type Normalizer struct {
	location *time.Location
	policy   Policy
}

// Option is a configuration option for the Normalizer.
type Option func(*Normalizer)

// WithLocation sets the zone raw timestamps are interpreted in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithPolicy sets the error policy. Defaults to FailFast.
func WithPolicy(p Policy) Option {
	return func(n *Normalizer) {
		n.policy = p
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{location: time.UTC, policy: FailFast}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Policy returns the configured error policy.
func (n *Normalizer) Policy() Policy { return n.policy }

// Normalize normalizes raw with the default Normalizer.
func Normalize(raw provider.RawSeries) (Series, error) {
	return NewNormalizer().Normalize(raw)
}

// Normalize parses every raw entry and returns them sorted by timestamp.
//
// Under FailFast the first bad entry aborts the call with a nil Series and an
// *EntryError. Under SkipInvalid the good entries are returned together with
// an errors.Join of every *EntryError, or a nil error when nothing was skipped.
func (n *Normalizer) Normalize(raw provider.RawSeries) (Series, error) {
	out := make(Series, 0, len(raw))
	var skipped []error

	// Sorted keys make ties and skip reports reproducible.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		entry, err := n.parseEntry(key, raw[key])
		if err != nil {
			if n.policy == FailFast {
				return nil, err
			}
			skipped = append(skipped, err)
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, errors.Join(skipped...)
}

func (n *Normalizer) parseEntry(key string, fields map[string]string) (Entry, error) {
	ts, err := time.ParseInLocation(TimestampLayout, key, n.location)
	if err != nil {
		return Entry{}, &EntryError{Key: key, Err: err}
	}

	entry := Entry{Timestamp: ts}
	for _, label := range labels {
		value, ok := fields[label]
		if !ok {
			continue
		}
		if err := setters[label](&entry, value); err != nil {
			return Entry{}, &EntryError{Key: key, Label: label, Value: value, Err: err}
		}
	}
	return entry, nil
}
