package provider

import (
	"context"
	"errors"
)

const (
	// FunctionIntraday is the query type for intraday OHLCV bars.
	FunctionIntraday = "TIME_SERIES_INTRADAY"

	Interval1Min  = "1min"
	Interval5Min  = "5min"
	Interval15Min = "15min"
	Interval30Min = "30min"
	Interval60Min = "60min"
)

// Request describes which function, symbol and sampling interval to query.
// Values are not checked against the provider's alphabet; the provider is
// authoritative for what it accepts.
type Request struct {
	Function string `json:"function"`
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
}

// NewRequest builds a Request. It never fails.
func NewRequest(function, symbol, interval string) Request {
	return Request{Function: function, Symbol: symbol, Interval: interval}
}

// Validate reports the first empty field.
func (r Request) Validate() error {
	switch {
	case r.Function == "":
		return errors.New("request: function is empty")
	case r.Symbol == "":
		return errors.New("request: symbol is empty")
	case r.Interval == "":
		return errors.New("request: interval is empty")
	}
	return nil
}

// RawSeries is the loosely typed payload keyed by "YYYY-MM-DD HH:MM:SS",
// each value mapping a provider label ("1. open", ...) to its text value.
type RawSeries map[string]map[string]string

// Provider fetches one raw intraday snapshot.
type Provider interface {
	Name() string
	FetchIntraday(ctx context.Context, req Request) (RawSeries, error)
}
