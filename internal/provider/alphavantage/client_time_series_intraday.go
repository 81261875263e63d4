package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"stockseries/internal/provider"
)

// ErrMissingSeries is wrapped by a DeserializationError when the body has no
// series object for the requested interval.
var ErrMissingSeries = errors.New("missing series object")

// maxErrorBody caps the body excerpt kept on a TransportError.
const maxErrorBody = 2 << 10

// messageKeys are the top-level keys the provider uses instead of data when
// it refuses a request (bad symbol, bad key, throttling).
var messageKeys = []string{"Error Message", "Note", "Information"}

// SeriesKey returns the top-level key holding the series for interval,
// e.g. "Time Series (60min)".
func SeriesKey(interval string) string {
	return fmt.Sprintf("Time Series (%s)", interval)
}

// FetchIntraday performs exactly one GET for req and returns the raw series.
func (c *Client) FetchIntraday(ctx context.Context, req provider.Request) (provider.RawSeries, error) {
	query := url.Values{}
	query.Set("function", req.Function)
	query.Set("symbol", req.Symbol)
	query.Set("interval", req.Interval)
	query.Set("apikey", c.apiKey)

	endpoint := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &provider.TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header = c.header.Clone()
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &provider.TransportError{Err: fmt.Errorf("performing request: %w", err)}
	}
	defer res.Body.Close()

	body, readErr := io.ReadAll(res.Body)
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &provider.TransportError{StatusCode: res.StatusCode, Body: string(body), Err: readErr}
	}
	if readErr != nil {
		return nil, &provider.BodyReadError{Err: readErr}
	}

	return decodeSeries(body, SeriesKey(req.Interval))
}

func decodeSeries(body []byte, key string) (provider.RawSeries, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, &provider.DeserializationError{Key: key, Err: err}
	}

	raw, ok := top[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &provider.DeserializationError{Key: key, Message: providerMessage(top), Err: ErrMissingSeries}
	}

	var series provider.RawSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, &provider.DeserializationError{Key: key, Err: err}
	}
	return series, nil
}

// providerMessage returns the first explanatory message found in top.
func providerMessage(top map[string]json.RawMessage) string {
	for _, k := range messageKeys {
		raw, ok := top[k]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return ""
}
