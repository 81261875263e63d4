package provider_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"stockseries/internal/provider"
)

func TestNewRequest(t *testing.T) {
	t.Parallel()

	// Act: build the same request twice.
	a := provider.NewRequest(provider.FunctionIntraday, "TEAM", provider.Interval60Min)
	b := provider.NewRequest(provider.FunctionIntraday, "TEAM", provider.Interval60Min)

	// Assert: requests are plain comparable values.
	require.Equal(t, a, b)
	require.True(t, a == b)
	require.Equal(t, "TEAM", a.Symbol)
	require.NotEqual(t, a, provider.NewRequest(provider.FunctionIntraday, "TEAM", provider.Interval5Min))
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     provider.Request
		wantErr string
	}{
		{name: "valid", req: provider.NewRequest("F", "S", "I")},
		{name: "no function", req: provider.NewRequest("", "S", "I"), wantErr: "function"},
		{name: "no symbol", req: provider.NewRequest("F", "", "I"), wantErr: "symbol"},
		{name: "no interval", req: provider.NewRequest("F", "S", ""), wantErr: "interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	t.Parallel()

	// Arrange: wrap a sentinel in every error kind.
	var errs = []error{
		&provider.TransportError{Err: io.ErrUnexpectedEOF},
		&provider.BodyReadError{Err: io.ErrUnexpectedEOF},
		&provider.DeserializationError{Key: "Time Series (5min)", Err: io.ErrUnexpectedEOF},
	}

	// Assert: the root cause stays reachable.
	for _, err := range errs {
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	}

	var transport *provider.TransportError
	require.False(t, errors.As(errs[1], &transport))

	status := &provider.TransportError{StatusCode: 500, Body: "boom"}
	require.Equal(t, "transport: unexpected status code: 500: boom", status.Error())
}
