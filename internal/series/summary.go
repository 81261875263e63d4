package series

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the figures a chart needs to scale a series.
type Summary struct {
	Count       int       `json:"count"`
	First       time.Time `json:"first"`
	Last        time.Time `json:"last"`
	MinClose    float64   `json:"min_close"`
	MaxClose    float64   `json:"max_close"`
	AvgClose    float64   `json:"avg_close"`
	LastClose   float64   `json:"last_close"`
	TotalVolume uint64    `json:"total_volume"`
}

// Summarize computes a Summary over s, which must already be in time order.
// An empty series yields the zero Summary.
func Summarize(s Series) Summary {
	if len(s) == 0 {
		return Summary{}
	}

	sum := Summary{
		Count:     len(s),
		First:     s[0].Timestamp,
		Last:      s[len(s)-1].Timestamp,
		MinClose:  s[0].Close,
		MaxClose:  s[0].Close,
		LastClose: s[len(s)-1].Close,
	}

	// Decimal accumulation keeps the average stable for long series.
	total := decimal.Zero
	for _, e := range s {
		if e.Close < sum.MinClose {
			sum.MinClose = e.Close
		}
		if e.Close > sum.MaxClose {
			sum.MaxClose = e.Close
		}
		total = total.Add(decimal.NewFromFloat(e.Close))
		sum.TotalVolume += e.Volume
	}
	sum.AvgClose = total.Div(decimal.NewFromInt(int64(len(s)))).InexactFloat64()
	return sum
}
