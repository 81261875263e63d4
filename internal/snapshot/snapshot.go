package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockseries/internal/logger"
	"stockseries/internal/provider"
	"stockseries/internal/series"
)

// Snapshot is the normalized result of one fetch.
type Snapshot struct {
	ID        uuid.UUID        `json:"id"`
	Provider  string           `json:"provider"`
	Request   provider.Request `json:"request"`
	FetchedAt time.Time        `json:"fetched_at"`
	Series    series.Series    `json:"series"`
	Summary   series.Summary   `json:"summary"`
	// Skipped counts entries dropped under series.SkipInvalid.
	Skipped int `json:"skipped"`
}

// Service runs the fetch-then-normalize pipeline.
type Service struct {
	provider   provider.Provider
	normalizer *series.Normalizer
	log        *logger.Entry
	now        func() time.Time
}

func New(p provider.Provider, n *series.Normalizer, log *logger.Log) *Service {
	if n == nil {
		n = series.NewNormalizer()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{provider: p, normalizer: n, log: log.WithComponent("snapshot"), now: time.Now}
}

// Take performs exactly one fetch for req and normalizes the result.
// Fetch errors are returned wrapped, keeping the provider error types
// reachable with errors.As; the normalizer is not run after one.
func (s *Service) Take(ctx context.Context, req provider.Request) (*Snapshot, error) {
	id := uuid.New()
	log := s.log.WithFields(logger.Fields{
		"run_id":   id.String(),
		"provider": s.provider.Name(),
		"function": req.Function,
		"symbol":   req.Symbol,
		"interval": req.Interval,
	})

	log.Debug("fetching")
	start := s.now()
	raw, err := s.provider.FetchIntraday(ctx, req)
	if err != nil {
		log.WithError(err).Error("fetch failed")
		return nil, fmt.Errorf("fetch %s: %w", req.Symbol, err)
	}
	log.WithFields(logger.Fields{"entries": len(raw), "elapsed": s.now().Sub(start).String()}).Debug("fetched")

	out, err := s.normalizer.Normalize(raw)
	skipped := 0
	if err != nil {
		if s.normalizer.Policy() == series.FailFast {
			log.WithError(err).Error("normalize failed")
			return nil, fmt.Errorf("normalize %s: %w", req.Symbol, err)
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				log.WithError(e).Warn("skipped entry")
				skipped++
			}
		}
	}

	snap := &Snapshot{
		ID:        id,
		Provider:  s.provider.Name(),
		Request:   req,
		FetchedAt: start.UTC(),
		Series:    out,
		Summary:   series.Summarize(out),
		Skipped:   skipped,
	}
	log.WithFields(logger.Fields{"entries": len(out), "skipped": skipped}).Info("snapshot taken")
	return snap, nil
}
