package nflfeed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pable/go-qb-metrics/internal/model"
	"github.com/pable/go-qb-metrics/internal/storage"
)

// StoredSource serves plays from the local store when the season has been
// fetched before, and downloads-then-stores it otherwise. The store holds
// raw feed output only, so the trade-off is disk for one download per season
// per machine.
type StoredSource struct {
	Client *Client
	Store  *storage.DB
	Log    *slog.Logger
}

// SeasonPlays implements pipeline.PlaySource.
func (s *StoredSource) SeasonPlays(ctx context.Context, season int) ([]model.Play, error) {
	has, err := s.Store.HasSeason(season)
	if err != nil {
		return nil, fmt.Errorf("check stored season %d: %w", season, err)
	}
	if has {
		return s.Store.SeasonPlays(season)
	}

	if s.Log != nil {
		s.Log.Info("season not stored, downloading from feed", "season", season)
	}
	plays, err := s.Client.SeasonPlays(ctx, season)
	if err != nil {
		return nil, err
	}
	if err := s.Store.InsertSeason(season, plays); err != nil {
		// Storage failure should not lose the download.
		if s.Log != nil {
			s.Log.Warn("store season failed, continuing uncached", "season", season, "error", err)
		}
	}
	return plays, nil
}
