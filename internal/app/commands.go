package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"huchu/internal/domain"
)

// SyncService pulls the lender configuration dataset from the upstream
// config store and reconciles it into storage. A refresh invalidates the
// navigator snapshot so the next session sees the new dataset.
type SyncService struct {
	client domain.ConfigClient
	repo   domain.LenderRepository
	cache  domain.Cache
}

func NewSyncService(c domain.ConfigClient, r domain.LenderRepository, cache domain.Cache) *SyncService {
	return &SyncService{client: c, repo: r, cache: cache}
}

// FetchRecords pulls the raw dataset and normalizes it into canonical
// records. Upstream 404/401/403 are recorded as misses and return an empty
// batch; anything else (network, 5xx, decode) bubbles up.
func (s *SyncService) FetchRecords(ctx context.Context, source string) ([]domain.LenderRecord, error) {
	raw, err := s.client.FetchDataset(ctx)
	if err != nil {
		low := strings.ToLower(err.Error())

		if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
			_ = s.repo.LogMiss(ctx, source, 404, "not found")
			s.InvalidateSnapshot(ctx)
			return nil, nil
		}
		if strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
			strings.Contains(low, "401") || strings.Contains(low, "unauthorized") {
			_ = s.repo.LogMiss(ctx, source, 403, "unauthorized")
			s.InvalidateSnapshot(ctx)
			return nil, nil
		}
		return nil, err
	}

	entries := NormalizeDataset(raw)
	if len(entries) == 0 {
		_ = s.repo.LogMiss(ctx, source, 200, "empty dataset")
		return nil, nil
	}

	records := make([]domain.LenderRecord, 0, len(entries))
	for _, e := range entries {
		rec := MapLender(e)
		if rec.ID == "" {
			_ = s.repo.LogMiss(ctx, source, 200, "record without id")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ApplyRecord upserts one canonical lender record.
func (s *SyncService) ApplyRecord(ctx context.Context, rec domain.LenderRecord) error {
	if err := s.repo.UpsertLender(ctx, rec); err != nil {
		return fmt.Errorf("upsert lender %q failed: %w", rec.ID, err)
	}
	return nil
}

// InvalidateSnapshot drops the cached navigator snapshot after a batch so
// subsequent sessions reload from storage.
func (s *SyncService) InvalidateSnapshot(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, snapshotKey)
	}
}
