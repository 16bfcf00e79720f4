package app

import (
	"context"
	"errors"
	"time"

	"huchu/internal/domain"
	"huchu/internal/match"
	"huchu/internal/schema"
)

const snapshotKey = "lenders:snapshot"

// NavigatorService answers navigator computations against an immutable
// lender snapshot. The snapshot is cache-aside: one Redis round-trip per
// recomputation at most, otherwise storage.
type NavigatorService struct {
	repo     domain.LenderRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewNavigatorService(r domain.LenderRepository, c domain.Cache, ttl time.Duration) *NavigatorService {
	return &NavigatorService{repo: r, cache: c, cacheTTL: ttl}
}

// Snapshot loads the full lender dataset for one navigation session.
func (s *NavigatorService) Snapshot(ctx context.Context) ([]domain.LenderRecord, error) {
	var cached []domain.LenderRecord
	if ok, _ := s.cache.Get(ctx, snapshotKey, &cached); ok {
		return cached, nil
	}
	lenders, err := s.repo.ListLenders(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, snapshotKey, lenders, int(s.cacheTTL.Seconds()))
	return lenders, nil
}

// MatchResult is everything one recomputation produces. SchemaKnown is false
// when the (property, subtype) pair is unsupported; the candidate list is
// empty then rather than an error. An incomplete request still yields a
// best-effort count with Complete set to false.
type MatchResult struct {
	SchemaKnown bool
	Complete    bool
	Missing     []schema.FieldCode
	LTV         match.Resolution
	Lenders     []domain.LenderRecord
	Fees        match.FeeRanges
}

// Match runs one full navigator recomputation: schema check, LTV
// resolution, candidate filtering, fee aggregation. applyExtraConditions
// switches on the strict borrower-qualifier whitelist of the final step.
func (s *NavigatorService) Match(ctx context.Context, req domain.NavigatorRequest, applyExtraConditions bool) (MatchResult, error) {
	sc, err := schema.Lookup(req.PropertyType, req.Subtype)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotFound) {
			return MatchResult{}, nil
		}
		return MatchResult{}, err
	}

	lenders, err := s.Snapshot(ctx)
	if err != nil {
		return MatchResult{}, err
	}

	complete, missing := sc.Complete(req)
	filtered := match.FilterLenders(lenders, req, applyExtraConditions)

	category := req.MainCategory
	if category == "" {
		category = domain.CategoryRealEstate
	}

	return MatchResult{
		SchemaKnown: true,
		Complete:    complete,
		Missing:     missing,
		LTV:         match.ResolveLTV(req),
		Lenders:     filtered,
		Fees:        match.CalcFeeRanges(filtered, category),
	}, nil
}
