// Package calc implements the consumer LTV eligibility calculator: a pure
// mapping from one loan request to a verdict and a maximum fundable amount.
package calc

import (
	"fmt"

	"huchu/internal/domain"
)

// ltvLimits is the published region × property-type ceiling table. Seoul
// collateral funds at higher ratios than the rest of the country; land is
// the weakest collateral in both buckets.
var ltvLimits = map[domain.Region]map[domain.PropertyType]float64{
	domain.RegionSeoul: {
		domain.PropertyApartment:      0.73,
		domain.PropertyMultiUnit:      0.70,
		domain.PropertySingleDetached: 0.68,
		domain.PropertyLand:           0.60,
	},
	domain.RegionOutsideSeoul: {
		domain.PropertyApartment:      0.70,
		domain.PropertyMultiUnit:      0.65,
		domain.PropertySingleDetached: 0.63,
		domain.PropertyLand:           0.55,
	},
}

// Ratio resolves the LTV ceiling for a region/property pair.
func Ratio(region domain.Region, property domain.PropertyType) (float64, bool) {
	r, ok := ltvLimits[region][property]
	return r, ok
}

// Compute maps a loan request to its eligibility verdict.
//
// In share mode the limit base is the ownership stake's share of the
// appraised value and the deduction is ignored; that asymmetry is the
// documented production behavior, kept as is.
func Compute(req domain.LoanRequest) (domain.LtvResult, error) {
	ratio, ok := Ratio(req.Region, req.PropertyType)
	if !ok {
		return domain.LtvResult{}, fmt.Errorf("%w: %s/%s",
			domain.ErrInvalidSelection, req.Region, req.PropertyType)
	}

	if req.ShareMode && req.SharePercent >= 1 && req.SharePercent <= 100 {
		return computeShare(req, ratio), nil
	}
	return computeNormal(req, ratio), nil
}

func computeShare(req domain.LoanRequest, ratio float64) domain.LtvResult {
	base := float64(req.MarketValue) * float64(req.SharePercent) / 100
	limit := base * ratio
	maxReq := limit - float64(req.SeniorLoan)
	if maxReq < 0 {
		maxReq = 0
	}

	status := domain.StatusPossible
	switch {
	case req.Requested <= 0:
		status = domain.StatusNoRequest
	case float64(req.SeniorLoan) > limit:
		status = domain.StatusExceeded
	case float64(req.Requested) > maxReq:
		status = domain.StatusExceeded
	}

	return domain.LtvResult{
		Mode:          domain.ModeShare,
		Ratio:         ratio,
		LimitBase:     base,
		Limit:         limit,
		MaxRequested:  maxReq,
		UsedDeduction: 0,
		Status:        status,
	}
}

func computeNormal(req domain.LoanRequest, ratio float64) domain.LtvResult {
	d := clampDeduction(req.Deduction, req.SeniorLoan, req.Requested)
	base := float64(req.MarketValue)
	limit := base * ratio
	maxReq := limit - float64(req.SeniorLoan) + float64(d)
	if maxReq < 0 {
		maxReq = 0
	}

	status := domain.StatusPossible
	switch {
	case req.Requested <= 0:
		status = domain.StatusNoRequest
	case float64(req.Requested) > maxReq:
		status = domain.StatusExceeded
	}

	return domain.LtvResult{
		Mode:          domain.ModeNormal,
		Ratio:         ratio,
		LimitBase:     base,
		Limit:         limit,
		MaxRequested:  maxReq,
		UsedDeduction: d,
		Status:        status,
	}
}

// clampDeduction enforces 0 ≤ d ≤ min(seniorLoan, requested).
func clampDeduction(d, senior, requested int64) int64 {
	hi := senior
	if requested < hi {
		hi = requested
	}
	switch {
	case d < 0:
		return 0
	case d > hi:
		return hi
	default:
		return d
	}
}
