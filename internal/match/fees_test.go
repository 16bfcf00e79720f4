package match_test

import (
	"testing"

	"huchu/internal/domain"
	"huchu/internal/match"
)

func finLender(id string, fi domain.FinancialInputs) domain.LenderRecord {
	return domain.LenderRecord{
		ID:        id,
		Financial: map[string]domain.FinancialInputs{domain.CategoryRealEstate: fi},
	}
}

func TestCalcFeeRanges(t *testing.T) {
	lenders := []domain.LenderRecord{
		finLender("a", domain.FinancialInputs{
			InterestAvg:    "6.5~9.2%",
			PlatformFeeAvg: "2.0",
			PrepayFeeAvg:   "1.5%",
		}),
		finLender("b", domain.FinancialInputs{
			InterestAvg:    "연 8,4",
			PlatformFeeAvg: "면제", // unparsable, skipped
			PrepayFeeAvg:   "0.5",
		}),
		{ID: "no-category"}, // missing the category entirely, skipped
		finLender("other-cat", domain.FinancialInputs{InterestAvg: "99"}),
	}
	// the fourth lender registered under a different category
	lenders[3].Financial = map[string]domain.FinancialInputs{"credit": {InterestAvg: "99"}}

	got := match.CalcFeeRanges(lenders, domain.CategoryRealEstate)

	if !got.Interest.Known || got.Interest.Min != 6.5 || got.Interest.Max != 8.4 {
		t.Errorf("interest = %+v, want 6.5..8.4", got.Interest)
	}
	if !got.PlatformFee.Known || got.PlatformFee.Min != 2.0 || got.PlatformFee.Max != 2.0 {
		t.Errorf("platformFee = %+v, want 2.0..2.0", got.PlatformFee)
	}
	if !got.PrepayFee.Known || got.PrepayFee.Min != 0.5 || got.PrepayFee.Max != 1.5 {
		t.Errorf("prepayFee = %+v, want 0.5..1.5", got.PrepayFee)
	}
}

func TestCalcFeeRanges_NothingParsable(t *testing.T) {
	got := match.CalcFeeRanges([]domain.LenderRecord{
		finLender("a", domain.FinancialInputs{InterestAvg: "협의"}),
	}, domain.CategoryRealEstate)
	if got.Interest.Known || got.PlatformFee.Known || got.PrepayFee.Known {
		t.Fatalf("expected no known ranges, got %+v", got)
	}
}
