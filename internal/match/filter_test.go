package match_test

import (
	"reflect"
	"testing"

	"huchu/internal/domain"
	"huchu/internal/match"
)

func pf(v float64) *float64 { return &v }
func pi(v int) *int         { return &v }

func cellmap(cell domain.EligibilityCell) map[domain.Region]map[domain.PropertyType]domain.EligibilityCell {
	return map[domain.Region]map[domain.PropertyType]domain.EligibilityCell{
		domain.RegionSeoul: {domain.PropertyApartment: cell},
	}
}

func seoulAptRequest() domain.NavigatorRequest {
	return domain.NavigatorRequest{
		MainCategory: domain.CategoryRealEstate,
		Region:       domain.RegionSeoul,
		PropertyType: domain.PropertyApartment,
		Subtype:      domain.SubtypeGeneral,
		Occupancy:    domain.OccupancySelf,
		MarketValue:  500_000_000,
		SeniorLoan:   100_000_000,
		Requested:    100_000_000, // ltv 40%
	}
}

func baseLender(id string) domain.LenderRecord {
	return domain.LenderRecord{
		ID:          id,
		DisplayName: id,
		Active:      true,
		Categories:  []string{domain.CategoryRealEstate},
		Regions:     cellmap(domain.EligibilityCell{Enabled: true}),
	}
}

func ids(ls []domain.LenderRecord) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestFilterLenders_Predicates(t *testing.T) {
	req := seoulAptRequest()

	inactive := baseLender("inactive")
	inactive.Active = false

	wrongCategory := baseLender("wrong-category")
	wrongCategory.Categories = []string{"credit"}

	noCell := baseLender("no-cell")
	noCell.Regions = map[domain.Region]map[domain.PropertyType]domain.EligibilityCell{
		domain.RegionOutsideSeoul: {domain.PropertyApartment: {Enabled: true}},
	}

	disabledCell := baseLender("disabled-cell")
	disabledCell.Regions = cellmap(domain.EligibilityCell{Enabled: false})

	wrongSubtype := baseLender("wrong-subtype")
	wrongSubtype.Regions = cellmap(domain.EligibilityCell{
		Enabled:   true,
		LoanTypes: []domain.LoanSubtype{domain.SubtypeRefinance},
	})

	overCap := baseLender("over-cap")
	overCap.Regions = cellmap(domain.EligibilityCell{Enabled: true, LTVMaxPercent: pf(35)})

	atCap := baseLender("at-cap")
	atCap.Regions = cellmap(domain.EligibilityCell{Enabled: true, LTVMaxPercent: pf(40)})

	ok := baseLender("ok")

	// Category set empty on the lender side means no category restriction.
	uncategorized := baseLender("uncategorized")
	uncategorized.Categories = nil

	got := match.FilterLenders([]domain.LenderRecord{
		inactive, wrongCategory, noCell, disabledCell, wrongSubtype, overCap, atCap, ok, uncategorized,
	}, req, false)

	want := []string{"at-cap", "ok", "uncategorized"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("filtered = %v, want %v", ids(got), want)
	}
}

func TestFilterLenders_MinLoanUnitInferred(t *testing.T) {
	// minLoanAmount registered as 1000 means 10,000,000 currency units after
	// unit inference at the boundary; a 5M principal must be excluded.
	l := baseLender("min-10m")
	l.Regions = cellmap(domain.EligibilityCell{Enabled: true, MinLoan: 10_000_000})

	req := seoulAptRequest()
	req.Requested = 5_000_000

	if got := match.FilterLenders([]domain.LenderRecord{l}, req, false); len(got) != 0 {
		t.Fatalf("expected exclusion below minimum, got %v", ids(got))
	}

	req.Requested = 10_000_000
	if got := match.FilterLenders([]domain.LenderRecord{l}, req, false); len(got) != 1 {
		t.Fatalf("expected inclusion at minimum, got %v", ids(got))
	}
}

func TestFilterLenders_CapNeedsComputableLTV(t *testing.T) {
	capped := baseLender("capped")
	capped.Regions = cellmap(domain.EligibilityCell{Enabled: true, LTVMaxPercent: pf(70)})

	req := seoulAptRequest()
	req.MarketValue = 0 // valuation not entered yet

	if got := match.FilterLenders([]domain.LenderRecord{capped}, req, false); len(got) != 0 {
		t.Fatalf("cap check with no base value should exclude, got %v", ids(got))
	}
}

func TestFilterLenders_ExtraConditions(t *testing.T) {
	req := seoulAptRequest()
	req.Qualifiers = domain.Qualifiers{
		IncomeType: "salaried",
		CreditBand: "mid",
	}

	full := baseLender("full")
	full.ExtraConditions = []string{"salaried", "mid", "fast"}

	partial := baseLender("partial")
	partial.ExtraConditions = []string{"salaried"}

	// Strict policy: no registered conditions at all ⇒ excluded once the
	// user picked any qualifier.
	empty := baseLender("empty")

	got := match.FilterLenders([]domain.LenderRecord{full, partial, empty}, req, true)
	if !reflect.DeepEqual(ids(got), []string{"full"}) {
		t.Fatalf("filtered = %v, want [full]", ids(got))
	}

	// Without qualifiers the whitelist is not consulted.
	req.Qualifiers = domain.Qualifiers{}
	got = match.FilterLenders([]domain.LenderRecord{full, partial, empty}, req, true)
	if len(got) != 3 {
		t.Fatalf("no qualifiers picked: want all 3, got %v", ids(got))
	}
}

func TestFilterLenders_NegativeFlagsBlock(t *testing.T) {
	req := seoulAptRequest()
	req.Qualifiers = domain.Qualifiers{Others: []string{"tax_arrears"}}

	blocked := baseLender("blocked")
	blocked.ExtraConditions = []string{"taxarrears"}
	blocked.Negative = domain.NegativeFlags{TaxArrears: true}

	tolerant := baseLender("tolerant")
	tolerant.ExtraConditions = []string{"taxarrears"}

	got := match.FilterLenders([]domain.LenderRecord{blocked, tolerant}, req, true)
	if !reflect.DeepEqual(ids(got), []string{"tolerant"}) {
		t.Fatalf("filtered = %v, want [tolerant]", ids(got))
	}
}

func TestFilterLenders_SortOrder(t *testing.T) {
	partnerLate := baseLender("나중파트너")
	partnerLate.Partner = true
	partnerLate.DisplayOrder = pi(9)

	partnerEarly := baseLender("가나다파트너")
	partnerEarly.Partner = true
	partnerEarly.DisplayOrder = pi(1)

	orderedB := baseLender("비순서")
	orderedB.DisplayOrder = pi(2)

	unorderedKim := baseLender("김씨펀딩")
	unorderedLee := baseLender("이씨펀딩")

	got := match.FilterLenders([]domain.LenderRecord{
		unorderedLee, orderedB, partnerLate, unorderedKim, partnerEarly,
	}, seoulAptRequest(), false)

	want := []string{"가나다파트너", "나중파트너", "비순서", "김씨펀딩", "이씨펀딩"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("order = %v, want %v", ids(got), want)
	}
}

func TestFilterLenders_IdempotentAndSubset(t *testing.T) {
	req := seoulAptRequest()
	req.Qualifiers = domain.Qualifiers{IncomeType: "salaried"}

	a := baseLender("a")
	a.ExtraConditions = []string{"salaried"}
	b := baseLender("b")
	c := baseLender("c")
	c.Active = false
	all := []domain.LenderRecord{a, b, c}

	loose1 := match.FilterLenders(all, req, false)
	loose2 := match.FilterLenders(all, req, false)
	if !reflect.DeepEqual(ids(loose1), ids(loose2)) {
		t.Fatalf("not idempotent: %v vs %v", ids(loose1), ids(loose2))
	}

	strict := match.FilterLenders(all, req, true)
	looseSet := map[string]bool{}
	for _, l := range loose1 {
		looseSet[l.ID] = true
	}
	for _, l := range strict {
		if !looseSet[l.ID] {
			t.Fatalf("strict result %s not in loose result %v", l.ID, ids(loose1))
		}
	}
}
