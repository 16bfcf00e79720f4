package match

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"huchu/internal/domain"
)

// ltvEpsilon absorbs float noise when comparing ltv×100 against a cap.
const ltvEpsilon = 1e-6

// FilterLenders returns the lenders able to fund the request, in display
// order. Checks short-circuit in a fixed sequence: active -> category ->
// region/property cell (subtype support, minimum amount, LTV cap) -> optional
// borrower qualifiers. The input slice is never mutated.
//
// Qualifier matching is deliberately strict: once the user has picked any
// qualifier, a lender with an empty condition whitelist is out. That is
// asymmetric with the minimum-amount rule (unregistered minimum filters
// nothing) and is kept as the product behaves.
func FilterLenders(lenders []domain.LenderRecord, req domain.NavigatorRequest, applyExtraConditions bool) []domain.LenderRecord {
	out := make([]domain.LenderRecord, 0, len(lenders))
	for _, l := range lenders {
		if eligible(l, req, applyExtraConditions) {
			out = append(out, l)
		}
	}
	sortLenders(out)
	return out
}

func eligible(l domain.LenderRecord, req domain.NavigatorRequest, applyExtra bool) bool {
	if !l.Active {
		return false
	}

	if req.MainCategory != "" && len(l.Categories) > 0 && !l.HasCategory(req.MainCategory) {
		return false
	}

	// Region/property eligibility only applies to real-estate-secured deals.
	if req.MainCategory == "" || req.MainCategory == domain.CategoryRealEstate {
		cell, ok := l.Cell(req.Region, req.PropertyType)
		if !ok || !cell.Enabled {
			return false
		}
		if len(cell.LoanTypes) > 0 && !slices.Contains(cell.LoanTypes, req.Subtype) {
			return false
		}
		if cell.MinLoan > 0 && PrincipalAmount(req) < cell.MinLoan {
			return false
		}
		if cell.LTVMaxPercent != nil {
			res := ResolveLTV(req)
			if !res.Computable {
				return false
			}
			if res.LTV*100 > *cell.LTVMaxPercent+ltvEpsilon {
				return false
			}
		}
	}

	if applyExtra {
		if !qualifiersAccepted(l, req.Qualifiers) {
			return false
		}
	}
	return true
}

func qualifiersAccepted(l domain.LenderRecord, q domain.Qualifiers) bool {
	tokens := q.Tokens()
	if len(tokens) == 0 {
		return true
	}
	if len(l.ExtraConditions) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !l.HasCondition(tok) {
			return false
		}
	}
	return !blockedByNegativeFlags(l.Negative, q.Others)
}

// negativeTokens ties the "other" qualifier tags to the lender's hard stops.
var negativeTokens = map[string]func(domain.NegativeFlags) bool{
	"taxarrears":  func(n domain.NegativeFlags) bool { return n.TaxArrears },
	"delinquency": func(n domain.NegativeFlags) bool { return n.Delinquency },
	"seizure":     func(n domain.NegativeFlags) bool { return n.Seizure },
	"bankruptcy":  func(n domain.NegativeFlags) bool { return n.Bankruptcy },
}

func blockedByNegativeFlags(flags domain.NegativeFlags, others []string) bool {
	for _, tag := range others {
		if hit, ok := negativeTokens[domain.NormalizeToken(tag)]; ok && hit(flags) {
			return true
		}
	}
	return false
}

// sortLenders orders a candidate list for display: partners first, then
// ascending display order (unset sorts last), then collated name. The sort
// is stable so equal lenders keep snapshot order.
func sortLenders(ls []domain.LenderRecord) {
	col := collate.New(language.Korean)
	sort.SliceStable(ls, func(i, j int) bool {
		a, b := ls[i], ls[j]
		if a.Partner != b.Partner {
			return a.Partner
		}
		ao, bo := orderKey(a), orderKey(b)
		if ao != bo {
			return ao < bo
		}
		return col.CompareString(a.DisplayName, b.DisplayName) < 0
	})
}

func orderKey(l domain.LenderRecord) int {
	if l.DisplayOrder == nil {
		return int(^uint(0) >> 1) // missing sorts after every registered order
	}
	return *l.DisplayOrder
}
