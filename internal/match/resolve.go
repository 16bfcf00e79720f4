// Package match implements the lender-matching engine: LTV resolution with
// subtype-specific debt aggregation, eligibility filtering against the lender
// snapshot, and fee-range aggregation.
package match

import "huchu/internal/domain"

// Resolution is the LTV summary for a navigator request. Computable is false
// when the base value is zero (valuation not entered yet), in which case LTV
// carries no meaning.
type Resolution struct {
	LTV            float64 `json:"ltv"`
	Computable     bool    `json:"computable"`
	TotalDebtAfter float64 `json:"total_debt_after"`
	BaseValue      float64 `json:"base_value"`
}

// ResolveLTV aggregates post-loan debt per loan subtype and divides by the
// share-scaled collateral value.
func ResolveLTV(req domain.NavigatorRequest) Resolution {
	senior := float64(req.SeniorLoan)
	deposit := float64(req.Deposit)
	requested := float64(req.Requested)

	var debt float64
	switch req.Subtype {
	case domain.SubtypeAuctionPayoff:
		debt = senior + requested + float64(req.AssumedBurden) + deposit
	case domain.SubtypeRefinance:
		remaining := senior + deposit - float64(req.RefinanceAmount)
		if remaining < 0 {
			remaining = 0
		}
		debt = remaining + requested
	case domain.SubtypePurchaseBalance, domain.SubtypePresaleBalance:
		debt = senior + requested + deposit
	default:
		// General, DepositReturn, ShareLoan: for a deposit-return loan the
		// deposit field is the amount being handed back.
		debt = senior + deposit + requested
	}

	base := float64(req.MarketValue) * float64(req.EffectiveShare()) / 100
	res := Resolution{TotalDebtAfter: debt, BaseValue: base}
	if base > 0 {
		res.LTV = debt / base
		res.Computable = true
	}
	return res
}

// PrincipalAmount is the figure checked against a lender's minimum loan-size
// rule. A deposit-return loan counts the returned deposit as part of the deal.
func PrincipalAmount(req domain.NavigatorRequest) int64 {
	if req.Subtype == domain.SubtypeDepositReturn {
		return req.Deposit + req.Requested
	}
	return req.Requested
}
