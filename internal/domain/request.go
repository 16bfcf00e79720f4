package domain

// LoanRequest is the simple calculator's input. Amounts are whole currency
// units, already digits-only parsed at the boundary. ShareMode is set when
// the user explicitly chose partial-ownership input; SharePercent is only
// meaningful then (100 = the "full ownership" sentinel).
type LoanRequest struct {
	Region       Region
	PropertyType PropertyType
	MarketValue  int64
	SeniorLoan   int64
	Deduction    int64
	Requested    int64
	ShareMode    bool
	SharePercent int
}

type LtvMode string

const (
	ModeNormal LtvMode = "normal"
	ModeShare  LtvMode = "share"
)

type LtvStatus string

const (
	StatusPossible  LtvStatus = "possible"
	StatusExceeded  LtvStatus = "exceeded"
	StatusNoRequest LtvStatus = "no_request"
)

// LtvResult is the calculator verdict. Derived values carry no intermediate
// rounding; currency-string formatting is the presentation layer's problem.
type LtvResult struct {
	Mode          LtvMode   `json:"mode"`
	Ratio         float64   `json:"ratio"`
	LimitBase     float64   `json:"limit_base"`
	Limit         float64   `json:"limit"`
	MaxRequested  float64   `json:"max_requested"`
	UsedDeduction int64     `json:"used_deduction"`
	Status        LtvStatus `json:"status"`
}

// Qualifiers are the borrower attributes picked in the final navigator step.
// All tokens are normalized at the boundary.
type Qualifiers struct {
	IncomeType string
	CreditBand string
	RepayPlan  string
	NeedTiming string
	Others     []string
}

// Tokens returns the non-empty qualifier tokens in a stable order.
func (q Qualifiers) Tokens() []string {
	out := make([]string, 0, 4+len(q.Others))
	for _, t := range []string{q.IncomeType, q.CreditBand, q.RepayPlan, q.NeedTiming} {
		if t != "" {
			out = append(out, t)
		}
	}
	for _, t := range q.Others {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Empty reports whether the user has picked no qualifier at all.
func (q Qualifiers) Empty() bool { return len(q.Tokens()) == 0 }

// NavigatorRequest is the multi-step wizard's input, keyed by the same field
// codes the schema engine uses (PV, SP, SL, DEP, REF, REQ, ASB). Constructed
// fresh from user input on every recalculation; never persisted.
type NavigatorRequest struct {
	MainCategory string
	Region       Region
	PropertyType PropertyType
	Subtype      LoanSubtype
	Occupancy    Occupancy

	MarketValue     int64 // PV
	SharePercent    int   // SP, [1,100]; 100 = full ownership
	SeniorLoan      int64 // SL
	Deposit         int64 // DEP
	RefinanceAmount int64 // REF
	Requested       int64 // REQ
	AssumedBurden   int64 // ASB

	Qualifiers Qualifiers
}

// EffectiveShare returns the ownership share with the full-ownership default.
func (r NavigatorRequest) EffectiveShare() int {
	if r.SharePercent < 1 || r.SharePercent > 100 {
		return 100
	}
	return r.SharePercent
}
