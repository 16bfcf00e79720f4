package domain

// EligibilityCell is one lender's rule for a (region, propertyType) pair.
// MinLoan is already unit-inferred at the boundary (plain currency units,
// 0 = unregistered, meaning no minimum is enforced).
type EligibilityCell struct {
	Enabled       bool          `json:"enabled"`
	LoanTypes     []LoanSubtype `json:"loan_types,omitempty"`
	LTVMaxPercent *float64      `json:"ltv_max_percent,omitempty"`
	MinLoan       int64         `json:"min_loan,omitempty"`
}

// FinancialInputs carries a lender's advertised averages per loan category.
// Values stay as the admin entered them ("6.5~9.2%", "연 7.2"); fee-range
// aggregation parses them loosely.
type FinancialInputs struct {
	InterestAvg    string `json:"interest_avg,omitempty"`
	PlatformFeeAvg string `json:"platform_fee_avg,omitempty"`
	PrepayFeeAvg   string `json:"prepay_fee_avg,omitempty"`
}

// NegativeFlags marks borrower conditions a lender will not take on.
type NegativeFlags struct {
	TaxArrears  bool `json:"tax_arrears,omitempty"`
	Delinquency bool `json:"delinquency,omitempty"`
	Seizure     bool `json:"seizure,omitempty"`
	Bankruptcy  bool `json:"bankruptcy,omitempty"`
}

// Channels is how a borrower reaches the lender once matched.
type Channels struct {
	Phone        string `json:"phone,omitempty"`
	MessagingURL string `json:"messaging_url,omitempty"`
}

// LenderRecord is the canonical in-memory shape of one lending institution.
// Instances are read-only snapshots loaded once per navigation session; the
// boundary adapter is the only place that knows about historical wire shapes.
// Category and condition tokens are normalized before they get here.
type LenderRecord struct {
	ID              string
	DisplayName     string
	Active          bool
	Partner         bool
	Categories      []string
	Regions         map[Region]map[PropertyType]EligibilityCell
	ExtraConditions []string
	Negative        NegativeFlags
	Financial       map[string]FinancialInputs
	DisplayOrder    *int
	Channels        Channels
}

// Cell returns the eligibility cell for a region/property pair.
func (l LenderRecord) Cell(region Region, property PropertyType) (EligibilityCell, bool) {
	row, ok := l.Regions[region]
	if !ok {
		return EligibilityCell{}, false
	}
	cell, ok := row[property]
	return cell, ok
}

// HasCategory reports whether the lender serves the given canonical category.
func (l LenderRecord) HasCategory(category string) bool {
	for _, c := range l.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasCondition reports whether a normalized qualifier token is whitelisted.
func (l LenderRecord) HasCondition(token string) bool {
	for _, c := range l.ExtraConditions {
		if c == token {
			return true
		}
	}
	return false
}
