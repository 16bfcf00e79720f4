// Package schema drives step-5 field visibility and requirement: each
// supported (propertyType, loanSubtype) pair has an ordered field list, and
// a field's requirement may depend on the chosen occupancy. The dependency
// is a structured predicate, not note text.
package schema

import (
	"fmt"

	"huchu/internal/domain"
)

// FieldCode identifies one monetary or selection field of the wizard.
type FieldCode string

const (
	FieldOccupancy     FieldCode = "OCC"
	FieldValuation     FieldCode = "PV"
	FieldSharePercent  FieldCode = "SP"
	FieldSeniorLoan    FieldCode = "SL"
	FieldDeposit       FieldCode = "DEP"
	FieldRefinance     FieldCode = "REF"
	FieldRequested     FieldCode = "REQ"
	FieldAssumedBurden FieldCode = "ASB"
)

// Condition gates a field's requirement on the occupancy selection.
type Condition struct {
	DependsOn   FieldCode          `json:"depends_on"`
	Occupancies []domain.Occupancy `json:"occupancies"`
}

func (c *Condition) satisfied(occ domain.Occupancy) bool {
	if c == nil {
		return true
	}
	for _, o := range c.Occupancies {
		if o == occ {
			return true
		}
	}
	return false
}

// FieldSpec is one schema entry. Required fields with a Condition are only
// demanded when the condition holds for the current occupancy.
type FieldSpec struct {
	Code     FieldCode  `json:"code"`
	Required bool       `json:"required"`
	Label    string     `json:"label"`
	Cond     *Condition `json:"cond,omitempty"`
}

// Schema is the ordered field list for one (propertyType, subtype) pair.
type Schema struct {
	Property domain.PropertyType `json:"property"`
	Subtype  domain.LoanSubtype  `json:"subtype"`
	Fields   []FieldSpec         `json:"fields"`
}

var labels = map[FieldCode]string{
	FieldOccupancy:     "Occupancy status",
	FieldValuation:     "Appraised value",
	FieldSharePercent:  "Ownership share (%)",
	FieldSeniorLoan:    "Senior loans and deposits",
	FieldDeposit:       "Tenant deposit",
	FieldRefinance:     "Amount being refinanced",
	FieldRequested:     "Requested amount",
	FieldAssumedBurden: "Assumed burden",
}

func req(code FieldCode) FieldSpec {
	return FieldSpec{Code: code, Required: true, Label: labels[code]}
}

func opt(code FieldCode) FieldSpec {
	return FieldSpec{Code: code, Label: labels[code]}
}

// depOnRental: the deposit only becomes mandatory when the collateral is (or
// will be) tenant-occupied.
func depOnRental() FieldSpec {
	return FieldSpec{
		Code: FieldDeposit, Required: true, Label: labels[FieldDeposit],
		Cond: &Condition{
			DependsOn:   FieldOccupancy,
			Occupancies: []domain.Occupancy{domain.OccupancyRental, domain.OccupancyRentalPending},
		},
	}
}

// asbOnPriorTenant: the assumed burden only matters when a prior tenant's
// claim is being inherited in an auction deal.
func asbOnPriorTenant() FieldSpec {
	return FieldSpec{
		Code: FieldAssumedBurden, Required: true, Label: labels[FieldAssumedBurden],
		Cond: &Condition{
			DependsOn:   FieldOccupancy,
			Occupancies: []domain.Occupancy{domain.OccupancyPriorTenant},
		},
	}
}

func buildingSchemas() map[domain.LoanSubtype][]FieldSpec {
	return map[domain.LoanSubtype][]FieldSpec{
		domain.SubtypeGeneral: {
			req(FieldOccupancy), req(FieldValuation), opt(FieldSharePercent),
			opt(FieldSeniorLoan), depOnRental(), req(FieldRequested),
		},
		domain.SubtypeDepositReturn: {
			req(FieldOccupancy), req(FieldValuation), opt(FieldSeniorLoan),
			req(FieldDeposit), req(FieldRequested),
		},
		domain.SubtypeShareLoan: {
			req(FieldOccupancy), req(FieldValuation), req(FieldSharePercent),
			opt(FieldSeniorLoan), depOnRental(), req(FieldRequested),
		},
		domain.SubtypeAuctionPayoff: {
			req(FieldOccupancy), req(FieldValuation), opt(FieldSeniorLoan),
			depOnRental(), asbOnPriorTenant(), req(FieldRequested),
		},
		domain.SubtypeRefinance: {
			req(FieldOccupancy), req(FieldValuation), req(FieldSeniorLoan),
			depOnRental(), req(FieldRefinance), req(FieldRequested),
		},
		domain.SubtypePurchaseBalance: {
			req(FieldOccupancy), req(FieldValuation), opt(FieldSeniorLoan),
			depOnRental(), req(FieldRequested),
		},
		domain.SubtypePresaleBalance: {
			req(FieldOccupancy), req(FieldValuation), opt(FieldSeniorLoan),
			depOnRental(), req(FieldRequested),
		},
	}
}

// schemas is the navigator's support matrix. Land has no occupancy concept
// and only funds general and refinance deals.
var schemas = func() map[domain.PropertyType]map[domain.LoanSubtype][]FieldSpec {
	m := map[domain.PropertyType]map[domain.LoanSubtype][]FieldSpec{
		domain.PropertyApartment:      buildingSchemas(),
		domain.PropertyMultiUnit:      buildingSchemas(),
		domain.PropertySingleDetached: buildingSchemas(),
		domain.PropertyLand: {
			domain.SubtypeGeneral: {
				req(FieldValuation), opt(FieldSharePercent), opt(FieldSeniorLoan), req(FieldRequested),
			},
			domain.SubtypeRefinance: {
				req(FieldValuation), req(FieldSeniorLoan), req(FieldRefinance), req(FieldRequested),
			},
		},
	}
	return m
}()

// Lookup resolves the field schema for a selection; unsupported pairs get
// domain.ErrSchemaNotFound (the navigator shows "not computable yet").
func Lookup(property domain.PropertyType, subtype domain.LoanSubtype) (Schema, error) {
	fields, ok := schemas[property][subtype]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s/%s", domain.ErrSchemaNotFound, property, subtype)
	}
	return Schema{Property: property, Subtype: subtype, Fields: fields}, nil
}

// Visible reports whether the field appears in this schema at all.
func (s Schema) Visible(code FieldCode) bool {
	for _, f := range s.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// RequiredNow reports whether a field is demanded given the occupancy.
func (s Schema) RequiredNow(code FieldCode, occ domain.Occupancy) bool {
	for _, f := range s.Fields {
		if f.Code == code {
			return f.Required && f.Cond.satisfied(occ)
		}
	}
	return false
}

// Complete checks every currently-required field against the request and
// returns the codes still missing. Percent fields default to 100 and are
// always satisfied.
func (s Schema) Complete(r domain.NavigatorRequest) (bool, []FieldCode) {
	var missing []FieldCode
	for _, f := range s.Fields {
		if !f.Required || !f.Cond.satisfied(r.Occupancy) {
			continue
		}
		if !fieldPresent(f.Code, r) {
			missing = append(missing, f.Code)
		}
	}
	return len(missing) == 0, missing
}

func fieldPresent(code FieldCode, r domain.NavigatorRequest) bool {
	switch code {
	case FieldOccupancy:
		return r.Occupancy != ""
	case FieldValuation:
		return r.MarketValue > 0
	case FieldSharePercent:
		return true // defaults to full ownership
	case FieldSeniorLoan:
		return r.SeniorLoan > 0
	case FieldDeposit:
		return r.Deposit > 0
	case FieldRefinance:
		return r.RefinanceAmount > 0
	case FieldRequested:
		return r.Requested > 0
	case FieldAssumedBurden:
		return r.AssumedBurden > 0
	default:
		return false
	}
}
