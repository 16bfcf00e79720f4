package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// Region is the coarse collateral location bucket used by the LTV table.
type Region string

const (
	RegionSeoul        Region = "seoul"
	RegionOutsideSeoul Region = "outside_seoul"
)

// PropertyType is the collateral kind.
type PropertyType string

const (
	PropertyApartment      PropertyType = "apartment"
	PropertyMultiUnit      PropertyType = "multi_unit"
	PropertySingleDetached PropertyType = "single_detached"
	PropertyLand           PropertyType = "land"
)

// LoanSubtype is the closed set of loan products the navigator knows about.
// Raw labels (including the Korean form labels the site uses) are resolved
// to a variant once, at input normalization, never by substring search later.
type LoanSubtype string

const (
	SubtypeGeneral         LoanSubtype = "general"
	SubtypeDepositReturn   LoanSubtype = "deposit_return"
	SubtypeShareLoan       LoanSubtype = "share_loan"
	SubtypeAuctionPayoff   LoanSubtype = "auction_payoff"
	SubtypeRefinance       LoanSubtype = "refinance"
	SubtypePurchaseBalance LoanSubtype = "purchase_balance"
	SubtypePresaleBalance  LoanSubtype = "presale_balance"
)

// Occupancy describes who occupies (or will occupy) the collateral.
type Occupancy string

const (
	OccupancySelf          Occupancy = "self"
	OccupancyRental        Occupancy = "rental"
	OccupancySelfPending   Occupancy = "self_pending"
	OccupancyRentalPending Occupancy = "rental_pending"
	OccupancyPriorTenant   Occupancy = "prior_tenant"
)

// CategoryRealEstate is the canonical token for the real-estate-secured
// loan category; it is the only category with per-region eligibility cells.
const CategoryRealEstate = "real_estate"

/********** label -> enum registries **********/

var regionLabels = map[string]Region{
	"seoul":        RegionSeoul,
	"서울":           RegionSeoul,
	"서울특별시":        RegionSeoul,
	"outsideseoul": RegionOutsideSeoul,
	"nonseoul":     RegionOutsideSeoul,
	"수도권외":         RegionOutsideSeoul,
	"지방":           RegionOutsideSeoul,
	"기타지역":         RegionOutsideSeoul,
}

var propertyLabels = map[string]PropertyType{
	"apartment":      PropertyApartment,
	"apt":            PropertyApartment,
	"아파트":            PropertyApartment,
	"multiunit":      PropertyMultiUnit,
	"다세대":            PropertyMultiUnit,
	"다세대주택":          PropertyMultiUnit,
	"빌라":             PropertyMultiUnit,
	"singledetached": PropertySingleDetached,
	"단독":             PropertySingleDetached,
	"단독주택":           PropertySingleDetached,
	"land":           PropertyLand,
	"토지":             PropertyLand,
	"대지":             PropertyLand,
}

var subtypeLabels = map[string]LoanSubtype{
	"general":         SubtypeGeneral,
	"일반":              SubtypeGeneral,
	"일반담보대출":          SubtypeGeneral,
	"depositreturn":   SubtypeDepositReturn,
	"전세금반환":           SubtypeDepositReturn,
	"전세반환":            SubtypeDepositReturn,
	"shareloan":       SubtypeShareLoan,
	"지분":              SubtypeShareLoan,
	"지분대출":            SubtypeShareLoan,
	"auctionpayoff":   SubtypeAuctionPayoff,
	"경락잔금":            SubtypeAuctionPayoff,
	"경락잔금대출":          SubtypeAuctionPayoff,
	"refinance":       SubtypeRefinance,
	"대환":              SubtypeRefinance,
	"대환대출":            SubtypeRefinance,
	"purchasebalance": SubtypePurchaseBalance,
	"매매잔금":            SubtypePurchaseBalance,
	"presalebalance":  SubtypePresaleBalance,
	"분양잔금":            SubtypePresaleBalance,
}

var occupancyLabels = map[string]Occupancy{
	"self":                   OccupancySelf,
	"자가":                     OccupancySelf,
	"rental":                 OccupancyRental,
	"임대":                     OccupancyRental,
	"selfpending":            OccupancySelfPending,
	"자가예정":                   OccupancySelfPending,
	"rentalpending":          OccupancyRentalPending,
	"임대예정":                   OccupancyRentalPending,
	"priortenant":            OccupancyPriorTenant,
	"priortenantassumption":  OccupancyPriorTenant,
	"선순위임차인승계":               OccupancyPriorTenant,
	"전소유자임차":                 OccupancyPriorTenant,
}

var categoryLabels = map[string]string{
	"realestate": CategoryRealEstate,
	"부동산":        CategoryRealEstate,
	"부동산담보":      CategoryRealEstate,
	"부동산담보대출":    CategoryRealEstate,
}

/********** parsers **********/

// NormalizeToken lower-cases and drops everything that is not a letter or
// digit, so "Deposit-Return", "deposit_return" and " 전세금 반환 " compare equal.
func NormalizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

func ParseRegion(raw string) (Region, bool) {
	r, ok := regionLabels[NormalizeToken(raw)]
	return r, ok
}

func ParsePropertyType(raw string) (PropertyType, bool) {
	p, ok := propertyLabels[NormalizeToken(raw)]
	return p, ok
}

func ParseLoanSubtype(raw string) (LoanSubtype, bool) {
	s, ok := subtypeLabels[NormalizeToken(raw)]
	return s, ok
}

func ParseOccupancy(raw string) (Occupancy, bool) {
	o, ok := occupancyLabels[NormalizeToken(raw)]
	return o, ok
}

// ParseCategory maps a raw category label to its canonical token; labels we
// don't recognize keep their normalized form so set intersection still works.
func ParseCategory(raw string) string {
	tok := NormalizeToken(raw)
	if canon, ok := categoryLabels[tok]; ok {
		return canon
	}
	return tok
}

// ParseAmount reads a currency amount from a raw form value, keeping digits
// only ("500,000,000원" -> 500000000). Empty or unparsable input is 0: partial
// input is a normal intermediate state, not a fault.
func ParseAmount(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParsePercent reads an ownership-share percentage and clamps it to [1,100].
// Absent input means full ownership (100).
func ParsePercent(raw string) int {
	n := ParseAmount(raw)
	switch {
	case n <= 0:
		return 100
	case n > 100:
		return 100
	default:
		return int(n)
	}
}
