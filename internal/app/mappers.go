package app

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"huchu/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Two generations of the admin tool wrote lender records with different field
// names; every historical spelling is tolerated here and nowhere else.

var lenderAliases = map[string][]string{
	"id":         {"id", "lender_id", "lenderId", "uid"},
	"name":       {"display_name", "displayName", "name", "company_name", "companyName"},
	"active":     {"is_active", "isActive", "active"},
	"partner":    {"is_partner", "isPartner", "partner"},
	"categories": {"loan_categories", "loanCategories", "products", "categories"},
	"extra":      {"extra_conditions", "extraConditions", "conditions", "tags"},
	"order":      {"display_order", "displayOrder", "sort_order", "order"},
	"min_loan":   {"min_loan_amount", "minLoanAmount", "min_amount", "minAmount"},
	"phone":      {"channels.phone", "phone", "tel", "contact.phone"},
	"messaging":  {"channels.messaging_url", "channels.messagingUrl", "messaging_url", "kakao_url", "chat_url"},
	"financial":  {"financial_inputs_by_category", "financialInputsByCategory", "financial_inputs", "financials"},
	"regions":    {"regions", "region_matrix", "eligibility"},
}

var cellAliases = map[string][]string{
	"enabled":    {"enabled", "active", "available"},
	"loan_types": {"loan_types", "loanTypes", "types"},
	"ltv_max":    {"ltv_max_percent", "ltvMaxPercent", "max_ltv", "maxLtv"},
	"min_loan":   {"min_loan", "minLoan", "min_loan_amount"},
}

var legacyAliases = map[string][]string{
	"property_types":       {"property_types", "propertyTypes"},
	"loan_types":           {"loan_types", "loanTypes"},
	"min_loan_by_property": {"min_loan_by_property", "minLoanByProperty"},
	"max_total_ltv":        {"max_total_ltv", "maxTotalLtv"},
}

var financialAliases = map[string][]string{
	"interest": {"interest_avg", "interestAvg", "interest"},
	"platform": {"platform_fee_avg", "platformFeeAvg", "platform_fee"},
	"prepay":   {"prepay_fee_avg", "prepayFeeAvg", "prepay_fee"},
}

var negativeAliases = map[string][]string{
	"tax_arrears": {"tax_arrears", "taxArrears"},
	"delinquency": {"delinquency", "overdue"},
	"seizure":     {"seizure"},
	"bankruptcy":  {"bankruptcy"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstStrAlias: first non-empty string (or stringified number) for an alias set.
func firstStrAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

// firstFloatAlias: number from several paths (float64/int/string like "8,0").
func firstFloatAlias(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// firstBoolAlias: bool from several paths (bool / "true" / "y" / 1).
func firstBoolAlias(m map[string]any, paths ...string) (bool, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v, true
		case float64:
			return v != 0, true
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "y", "yes", "1":
				return true, true
			case "false", "n", "no", "0":
				return false, true
			}
		}
	}
	return false, false
}

// firstSliceStrings: accept []any with either strings or {name/label} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if n, ok := t["name"].(string); ok && n != "" {
					out = append(out, n)
					continue
				}
				if n, ok := t["label"].(string); ok && n != "" {
					out = append(out, n)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// inferLoanUnits applies the historical unit convention: amounts registered
// below 1,000,000 are 10,000-currency-unit denominated.
func inferLoanUnits(n int64) int64 {
	if n > 0 && n < 1_000_000 {
		return n * 10_000
	}
	return n
}

/********** dataset mapper **********/

// NormalizeDataset flattens the two historical container shapes (a plain
// array, or an object keyed by lender id) into one record slice. Id-keyed
// records inherit their key as id when they carry none themselves.
func NormalizeDataset(raw any) []map[string]any {
	switch v := raw.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, it := range v {
			if m, ok := it.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		// Some exports wrap the dataset one level down.
		for _, wrap := range []string{"lenders", "data", "items"} {
			if inner, ok := v[wrap]; ok {
				if list := NormalizeDataset(inner); list != nil {
					return list
				}
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]map[string]any, 0, len(keys))
		for _, k := range keys {
			m, ok := v[k].(map[string]any)
			if !ok {
				continue
			}
			if _, has := m["id"]; !has {
				m["id"] = k
			}
			out = append(out, m)
		}
		return out
	default:
		return nil
	}
}

// MapLender converts one raw record to the canonical type. Everything the
// matching engine compares is normalized here: category and condition tokens,
// subtype labels, region/property keys, loan-amount units.
func MapLender(m map[string]any) domain.LenderRecord {
	rec := domain.LenderRecord{
		ID:          firstStrAlias(m, lenderAliases, "id"),
		DisplayName: firstStrAlias(m, lenderAliases, "name"),
		Active:      true, // records predating the flag are live
	}
	if v, ok := firstBoolAlias(m, lenderAliases["active"]...); ok {
		rec.Active = v
	}
	if v, ok := firstBoolAlias(m, lenderAliases["partner"]...); ok {
		rec.Partner = v
	}

	for _, raw := range firstSliceStrings(m, lenderAliases["categories"]...) {
		rec.Categories = append(rec.Categories, domain.ParseCategory(raw))
	}
	for _, raw := range firstSliceStrings(m, lenderAliases["extra"]...) {
		if tok := domain.NormalizeToken(raw); tok != "" {
			rec.ExtraConditions = append(rec.ExtraConditions, tok)
		}
	}

	rec.Negative = mapNegativeFlags(m)
	rec.Financial = mapFinancial(m)
	rec.Regions = mapRegions(m)

	if f, ok := firstFloatAlias(m, lenderAliases["order"]...); ok {
		n := int(f)
		rec.DisplayOrder = &n
	}
	rec.Channels = domain.Channels{
		Phone:        firstStrAlias(m, lenderAliases, "phone"),
		MessagingURL: firstStrAlias(m, lenderAliases, "messaging"),
	}

	if rec.ID == "" {
		log.Warn().Str("name", rec.DisplayName).Msg("lender record without id")
	}
	return rec
}

func mapNegativeFlags(m map[string]any) domain.NegativeFlags {
	var n domain.NegativeFlags
	if v, ok := firstBoolAlias(m, negativeAliases["tax_arrears"]...); ok {
		n.TaxArrears = v
	}
	if v, ok := firstBoolAlias(m, negativeAliases["delinquency"]...); ok {
		n.Delinquency = v
	}
	if v, ok := firstBoolAlias(m, negativeAliases["seizure"]...); ok {
		n.Seizure = v
	}
	if v, ok := firstBoolAlias(m, negativeAliases["bankruptcy"]...); ok {
		n.Bankruptcy = v
	}
	return n
}

func mapFinancial(m map[string]any) map[string]domain.FinancialInputs {
	var raw map[string]any
	for _, p := range lenderAliases["financial"] {
		if v, ok := lookupAny(m, p).(map[string]any); ok {
			raw = v
			break
		}
	}
	if raw == nil {
		return nil
	}
	out := make(map[string]domain.FinancialInputs, len(raw))
	for cat, v := range raw {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		out[domain.ParseCategory(cat)] = domain.FinancialInputs{
			InterestAvg:    firstStrAlias(entry, financialAliases, "interest"),
			PlatformFeeAvg: firstStrAlias(entry, financialAliases, "platform"),
			PrepayFeeAvg:   firstStrAlias(entry, financialAliases, "prepay"),
		}
	}
	return out
}

/********** eligibility mapper **********/

// mapRegions produces the canonical region×property cell map. The modern
// shape nests cells under region/property keys; the legacy shape is flat
// (region list, property list, shared loan types, per-property minimums,
// one overall LTV cap) and is expanded into equivalent cells here so the
// filter never sees it.
func mapRegions(m map[string]any) map[domain.Region]map[domain.PropertyType]domain.EligibilityCell {
	lenderMin := int64(0)
	if f, ok := firstFloatAlias(m, lenderAliases["min_loan"]...); ok {
		lenderMin = inferLoanUnits(int64(f))
	}

	for _, p := range lenderAliases["regions"] {
		switch v := lookupAny(m, p).(type) {
		case map[string]any:
			return mapNestedRegions(v, lenderMin)
		case []any:
			return mapLegacyRegions(m, v, lenderMin)
		}
	}
	return nil
}

func mapNestedRegions(raw map[string]any, lenderMin int64) map[domain.Region]map[domain.PropertyType]domain.EligibilityCell {
	out := make(map[domain.Region]map[domain.PropertyType]domain.EligibilityCell, len(raw))
	for regKey, regVal := range raw {
		region, ok := domain.ParseRegion(regKey)
		if !ok {
			log.Warn().Str("region", regKey).Msg("unknown region key in lender record")
			continue
		}
		props, ok := regVal.(map[string]any)
		if !ok {
			continue
		}
		row := make(map[domain.PropertyType]domain.EligibilityCell, len(props))
		for propKey, cellVal := range props {
			property, ok := domain.ParsePropertyType(propKey)
			if !ok {
				log.Warn().Str("property", propKey).Msg("unknown property key in lender record")
				continue
			}
			cell, ok := cellVal.(map[string]any)
			if !ok {
				continue
			}
			row[property] = mapCell(cell, lenderMin)
		}
		if len(row) > 0 {
			out[region] = row
		}
	}
	return out
}

func mapCell(cell map[string]any, lenderMin int64) domain.EligibilityCell {
	out := domain.EligibilityCell{MinLoan: lenderMin}
	if v, ok := firstBoolAlias(cell, cellAliases["enabled"]...); ok {
		out.Enabled = v
	}
	for _, raw := range firstSliceStrings(cell, cellAliases["loan_types"]...) {
		if st, ok := domain.ParseLoanSubtype(raw); ok {
			out.LoanTypes = append(out.LoanTypes, st)
		}
	}
	if f, ok := firstFloatAlias(cell, cellAliases["ltv_max"]...); ok {
		out.LTVMaxPercent = &f
	}
	if f, ok := firstFloatAlias(cell, cellAliases["min_loan"]...); ok {
		out.MinLoan = inferLoanUnits(int64(f))
	}
	return out
}

func mapLegacyRegions(m map[string]any, regionList []any, lenderMin int64) map[domain.Region]map[domain.PropertyType]domain.EligibilityCell {
	var loanTypes []domain.LoanSubtype
	for _, raw := range firstSliceStrings(m, legacyAliases["loan_types"]...) {
		if st, ok := domain.ParseLoanSubtype(raw); ok {
			loanTypes = append(loanTypes, st)
		}
	}
	var ltvMax *float64
	if f, ok := firstFloatAlias(m, legacyAliases["max_total_ltv"]...); ok {
		ltvMax = &f
	}
	var minByProp map[string]any
	for _, p := range legacyAliases["min_loan_by_property"] {
		if v, ok := lookupAny(m, p).(map[string]any); ok {
			minByProp = v
			break
		}
	}

	out := make(map[domain.Region]map[domain.PropertyType]domain.EligibilityCell)
	for _, regRaw := range regionList {
		regKey, ok := regRaw.(string)
		if !ok {
			continue
		}
		region, ok := domain.ParseRegion(regKey)
		if !ok {
			log.Warn().Str("region", regKey).Msg("unknown legacy region")
			continue
		}
		row := make(map[domain.PropertyType]domain.EligibilityCell)
		for _, propRaw := range firstSliceStrings(m, legacyAliases["property_types"]...) {
			property, ok := domain.ParsePropertyType(propRaw)
			if !ok {
				continue
			}
			cell := domain.EligibilityCell{
				Enabled:       true,
				LoanTypes:     loanTypes,
				LTVMaxPercent: ltvMax,
				MinLoan:       lenderMin,
			}
			if minByProp != nil {
				if f, ok := firstFloatAlias(minByProp, propRaw); ok {
					cell.MinLoan = inferLoanUnits(int64(f))
				}
			}
			row[property] = cell
		}
		if len(row) > 0 {
			out[region] = row
		}
	}
	return out
}
