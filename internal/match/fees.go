package match

import (
	"strconv"
	"strings"

	"huchu/internal/domain"
)

// Range is a min/max pair; Known is false until at least one value parsed.
type Range struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Known bool    `json:"known"`
}

func (r *Range) observe(v float64) {
	if !r.Known {
		r.Min, r.Max, r.Known = v, v, true
		return
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// FeeRanges aggregates the advertised interest and fee averages across a
// candidate list.
type FeeRanges struct {
	Interest    Range `json:"interest"`
	PlatformFee Range `json:"platform_fee"`
	PrepayFee   Range `json:"prepay_fee"`
}

// CalcFeeRanges scans each lender's financial inputs for the category,
// skipping lenders that miss the category or carry unparsable values.
func CalcFeeRanges(lenders []domain.LenderRecord, category string) FeeRanges {
	var out FeeRanges
	for _, l := range lenders {
		fi, ok := l.Financial[category]
		if !ok {
			continue
		}
		if v, ok := looseFloat(fi.InterestAvg); ok {
			out.Interest.observe(v)
		}
		if v, ok := looseFloat(fi.PlatformFeeAvg); ok {
			out.PlatformFee.observe(v)
		}
		if v, ok := looseFloat(fi.PrepayFeeAvg); ok {
			out.PrepayFee.observe(v)
		}
	}
	return out
}

// looseFloat extracts the first numeric substring from admin-entered text:
// "6.5~9.2%" -> 6.5, "연 7,5" -> 7.5, "면제" -> no value.
func looseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	end := start
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9' {
			seenDot = true
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
