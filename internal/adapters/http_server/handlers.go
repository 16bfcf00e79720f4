// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"huchu/internal/adapters/observability"
	"huchu/internal/app"
	"huchu/internal/calc"
	"huchu/internal/domain"
	"huchu/internal/match"
	"huchu/internal/schema"
)

type Handlers struct{ Q *app.NavigatorService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/calculator/ltv", h.calculateLtv)
	s.mux.Get("/v1/navigator/schema", h.getSchema)
	s.mux.Post("/v1/navigator/match", h.matchLenders)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- simple calculator ----

// Amount fields arrive as the user typed them; everything except digits is
// stripped, so "450,000,000" and "450000000" are the same input.
type ltvRequest struct {
	Region       string `json:"region"`
	PropertyType string `json:"property_type"`
	MarketValue  string `json:"market_value"`
	SeniorLoan   string `json:"senior_loan"`
	Deduction    string `json:"deduction"`
	Requested    string `json:"requested"`
	ShareMode    bool   `json:"share_mode"`
	SharePercent string `json:"share_percent"`
}

func (h *Handlers) calculateLtv(w http.ResponseWriter, r *http.Request) {
	var in ltvRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return
	}

	region, ok := domain.ParseRegion(in.Region)
	if !ok {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid region", "unknown region: "+in.Region)
		return
	}
	property, ok := domain.ParsePropertyType(in.PropertyType)
	if !ok {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid property type", "unknown property type: "+in.PropertyType)
		return
	}

	req := domain.LoanRequest{
		Region:       region,
		PropertyType: property,
		MarketValue:  domain.ParseAmount(in.MarketValue),
		SeniorLoan:   domain.ParseAmount(in.SeniorLoan),
		Deduction:    domain.ParseAmount(in.Deduction),
		Requested:    domain.ParseAmount(in.Requested),
		ShareMode:    in.ShareMode,
		SharePercent: domain.ParsePercent(in.SharePercent),
	}

	out, err := calc.Compute(req)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid selection", err.Error())
		return
	}
	observability.ObserveCalculation(string(out.Status))
	writeJSON(w, http.StatusOK, out)
}

// ---- navigator field schema ----

func (h *Handlers) getSchema(w http.ResponseWriter, r *http.Request) {
	property, ok := domain.ParsePropertyType(r.URL.Query().Get("property_type"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid property type", "property_type is required")
		return
	}
	subtype, ok := domain.ParseLoanSubtype(r.URL.Query().Get("loan_type"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid loan type", "loan_type is required")
		return
	}

	sc, err := schema.Lookup(property, subtype)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no schema for this selection")
		return
	}

	etag, body := calcETagAndBody(sc)
	// Schemas are compiled in; clients can cache them for the whole session.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write schema body")
	}
}

// ---- lender matching ----

type matchRequest struct {
	MainCategory string `json:"main_category"`
	Region       string `json:"region"`
	PropertyType string `json:"property_type"`
	LoanType     string `json:"loan_type"`
	Occupancy    string `json:"occupancy"`

	MarketValue     string `json:"market_value"`
	SharePercent    string `json:"share_percent"`
	SeniorLoan      string `json:"senior_loan"`
	Deposit         string `json:"deposit"`
	RefinanceAmount string `json:"refinance_amount"`
	Requested       string `json:"requested"`
	AssumedBurden   string `json:"assumed_burden"`

	// FinalStep is set once the wizard reaches the borrower-qualifier step;
	// only then do lender whitelists and negative flags filter the list.
	FinalStep  bool `json:"final_step"`
	Qualifiers struct {
		IncomeType string   `json:"income_type"`
		CreditBand string   `json:"credit_band"`
		RepayPlan  string   `json:"repay_plan"`
		NeedTiming string   `json:"need_timing"`
		Others     []string `json:"others"`
	} `json:"qualifiers"`
}

type lenderSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Partner      bool   `json:"partner"`
	Phone        string `json:"phone,omitempty"`
	MessagingURL string `json:"messaging_url,omitempty"`
}

type matchResponse struct {
	SchemaKnown bool               `json:"schema_known"`
	Complete    bool               `json:"complete"`
	Missing     []schema.FieldCode `json:"missing,omitempty"`
	LTV         match.Resolution   `json:"ltv"`
	Count       int                `json:"count"`
	Lenders     []lenderSummary    `json:"lenders"`
	Fees        match.FeeRanges    `json:"fees"`
}

func (h *Handlers) matchLenders(w http.ResponseWriter, r *http.Request) {
	var in matchRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return
	}

	req, problemDetail := buildNavigatorRequest(in)
	if problemDetail != "" {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid selection", problemDetail)
		return
	}

	out, err := h.Q.Match(r.Context(), req, in.FinalStep)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal error", "matching failed")
		return
	}

	resp := matchResponse{
		SchemaKnown: out.SchemaKnown,
		Complete:    out.Complete,
		Missing:     out.Missing,
		LTV:         out.LTV,
		Count:       len(out.Lenders),
		Lenders:     make([]lenderSummary, 0, len(out.Lenders)),
		Fees:        out.Fees,
	}
	// Identities stay hidden until the qualifier step is done; earlier steps
	// only see the count and fee ranges.
	if in.FinalStep {
		for _, l := range out.Lenders {
			resp.Lenders = append(resp.Lenders, lenderSummary{
				ID:           l.ID,
				Name:         l.DisplayName,
				Partner:      l.Partner,
				Phone:        l.Channels.Phone,
				MessagingURL: l.Channels.MessagingURL,
			})
		}
	}
	observability.ObserveMatch(string(req.PropertyType), string(req.Subtype), len(out.Lenders))
	writeJSON(w, http.StatusOK, resp)
}

// buildNavigatorRequest parses the wire request into domain terms. The region
// and property/loan types must be known; everything else degrades to zero
// values so partial wizard states still get a best-effort answer.
func buildNavigatorRequest(in matchRequest) (domain.NavigatorRequest, string) {
	region, ok := domain.ParseRegion(in.Region)
	if !ok {
		return domain.NavigatorRequest{}, "unknown region: " + in.Region
	}
	property, ok := domain.ParsePropertyType(in.PropertyType)
	if !ok {
		return domain.NavigatorRequest{}, "unknown property type: " + in.PropertyType
	}
	subtype, ok := domain.ParseLoanSubtype(in.LoanType)
	if !ok {
		return domain.NavigatorRequest{}, "unknown loan type: " + in.LoanType
	}

	req := domain.NavigatorRequest{
		MainCategory: domain.ParseCategory(in.MainCategory),
		Region:       region,
		PropertyType: property,
		Subtype:      subtype,

		MarketValue:     domain.ParseAmount(in.MarketValue),
		SharePercent:    domain.ParsePercent(in.SharePercent),
		SeniorLoan:      domain.ParseAmount(in.SeniorLoan),
		Deposit:         domain.ParseAmount(in.Deposit),
		RefinanceAmount: domain.ParseAmount(in.RefinanceAmount),
		Requested:       domain.ParseAmount(in.Requested),
		AssumedBurden:   domain.ParseAmount(in.AssumedBurden),
	}
	if occ, ok := domain.ParseOccupancy(in.Occupancy); ok {
		req.Occupancy = occ
	}
	req.Qualifiers = domain.Qualifiers{
		IncomeType: domain.NormalizeToken(in.Qualifiers.IncomeType),
		CreditBand: domain.NormalizeToken(in.Qualifiers.CreditBand),
		RepayPlan:  domain.NormalizeToken(in.Qualifiers.RepayPlan),
		NeedTiming: domain.NormalizeToken(in.Qualifiers.NeedTiming),
	}
	for _, o := range in.Qualifiers.Others {
		if tok := domain.NormalizeToken(o); tok != "" {
			req.Qualifiers.Others = append(req.Qualifiers.Others, tok)
		}
	}
	return req, ""
}
