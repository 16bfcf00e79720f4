package schema_test

import (
	"errors"
	"reflect"
	"testing"

	"huchu/internal/domain"
	"huchu/internal/schema"
)

func TestLookup_Unsupported(t *testing.T) {
	if _, err := schema.Lookup(domain.PropertyLand, domain.SubtypeDepositReturn); !errors.Is(err, domain.ErrSchemaNotFound) {
		t.Fatalf("want ErrSchemaNotFound, got %v", err)
	}
	if _, err := schema.Lookup("officetel", domain.SubtypeGeneral); !errors.Is(err, domain.ErrSchemaNotFound) {
		t.Fatalf("want ErrSchemaNotFound for unknown property, got %v", err)
	}
}

func TestLookup_Visible(t *testing.T) {
	s, err := schema.Lookup(domain.PropertyApartment, domain.SubtypeAuctionPayoff)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, code := range []schema.FieldCode{
		schema.FieldOccupancy, schema.FieldValuation, schema.FieldAssumedBurden, schema.FieldRequested,
	} {
		if !s.Visible(code) {
			t.Errorf("%s should be visible for auction payoff", code)
		}
	}
	if s.Visible(schema.FieldRefinance) {
		t.Error("REF should not be visible for auction payoff")
	}

	land, err := schema.Lookup(domain.PropertyLand, domain.SubtypeGeneral)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if land.Visible(schema.FieldOccupancy) {
		t.Error("land has no occupancy field")
	}
}

func TestRequiredNow_ConditionalDeposit(t *testing.T) {
	s, err := schema.Lookup(domain.PropertyApartment, domain.SubtypeGeneral)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if s.RequiredNow(schema.FieldDeposit, domain.OccupancySelf) {
		t.Error("DEP must not be required for self occupancy")
	}
	for _, occ := range []domain.Occupancy{domain.OccupancyRental, domain.OccupancyRentalPending} {
		if !s.RequiredNow(schema.FieldDeposit, occ) {
			t.Errorf("DEP must be required for %s", occ)
		}
	}
}

func TestRequiredNow_ConditionalAssumedBurden(t *testing.T) {
	s, err := schema.Lookup(domain.PropertyApartment, domain.SubtypeAuctionPayoff)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if s.RequiredNow(schema.FieldAssumedBurden, domain.OccupancySelf) {
		t.Error("ASB must not be required without a prior tenant")
	}
	if !s.RequiredNow(schema.FieldAssumedBurden, domain.OccupancyPriorTenant) {
		t.Error("ASB must be required when a prior tenant's claim is assumed")
	}
}

func TestComplete(t *testing.T) {
	s, err := schema.Lookup(domain.PropertyApartment, domain.SubtypeGeneral)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	req := domain.NavigatorRequest{
		PropertyType: domain.PropertyApartment,
		Subtype:      domain.SubtypeGeneral,
		Occupancy:    domain.OccupancySelf,
		MarketValue:  500_000_000,
		Requested:    100_000_000,
	}
	if ok, missing := s.Complete(req); !ok {
		t.Fatalf("self-occupied request should be complete, missing %v", missing)
	}

	// Switching to rental occupancy pulls the deposit in as required.
	req.Occupancy = domain.OccupancyRental
	ok, missing := s.Complete(req)
	if ok {
		t.Fatal("rental without deposit should be incomplete")
	}
	if !reflect.DeepEqual(missing, []schema.FieldCode{schema.FieldDeposit}) {
		t.Fatalf("missing = %v, want [DEP]", missing)
	}

	req.Deposit = 150_000_000
	if ok, missing := s.Complete(req); !ok {
		t.Fatalf("deposit entered, still missing %v", missing)
	}

	// An empty request reports every unconditional requirement.
	ok, missing = s.Complete(domain.NavigatorRequest{})
	if ok {
		t.Fatal("empty request cannot be complete")
	}
	want := []schema.FieldCode{schema.FieldOccupancy, schema.FieldValuation, schema.FieldRequested}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}
