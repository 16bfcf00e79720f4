//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"huchu/internal/domain"
	mysqlrepo "huchu/internal/storage/mysql"
)

// ---------- small helpers ----------
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndList(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=huchu",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "huchu")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	l := domain.LenderRecord{
		ID:          "huchu-01",
		DisplayName: "후추펀딩",
		Active:      true,
		Partner:     true,
		Categories:  []string{domain.CategoryRealEstate},
		Regions: map[domain.Region]map[domain.PropertyType]domain.EligibilityCell{
			domain.RegionSeoul: {
				domain.PropertyApartment: {
					Enabled:       true,
					LoanTypes:     []domain.LoanSubtype{domain.SubtypeGeneral},
					LTVMaxPercent: pfloat(85),
					MinLoan:       10_000_000,
				},
			},
		},
		ExtraConditions: []string{"근로소득"},
		Negative:        domain.NegativeFlags{TaxArrears: true},
		Financial: map[string]domain.FinancialInputs{
			domain.CategoryRealEstate: {InterestAvg: "6.5~9.2%"},
		},
		DisplayOrder: pint(1),
		Channels:     domain.Channels{Phone: "02-1234-5678"},
	}
	if err := repo.UpsertLender(ctx, l); err != nil {
		t.Fatalf("UpsertLender: %v", err)
	}

	// Upsert again with a changed name; must overwrite, not duplicate.
	l.DisplayName = "후추펀딩(신)"
	if err := repo.UpsertLender(ctx, l); err != nil {
		t.Fatalf("UpsertLender (update): %v", err)
	}

	if err := repo.LogMiss(ctx, "config-api", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	// Same miss again trips the ON DUPLICATE path.
	if err := repo.LogMiss(ctx, "config-api", 404, "not found"); err != nil {
		t.Fatalf("LogMiss (repeat): %v", err)
	}

	// Assert
	got, err := repo.ListLenders(ctx)
	if err != nil {
		t.Fatalf("ListLenders: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 lender, got %d", len(got))
	}
	out := got[0]
	if out.DisplayName != "후추펀딩(신)" || !out.Partner {
		t.Fatalf("unexpected lender: %+v", out)
	}
	cell, ok := out.Cell(domain.RegionSeoul, domain.PropertyApartment)
	if !ok || !cell.Enabled || cell.MinLoan != 10_000_000 {
		t.Fatalf("regions JSON did not round-trip: %+v ok=%v", cell, ok)
	}
	if cell.LTVMaxPercent == nil || *cell.LTVMaxPercent != 85 {
		t.Fatalf("ltv cap lost: %v", cell.LTVMaxPercent)
	}
	if !out.Negative.TaxArrears {
		t.Fatal("negative flags lost")
	}
	if fi := out.Financial[domain.CategoryRealEstate]; fi.InterestAvg != "6.5~9.2%" {
		t.Fatalf("financial inputs lost: %+v", out.Financial)
	}
	if out.DisplayOrder == nil || *out.DisplayOrder != 1 {
		t.Fatalf("display order lost: %v", out.DisplayOrder)
	}
}
