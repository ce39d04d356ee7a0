//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"gmb_agent/internal/domain"
	mysqlrepo "gmb_agent/internal/storage/mysql"
)

func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
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
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=gmb"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/gmb?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

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
	return db
}

func TestRepo_MySQL_SaveGetList(t *testing.T) {
	db := startMySQL(t)
	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	older := domain.Run{
		ID: "00000000-0000-0000-0000-000000000001",
		Raw: domain.RawDocument{
			Keyword:           "meat market",
			LocationText:      "Houston, TX",
			FormattedLocation: "Houston, TX, USA",
			RadiusM:           30000,
			TopN:              6,
			Places: []domain.PlaceDetail{{
				PlaceID:      "p1",
				Name:         "Carnicería Uno",
				Rating:       pfloat(4.6),
				ReviewsCount: pint(812),
				Reviews:      []domain.Review{{Text: "Los camarones frescos", AuthorName: "Ana"}},
			}},
		},
		Report: domain.Report{
			SEOOptimization: domain.SEOOptimization{Query: "meat market | Houston, TX, USA", TargetTop: 10},
			PlacesDetail:    []domain.PlaceReport{{Name: "Carnicería Uno", Role: domain.RoleClient}},
		},
		CreatedAt: t0,
	}
	newer := older
	newer.ID = "00000000-0000-0000-0000-000000000002"
	newer.Raw.Keyword = "carniceria"
	newer.CreatedAt = t0.Add(time.Hour)

	for _, r := range []domain.Run{older, newer} {
		if err := repo.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun %s: %v", r.ID, err)
		}
	}

	got, err := repo.GetRun(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Raw.FormattedLocation != "Houston, TX, USA" || len(got.Raw.Places) != 1 {
		t.Fatalf("unexpected raw: %+v", got.Raw)
	}
	if got.Raw.Places[0].Reviews[0].Text != "Los camarones frescos" {
		t.Fatalf("non-ASCII text not preserved: %q", got.Raw.Places[0].Reviews[0].Text)
	}
	if got.Report.PlacesDetail[0].Role != domain.RoleClient || !got.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected report/created_at: %+v %v", got.Report.PlacesDetail, got.CreatedAt)
	}

	list, err := repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[0].Keyword != "carniceria" || list[1].Places != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, err := repo.GetRun(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
