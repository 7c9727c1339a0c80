package db

import (
	"strings"
	"testing"
)

func TestEnsureSQLiteParamsAddsPragmas(t *testing.T) {
	got := ensureSQLiteParams("file:data/painel.db")
	for _, want := range []string{
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=foreign_keys(1)",
		"_pragma=synchronous(NORMAL)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("dsn %q missing %q", got, want)
		}
	}
	if !strings.Contains(got, "?") {
		t.Fatalf("dsn %q has no query separator", got)
	}
}

func TestEnsureSQLiteParamsKeepsExplicitValues(t *testing.T) {
	got := ensureSQLiteParams("file:data/painel.db?_pragma=foreign_keys(0)")
	if strings.Contains(got, "foreign_keys(1)") {
		t.Fatalf("explicit foreign_keys overridden: %q", got)
	}
	if !strings.Contains(got, "_pragma=journal_mode(WAL)") {
		t.Fatalf("missing journal_mode default: %q", got)
	}
}

func TestDetectDialectFromDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost/panel": DialectPostgres,
		"host=localhost dbname=panel":    DialectPostgres,
		"file:data/painel.db":            DialectSQLite,
		"sqlite://data/painel.db":        DialectSQLite,
		"data/painel.db":                 DialectSQLite,
	}
	for dsn, want := range cases {
		got, err := detectDialectFromDSN(dsn)
		if err != nil {
			t.Fatalf("detect %q: %v", dsn, err)
		}
		if got != want {
			t.Fatalf("detect %q = %s, want %s", dsn, got, want)
		}
	}
}
