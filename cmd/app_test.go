package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantfolio/quantfolio"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPortfolio(t *testing.T) {
	dir := t.TempDir()
	securities := writeFile(t, dir, "securities.json", `[
	  {"name": "ACME", "type": "EQUITY", "prices": {"2025-03-10": 50.0}}
	]`)
	journal := writeFile(t, dir, "journal.jsonl",
		`{"command":"position","date":"2025-03-01","security":"USD","quantity":1000}
{"command":"trade","date":"2025-03-10","security":"ACME","quantity":10,"price":50,"currency":"USD"}
`)

	*securitiesFile = securities
	*journalFile = journal
	*currency = "USD"

	p, err := loadPortfolio()
	if err != nil {
		t.Fatalf("loadPortfolio() unexpected error = %v", err)
	}

	total, _, err := p.Value(quantfolio.NewDate(2025, 3, 10))
	if err != nil {
		t.Fatalf("Value() unexpected error = %v", err)
	}
	// 10 shares at 50 plus 500 remaining cash
	if total != 1000 {
		t.Errorf("Value() = %v, want 1000", total)
	}
}

func TestLoadPortfolio_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	*securitiesFile = filepath.Join(dir, "absent.json")
	*journalFile = filepath.Join(dir, "absent.jsonl")

	if _, err := loadPortfolio(); err == nil {
		t.Error("loadPortfolio() expected error for missing securities file")
	}
}

func TestParseDay(t *testing.T) {
	on, err := parseDay("2025-03-10")
	if err != nil {
		t.Fatalf("parseDay() unexpected error = %v", err)
	}
	if on != quantfolio.NewDate(2025, 3, 10) {
		t.Errorf("parseDay() = %v, want 2025-03-10", on)
	}

	today, err := parseDay("")
	if err != nil {
		t.Fatalf("parseDay() unexpected error = %v", err)
	}
	if today != quantfolio.Today() {
		t.Errorf("parseDay(\"\") = %v, want today", today)
	}

	if _, err := parseDay("not-a-date"); err == nil {
		t.Error("parseDay() expected error for garbage input")
	}
}
