package handlers

import (
	"net/http/httptest"
	"testing"
)

func TestParseWindow(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/deposits?start_date=2025-03-01&end_date=2025-03-31", nil)
	start, end, err := parseWindow(r)
	if err != nil {
		t.Fatalf("parseWindow failed: %v", err)
	}
	if start == nil || end == nil {
		t.Fatal("expected both bounds set")
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("window = %v .. %v", start, end)
	}
}

func TestParseWindowOpenEnded(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/deposits?start_date=2025-03-01", nil)
	start, end, err := parseWindow(r)
	if err != nil {
		t.Fatalf("parseWindow failed: %v", err)
	}
	if start == nil || end != nil {
		t.Errorf("open window = %v .. %v", start, end)
	}

	r = httptest.NewRequest("GET", "/api/deposits", nil)
	start, end, err = parseWindow(r)
	if err != nil || start != nil || end != nil {
		t.Errorf("empty window = %v .. %v (err %v)", start, end, err)
	}
}

func TestParseWindowEndBeforeStart(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/deposits?start_date=2025-03-31&end_date=2025-03-01", nil)
	if _, _, err := parseWindow(r); err != errEndBeforeStart {
		t.Errorf("reversed window err = %v, want %v", err, errEndBeforeStart)
	}
}

func TestParseWindowBadDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/deposits?start_date=31-03-2025", nil)
	if _, _, err := parseWindow(r); err == nil {
		t.Error("expected error for malformed date")
	}
}
