package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseQueryIntDefaultsAndBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || value != 25 {
		t.Fatalf("default = %d, err = %v", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}

	req = httptest.NewRequest(http.MethodGet, "/x?limit=abc", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
}

func TestParseQueryTimeAcceptsBothForms(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?at=2026-02-03", nil)
	ts, ok, err := ParseQueryTime(req, "at")
	if err != nil || !ok {
		t.Fatalf("ok = %v err = %v", ok, err)
	}
	if !ts.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ts = %v", ts)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?at=2026-02-03T10:30:00Z", nil)
	ts, ok, err = ParseQueryTime(req, "at")
	if err != nil || !ok {
		t.Fatalf("ok = %v err = %v", ok, err)
	}
	if ts.Hour() != 10 || ts.Minute() != 30 {
		t.Fatalf("ts = %v", ts)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	_, ok, err = ParseQueryTime(req, "at")
	if err != nil || ok {
		t.Fatalf("absent param must report ok=false, got ok=%v err=%v", ok, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?at=yesterday", nil)
	if _, _, err := ParseQueryTime(req, "at"); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestParseQueryUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	id, err := ParseQueryUUID(req, "owner_id")
	if err != nil || id != nil {
		t.Fatalf("absent param: id=%v err=%v", id, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?owner_id=4f3c8a46-9c35-4f0f-9f4e-7b2d6b1e9a01", nil)
	id, err = ParseQueryUUID(req, "owner_id")
	if err != nil || id == nil {
		t.Fatalf("valid uuid: id=%v err=%v", id, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?owner_id=nope", nil)
	if _, err := ParseQueryUUID(req, "owner_id"); err == nil {
		t.Fatal("expected error for malformed uuid")
	}
}
