package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDoAndRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	body, resp, err := DoAndRead(NewClient(5*time.Second), req)
	if err != nil {
		t.Fatalf("DoAndRead failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q", body)
	}
}

func TestDoAndReadRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", MaxResponseBytes+1)))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = DoAndRead(NewClient(30*time.Second), req)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size-limit error, got %v", err)
	}
}

func TestSetDefaultClientForTesting(t *testing.T) {
	custom := NewClient(time.Second)
	restore := SetDefaultClientForTesting(custom)
	if GetDefaultClient() != custom {
		t.Error("override not applied")
	}
	restore()
	if GetDefaultClient() == custom {
		t.Error("override not restored")
	}
}
