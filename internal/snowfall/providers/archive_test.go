package providers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/powderhq/powder/internal/httpcache"
	"github.com/powderhq/powder/internal/snowfall"
)

func TestArchiveHistoricalWindow(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"daily":{"time":["2024-01-02","2024-01-03"],"snowfall_sum":[10.0,null]}}`))
	}))
	defer server.Close()

	p := NewArchive(testDeps())
	p.endpoint = server.URL

	days, err := p.Historical(context.Background(), usResort(), "2024-01-02", "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Get("start_date") != "2024-01-02" || gotQuery.Get("end_date") != "2024-01-15" {
		t.Errorf("unexpected window params: start=%q end=%q",
			gotQuery.Get("start_date"), gotQuery.Get("end_date"))
	}
	if gotQuery.Get("daily") != "snowfall_sum" {
		t.Errorf("expected daily=snowfall_sum, got %q", gotQuery.Get("daily"))
	}

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Source != "Open-Meteo-Archive" {
		t.Errorf("unexpected source label %q", days[0].Source)
	}
	if math.Abs(days[0].Inches-10.0*cmToInches) > 1e-9 {
		t.Errorf("expected %f inches, got %f", 10.0*cmToInches, days[0].Inches)
	}
	if days[1].Inches != 0 {
		t.Errorf("null measurement must read as zero, got %f", days[1].Inches)
	}
}

func TestArchiveServerErrorIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewArchive(testDeps())
	p.endpoint = server.URL

	_, err := p.Historical(context.Background(), usResort(), "2024-01-02", "2024-01-15")
	var fe *snowfall.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Provider != "Open-Meteo-Archive" {
		t.Errorf("expected archive identity in error, got %q", fe.Provider)
	}
}

// Repeated forecasts within the TTL must hit the upstream exactly once
// per URL when the cache is enabled.
func TestForecastServedFromCache(t *testing.T) {
	upstreamCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		w.Write([]byte(openMeteoWeekPayload))
	}))
	defer server.Close()

	cache, err := httpcache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	deps := Deps{Client: server.Client(), Cache: cache}
	p := newOpenMeteoModel(deps, "Open-Meteo", server.URL, 16, nil)

	for i := 0; i < 3; i++ {
		if _, err := p.Forecast(context.Background(), usResort(), 7); err != nil {
			t.Fatalf("forecast %d: %v", i, err)
		}
	}

	if upstreamCalls != 1 {
		t.Errorf("expected 1 upstream request, got %d", upstreamCalls)
	}
}

// Failed responses must never end up in the cache.
func TestForecastFailureNotCached(t *testing.T) {
	upstreamCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		if upstreamCalls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(openMeteoWeekPayload))
	}))
	defer server.Close()

	cache, err := httpcache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	deps := Deps{Client: server.Client(), Cache: cache}
	p := newOpenMeteoModel(deps, "Open-Meteo", server.URL, 16, nil)

	if _, err := p.Forecast(context.Background(), usResort(), 7); err == nil {
		t.Fatal("expected first forecast to fail")
	}
	if _, err := p.Forecast(context.Background(), usResort(), 7); err != nil {
		t.Fatalf("second forecast must reach the recovered upstream: %v", err)
	}
	if upstreamCalls != 2 {
		t.Errorf("expected 2 upstream requests, got %d", upstreamCalls)
	}
}
