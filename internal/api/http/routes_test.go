package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
	"github.com/powderhq/powder/internal/store"
)

type stubProvider struct {
	name   string
	result snowfall.ProviderResult
	err    error
}

func (p *stubProvider) Name() string        { return p.name }
func (p *stubProvider) MaxDays() int        { return 16 }
func (p *stubProvider) Countries() []string { return nil }

func (p *stubProvider) Forecast(ctx context.Context, r resort.Resort, days int) (snowfall.ProviderResult, error) {
	if p.err != nil {
		return snowfall.ProviderResult{}, p.err
	}
	return p.result, nil
}

type stubArchive struct {
	days []snowfall.HistoricalDay
	err  error
}

func (a *stubArchive) Name() string { return "Open-Meteo-Archive" }

func (a *stubArchive) Historical(ctx context.Context, r resort.Resort, start, end string) ([]snowfall.HistoricalDay, error) {
	return a.days, a.err
}

func testApp(t *testing.T, providers []snowfall.Provider, archive snowfall.HistoricalProvider, st *store.MemoryStore) *fiber.App {
	t.Helper()

	catalog, err := resort.Default()
	if err != nil {
		t.Fatalf("embedded catalog: %v", err)
	}
	if archive == nil {
		archive = &stubArchive{}
	}
	if st == nil {
		st = store.NewMemoryStore(8, time.Hour)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := snowfall.NewService(snowfall.NewRouter(providers...), archive, log)

	app := fiber.New()
	RegisterRoutes(app, Deps{Catalog: catalog, Service: svc, Store: st})
	return app
}

func request(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("request %s: %v", target, err)
	}
	return resp
}

func TestForecastDaysValidation(t *testing.T) {
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, nil, nil)

	for _, target := range []string{
		"/api/v1/snowfall/forecast?resort=vail&days=17",
		"/api/v1/snowfall/forecast?resort=vail&days=0",
		"/api/v1/snowfall/forecast?resort=vail&days=-3",
		"/api/v1/snowfall/forecast",
	} {
		resp := request(t, app, target)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, resp.StatusCode)
		}
	}
}

func TestForecastUnknownResort(t *testing.T) {
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, nil, nil)

	resp := request(t, app, "/api/v1/snowfall/forecast?resort=no-such-resort")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestForecastServedFromStore(t *testing.T) {
	st := store.NewMemoryStore(8, time.Hour)
	day, _ := snowfall.ParseDay("2024-01-15")
	st.SaveSnapshot("vail", store.ForecastSnapshot{
		FetchedAt: time.Now().UTC(),
		Days: []snowfall.AggregatedDay{{
			Date:      day,
			AvgInches: 4.5,
			Sources:   map[string]float64{"Open-Meteo": 4.5},
		}},
	})

	// The provider errors, so a live fetch would fail; a warm store must
	// answer anyway.
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo", err: errors.New("down")}}, nil, st)

	resp := request(t, app, "/api/v1/snowfall/forecast?resort=vail")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from warm store, got %d", resp.StatusCode)
	}

	var body struct {
		Days []struct {
			AvgInches float64 `json:"avgInches"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Days) != 1 || body.Days[0].AvgInches != 4.5 {
		t.Errorf("unexpected days payload: %+v", body.Days)
	}
}

func TestForecastColdStoreLiveFetch(t *testing.T) {
	day, _ := snowfall.ParseDay("2024-01-15")
	provider := &stubProvider{name: "Open-Meteo", result: snowfall.ProviderResult{
		Provider: "Open-Meteo",
		Days:     []snowfall.DailyValue{{Date: day, Inches: 6.0}},
	}}

	st := store.NewMemoryStore(8, time.Hour)
	app := testApp(t, []snowfall.Provider{provider}, nil, st)

	resp := request(t, app, "/api/v1/snowfall/forecast?resort=vail&days=7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// The live result must be saved for the next request.
	if _, err := st.GetLatest("vail"); err != nil {
		t.Errorf("live fetch must populate the store: %v", err)
	}
}

func TestForecastAllProvidersFailed(t *testing.T) {
	app := testApp(t, []snowfall.Provider{
		&stubProvider{name: "Open-Meteo", err: errors.New("down")},
		&stubProvider{name: "ECMWF", err: errors.New("down")},
	}, nil, nil)

	resp := request(t, app, "/api/v1/snowfall/forecast?resort=vail")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	day, _ := snowfall.ParseDay("2024-01-10")
	archive := &stubArchive{days: []snowfall.HistoricalDay{
		{Date: day, Inches: 2.5, Source: "Open-Meteo-Archive"},
	}}
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, archive, nil)

	resp := request(t, app, "/api/v1/snowfall/history?resort=vail")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		History []struct {
			Inches float64 `json:"inches"`
			Source string  `json:"source"`
		} `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.History) != 1 || body.History[0].Source != "Open-Meteo-Archive" {
		t.Errorf("unexpected history payload: %+v", body.History)
	}
}

func TestHistorySourceFailure(t *testing.T) {
	archive := &stubArchive{err: errors.New("archive down")}
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, archive, nil)

	resp := request(t, app, "/api/v1/snowfall/history?resort=vail")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestHistoryMissingResortParam(t *testing.T) {
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, nil, nil)

	resp := request(t, app, "/api/v1/snowfall/history")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestResortsFilters(t *testing.T) {
	app := testApp(t, []snowfall.Provider{&stubProvider{name: "Open-Meteo"}}, nil, nil)

	resp := request(t, app, "/api/v1/resorts?country=JP")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Resorts []resort.Resort `json:"resorts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Resorts) == 0 {
		t.Fatal("expected JP resorts in the embedded catalog")
	}
	for _, r := range body.Resorts {
		if r.Country != "JP" {
			t.Errorf("country filter leaked %q", r.Country)
		}
	}
}
