package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arbisport/arbisport/internal/domain"
)

func TestOddsRequestShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("x-requests-remaining", "487")
		w.Header().Set("x-requests-reset", "1767225600")
		w.Write([]byte(`[{"id":"ev1","sport_key":"basketball_nba","commence_time":"2026-01-01T00:00:00Z"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	snap, err := c.Odds(context.Background(), "basketball_nba",
		[]string{"us", "uk"}, nil, []string{"totals", "h2h", "spreads"})
	if err != nil {
		t.Fatalf("Odds: %v", err)
	}

	if gotPath != "/v4/sports/basketball_nba/odds" {
		t.Errorf("path = %q", gotPath)
	}
	checks := map[string]string{
		"apiKey":     "secret",
		"oddsFormat": "american",
		"dateFormat": "iso",
		"regions":    "uk,us",
		"markets":    "h2h,spreads,totals", // sorted, comma-joined
	}
	for k, want := range checks {
		if got := gotQuery[k]; len(got) != 1 || got[0] != want {
			t.Errorf("query[%s] = %v, want %q", k, got, want)
		}
	}

	if len(snap.Events) != 1 || snap.Events[0].ID != "ev1" {
		t.Fatalf("events = %+v", snap.Events)
	}
	if snap.Usage.Remaining == nil || *snap.Usage.Remaining != 487 {
		t.Errorf("Remaining = %v, want 487", snap.Usage.Remaining)
	}
	if snap.Usage.Reset == nil || !snap.Usage.Reset.Equal(time.Unix(1767225600, 0)) {
		t.Errorf("Reset = %v", snap.Usage.Reset)
	}
}

func TestBookmakersOverrideRegions(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	if _, err := c.Odds(context.Background(), "basketball_nba",
		[]string{"us"}, []string{"pinnacle", "draftkings"}, []string{"h2h"}); err != nil {
		t.Fatalf("Odds: %v", err)
	}

	if got := gotQuery["bookmakers"]; len(got) != 1 || got[0] != "draftkings,pinnacle" {
		t.Errorf("bookmakers = %v", got)
	}
	if _, ok := gotQuery["regions"]; ok {
		t.Error("regions sent alongside bookmakers")
	}
}

func TestEventOddsWrapsSingleEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/sports/basketball_nba/events/ev1/odds" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"ev1","commence_time":"2026-01-01T00:00:00Z","bookmakers":[{"key":"pinnacle","markets":[{"key":"player_points","outcomes":[{"name":"A","price":-110,"point":22.5}]}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	snap, err := c.EventOdds(context.Background(), "basketball_nba", "ev1", []string{"us"}, nil, []string{"player_points"})
	if err != nil {
		t.Fatalf("EventOdds: %v", err)
	}
	if len(snap.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(snap.Events))
	}
	m := snap.Events[0].Bookmakers[0].Markets[0]
	if m.Key != "player_points" || m.Outcomes[0].Point == nil || *m.Outcomes[0].Point != 22.5 {
		t.Errorf("market = %+v", m)
	}
}

func TestListMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/sports/basketball_nba/markets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"key":"h2h"},{"key":"spreads"},{"key":""}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	ml, err := c.ListMarkets(context.Background(), "basketball_nba")
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(ml.Markets) != 2 || ml.Markets[0] != "h2h" || ml.Markets[1] != "spreads" {
		t.Errorf("markets = %v", ml.Markets)
	}
}

func TestQuotaExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-requests-remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	_, err := c.Odds(context.Background(), "basketball_nba", []string{"us"}, nil, []string{"h2h"})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

// An unknown event id comes back as 404; the client reports an empty
// snapshot so rescans resolve it as event-not-found instead of a transport
// failure.
func TestEventOddsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-requests-remaining", "12")
		http.Error(w, `{"message":"Event not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	snap, err := c.EventOdds(context.Background(), "basketball_nba", "nope", []string{"us"}, nil, []string{"h2h"})
	if err != nil {
		t.Fatalf("EventOdds on 404: %v", err)
	}
	if len(snap.Events) != 0 {
		t.Errorf("Events = %d, want 0", len(snap.Events))
	}
	if snap.Usage.Remaining == nil || *snap.Usage.Remaining != 12 {
		t.Errorf("Usage.Remaining = %v, want 12", snap.Usage.Remaining)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	if _, err := c.Odds(context.Background(), "basketball_nba", []string{"us"}, nil, []string{"h2h"}); err == nil {
		t.Fatal("expected error on 500")
	}
}

type blockingLimiter struct{ err error }

func (l blockingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return l.err == nil, l.err
}

func (l blockingLimiter) Wait(context.Context, string) error { return l.err }

func TestLimiterGatesRequests(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", blockingLimiter{err: errors.New("budget spent")})
	if _, err := c.Odds(context.Background(), "basketball_nba", []string{"us"}, nil, []string{"h2h"}); err == nil {
		t.Fatal("expected limiter error")
	}
	if called {
		t.Error("request reached the server despite limiter refusal")
	}
}
