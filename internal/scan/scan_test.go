package scan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/markets"
	"github.com/arbisport/arbisport/internal/normalize"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFeed serves canned snapshots and counts calls.
type fakeFeed struct {
	mu             sync.Mutex
	odds           map[string]domain.OddsSnapshot // by sport
	eventOdds      map[string]domain.OddsSnapshot // by sport+"/"+eventID
	marketList     map[string]domain.MarketList
	oddsErr        error
	eventOddsErr   error
	oddsDelay      time.Duration // simulates a slow upstream
	oddsCalls      int
	oddsAt         []time.Time
	eventOddsCalls int
	listCalls      int
}

func (f *fakeFeed) Odds(_ context.Context, sportKey string, _, _, _ []string) (domain.OddsSnapshot, error) {
	f.mu.Lock()
	f.oddsCalls++
	f.oddsAt = append(f.oddsAt, time.Now())
	snap, err, delay := f.odds[sportKey], f.oddsErr, f.oddsDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return domain.OddsSnapshot{}, err
	}
	return snap, nil
}

func (f *fakeFeed) EventOdds(_ context.Context, sportKey, eventID string, _, _, _ []string) (domain.OddsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventOddsCalls++
	if f.eventOddsErr != nil {
		return domain.OddsSnapshot{}, f.eventOddsErr
	}
	snap, ok := f.eventOdds[sportKey+"/"+eventID]
	if !ok {
		return domain.OddsSnapshot{}, nil
	}
	return snap, nil
}

func (f *fakeFeed) ListMarkets(_ context.Context, sportKey string) (domain.MarketList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if ml, ok := f.marketList[sportKey]; ok {
		return ml, nil
	}
	return domain.MarketList{}, errors.New("no catalog")
}

// memLedger records everything in memory.
type memLedger struct {
	mu     sync.Mutex
	events []domain.Event
	quotes int
	arbs   []domain.ArbitrageRecord
	logs   []string
	usage  int
}

func (l *memLedger) RecordEvent(_ context.Context, ev domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *memLedger) RecordQuotes(_ context.Context, _, _, _ string, _ domain.MarketOdds) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quotes++
	return nil
}

func (l *memLedger) RecordArbitrage(_ context.Context, rec domain.ArbitrageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.arbs = append(l.arbs, rec)
	return nil
}

func (l *memLedger) RecordAPIUsage(_ context.Context, _ domain.RateUsage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usage++
	return nil
}

func (l *memLedger) AppendLog(_ context.Context, _, message string, _ map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, message)
	return nil
}

func (l *memLedger) arbCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.arbs)
}

func (l *memLedger) eventIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.events))
	for _, ev := range l.events {
		ids = append(ids, ev.ID)
	}
	return ids
}

// memBus captures published payloads.
type memBus struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func (b *memBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.published == nil {
		b.published = map[string][][]byte{}
	}
	b.published[channel] = append(b.published[channel], append([]byte(nil), payload...))
	return nil
}

func (b *memBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func testConfig() domain.ScanConfig {
	now := time.Now().UTC()
	return domain.ScanConfig{
		Sports:       []string{"basketball_nba"},
		Regions:      []string{"us"},
		Markets:      []string{"h2h"},
		WindowStart:  now.Add(-time.Hour),
		WindowEnd:    now.Add(72 * time.Hour),
		MinEdge:      decimal.RequireFromString("0.001"),
		Bankroll:     decimal.NewFromInt(100),
		Rounding:     decimal.NewFromInt(1),
		MinBookCount: 2,
		Mode:         domain.ModeContinuous,
		Schedule:     domain.ScanSchedule{Interval: time.Minute},
	}
}

// arbEvent quotes a two-way h2h at -110 / +120, which clears any small edge
// threshold.
func arbEvent(id string, commence time.Time) domain.Event {
	return domain.Event{
		ID:           id,
		SportKey:     "basketball_nba",
		CommenceTime: commence.Format(time.RFC3339),
		HomeTeam:     "Boston Celtics",
		AwayTeam:     "Miami Heat",
		Bookmakers: []domain.BookmakerOdds{
			{
				Key: "draftkings", Title: "DraftKings",
				Markets: []domain.MarketOdds{{
					Key: "h2h",
					Outcomes: []domain.RawOutcome{
						{Name: "Boston Celtics", Price: -110},
						{Name: "Miami Heat", Price: -200},
					},
				}},
			},
			{
				Key: "fanduel", Title: "FanDuel",
				Markets: []domain.MarketOdds{{
					Key: "h2h",
					Outcomes: []domain.RawOutcome{
						{Name: "Boston Celtics", Price: -150},
						{Name: "Miami Heat", Price: 120},
					},
				}},
			},
		},
	}
}

func newTestOrchestrator(feed domain.OddsFeed, ledger domain.Ledger, bus domain.SignalBus) *Orchestrator {
	tracker := markets.NewAvailabilityTracker(feed, ledger, discard())
	return NewOrchestrator(feed, ledger, tracker, normalize.New(nil), bus, discard())
}

func TestRunPassDetectsArbitrage(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{arbEvent("ev1", commence)}},
	}}
	ledger := &memLedger{}
	bus := &memBus{}
	orch := newTestOrchestrator(feed, ledger, bus)

	counters, err := orch.RunPass(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if counters.EventsConsidered != 1 {
		t.Errorf("EventsConsidered = %d, want 1", counters.EventsConsidered)
	}
	if counters.OpportunitiesFound != 1 {
		t.Fatalf("OpportunitiesFound = %d, want 1", counters.OpportunitiesFound)
	}
	if got := ledger.arbCount(); got != 1 {
		t.Fatalf("recorded arbs = %d, want 1", got)
	}

	ledger.mu.Lock()
	rec := ledger.arbs[0]
	ledger.mu.Unlock()
	if rec.ID == "" {
		t.Error("record has empty ID")
	}
	if rec.EventName != "Miami Heat @ Boston Celtics" {
		t.Errorf("EventName = %q", rec.EventName)
	}
	if !rec.Opportunity.Edge.IsPositive() {
		t.Errorf("edge = %s, want positive", rec.Opportunity.Edge)
	}
	if len(bus.published[ChannelOpportunities]) != 1 {
		t.Errorf("bus publishes = %d, want 1", len(bus.published[ChannelOpportunities]))
	}
}

func TestRunPassSkipsOutsideWindow(t *testing.T) {
	past := time.Now().UTC().Add(-48 * time.Hour)
	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{arbEvent("ev1", past)}},
	}}
	ledger := &memLedger{}
	orch := newTestOrchestrator(feed, ledger, nil)

	counters, err := orch.RunPass(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if counters.SkippedWindow != 1 {
		t.Errorf("SkippedWindow = %d, want 1", counters.SkippedWindow)
	}
	if counters.EventsConsidered != 0 || counters.OpportunitiesFound != 0 {
		t.Errorf("considered=%d found=%d, want 0/0", counters.EventsConsidered, counters.OpportunitiesFound)
	}
}

func TestRunPassSkipsMalformedEvents(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	noTime := arbEvent("ev1", commence)
	noTime.CommenceTime = "yesterday"
	noID := arbEvent("", commence)

	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{noTime, noID}},
	}}
	orch := newTestOrchestrator(feed, &memLedger{}, nil)

	counters, err := orch.RunPass(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if counters.SkippedNoTime != 1 || counters.SkippedNoID != 1 {
		t.Errorf("SkippedNoTime=%d SkippedNoID=%d, want 1/1", counters.SkippedNoTime, counters.SkippedNoID)
	}
}

func TestRunPassSportIsolation(t *testing.T) {
	feed := &fakeFeed{oddsErr: errors.New("upstream down")}
	ledger := &memLedger{}
	orch := newTestOrchestrator(feed, ledger, nil)

	cfg := testConfig()
	cfg.Sports = []string{"basketball_nba", "icehockey_nhl"}

	if _, err := orch.RunPass(context.Background(), cfg); err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if feed.oddsCalls != 2 {
		t.Errorf("odds calls = %d, want 2 (failure must not abort the pass)", feed.oddsCalls)
	}
}

// Deep markets the feed never answers for get negative-cached, so the next
// pass skips the per-event fetch entirely.
func TestRunPassNegativeCachesMissingDeepMarkets(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	ev := arbEvent("ev1", commence)
	feed := &fakeFeed{
		odds: map[string]domain.OddsSnapshot{
			"basketball_nba": {Events: []domain.Event{ev}},
		},
		// The per-event response carries only the primary market, never the
		// requested player_points.
		eventOdds: map[string]domain.OddsSnapshot{
			"basketball_nba/ev1": {Events: []domain.Event{ev}},
		},
	}
	ledger := &memLedger{}
	orch := newTestOrchestrator(feed, ledger, nil)

	cfg := testConfig()
	cfg.DeepMarkets = []string{"player_points"}

	ctx := context.Background()
	if _, err := orch.RunPass(ctx, cfg); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if feed.eventOddsCalls != 1 {
		t.Fatalf("eventOddsCalls after first pass = %d, want 1", feed.eventOddsCalls)
	}

	if _, err := orch.RunPass(ctx, cfg); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if feed.eventOddsCalls != 1 {
		t.Errorf("eventOddsCalls after second pass = %d, want still 1", feed.eventOddsCalls)
	}
}

// An outright deep fetch failure marks every requested deep market, so the
// next pass does not spend another per-event request on them.
func TestRunPassDeepFetchFailureDisablesMarkets(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{
		odds: map[string]domain.OddsSnapshot{
			"basketball_nba": {Events: []domain.Event{arbEvent("ev1", commence)}},
		},
		eventOddsErr: errors.New("upstream down"),
	}
	orch := newTestOrchestrator(feed, &memLedger{}, nil)

	cfg := testConfig()
	cfg.DeepMarkets = []string{"player_points"}

	ctx := context.Background()
	if _, err := orch.RunPass(ctx, cfg); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if feed.eventOddsCalls != 1 {
		t.Fatalf("eventOddsCalls after first pass = %d, want 1", feed.eventOddsCalls)
	}

	if _, err := orch.RunPass(ctx, cfg); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if feed.eventOddsCalls != 1 {
		t.Errorf("eventOddsCalls after second pass = %d, want still 1", feed.eventOddsCalls)
	}
	if got := orch.tracker.SupportedDeepMarkets(ctx, "basketball_nba", []string{"player_points"}); len(got) != 0 {
		t.Errorf("SupportedDeepMarkets = %v, want empty after failed fetch", got)
	}
}

// Markets the feed volunteers beyond the configured primaries and allowed
// deep set are neither ledgered nor evaluated.
func TestRunPassDropsUnrequestedMarkets(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	ev := arbEvent("ev1", commence)
	for i := range ev.Bookmakers {
		ev.Bookmakers[i].Markets = append(ev.Bookmakers[i].Markets, domain.MarketOdds{
			Key: "spreads",
			Outcomes: []domain.RawOutcome{
				{Name: "Boston Celtics", Price: -110},
				{Name: "Miami Heat", Price: 120},
			},
		})
	}

	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{ev}},
	}}
	ledger := &memLedger{}
	orch := newTestOrchestrator(feed, ledger, nil)

	counters, err := orch.RunPass(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if counters.MarketsEvaluated != 1 {
		t.Errorf("MarketsEvaluated = %d, want 1 (spreads is not configured)", counters.MarketsEvaluated)
	}
	ledger.mu.Lock()
	quotes := ledger.quotes
	ledger.mu.Unlock()
	if quotes != 2 {
		t.Errorf("quote records = %d, want 2 (h2h from each book only)", quotes)
	}
}

func TestRunPassMinBookCount(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	ev := arbEvent("ev1", commence)
	ev.Bookmakers = ev.Bookmakers[:1] // one book only

	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{ev}},
	}}
	orch := newTestOrchestrator(feed, &memLedger{}, nil)

	counters, err := orch.RunPass(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if counters.OpportunitiesFound != 0 {
		t.Errorf("OpportunitiesFound = %d, want 0 with a single book", counters.OpportunitiesFound)
	}
}

func TestRescanStatuses(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	good := arbEvent("ev1", commence)

	vigged := arbEvent("ev2", commence)
	for i := range vigged.Bookmakers {
		for j := range vigged.Bookmakers[i].Markets[0].Outcomes {
			vigged.Bookmakers[i].Markets[0].Outcomes[j].Price = -110
		}
	}

	noQuotes := domain.Event{
		ID:           "ev3",
		CommenceTime: commence.Format(time.RFC3339),
		HomeTeam:     "A",
		AwayTeam:     "B",
	}

	feed := &fakeFeed{eventOdds: map[string]domain.OddsSnapshot{
		"basketball_nba/ev1": {Events: []domain.Event{good}},
		"basketball_nba/ev2": {Events: []domain.Event{vigged}},
		"basketball_nba/ev3": {Events: []domain.Event{noQuotes}},
	}}
	ledger := &memLedger{}
	svc := NewRescanService(newTestOrchestrator(feed, ledger, nil), discard())
	cfg := testConfig()

	tests := []struct {
		eventID string
		want    domain.RescanStatus
	}{
		{"ev1", domain.RescanArbitrage},
		{"ev2", domain.RescanNoArbitrage},
		{"ev3", domain.RescanNoQuotes},
		{"missing", domain.RescanEventNotFound},
	}
	for _, tc := range tests {
		res, err := svc.Rescan(context.Background(), cfg, "basketball_nba", tc.eventID, "h2h")
		if err != nil {
			t.Fatalf("Rescan(%s): %v", tc.eventID, err)
		}
		if res.Status != tc.want {
			t.Errorf("Rescan(%s) status = %s, want %s", tc.eventID, res.Status, tc.want)
		}
	}

	if got := ledger.arbCount(); got != 1 {
		t.Errorf("recorded arbs = %d, want 1 (only ev1)", got)
	}
}

// A rescan on an event outside the window still runs detection; the window
// only shows up as an informational flag.
func TestRescanIgnoresWindow(t *testing.T) {
	past := time.Now().UTC().Add(-48 * time.Hour)
	feed := &fakeFeed{eventOdds: map[string]domain.OddsSnapshot{
		"basketball_nba/ev1": {Events: []domain.Event{arbEvent("ev1", past)}},
	}}
	svc := NewRescanService(newTestOrchestrator(feed, &memLedger{}, nil), discard())

	res, err := svc.Rescan(context.Background(), testConfig(), "basketball_nba", "ev1", "h2h")
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if res.WithinWindow {
		t.Error("WithinWindow = true, want false")
	}
	if res.Status != domain.RescanArbitrage {
		t.Errorf("status = %s, want %s", res.Status, domain.RescanArbitrage)
	}
}

// A located event gets a fresh snapshot in the ledger, same as the scheduled
// loop; a miss records nothing.
func TestRescanRecordsEventSnapshot(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{eventOdds: map[string]domain.OddsSnapshot{
		"basketball_nba/ev1": {Events: []domain.Event{arbEvent("ev1", commence)}},
	}}
	ledger := &memLedger{}
	svc := NewRescanService(newTestOrchestrator(feed, ledger, nil), discard())

	if _, err := svc.Rescan(context.Background(), testConfig(), "basketball_nba", "ev1", "h2h"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if ids := ledger.eventIDs(); len(ids) != 1 || ids[0] != "ev1" {
		t.Errorf("recorded events = %v, want [ev1]", ids)
	}

	if _, err := svc.Rescan(context.Background(), testConfig(), "basketball_nba", "missing", "h2h"); err != nil {
		t.Fatalf("Rescan(missing): %v", err)
	}
	if ids := ledger.eventIDs(); len(ids) != 1 {
		t.Errorf("recorded events after miss = %v, want still one", ids)
	}
}

func TestRescanDeepMarketsUnion(t *testing.T) {
	cfg := testConfig()
	cfg.DeepMarkets = []string{"totals"}
	cfg.DeepBySport = map[string][]string{"basketball_nba": {"player_points", "totals"}}

	got := rescanDeepMarkets(cfg, "basketball_nba", "alternate_spreads")
	want := []string{"totals", "player_points", "alternate_spreads"}
	if len(got) != len(want) {
		t.Fatalf("rescanDeepMarkets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rescanDeepMarkets = %v, want %v", got, want)
		}
	}

	// A primary target market is not added to the deep list.
	got = rescanDeepMarkets(cfg, "basketball_nba", "h2h")
	if len(got) != 2 || got[0] != "totals" || got[1] != "player_points" {
		t.Fatalf("rescanDeepMarkets with primary target = %v", got)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{arbEvent("ev1", commence)}},
	}}
	ledger := &memLedger{}
	sched := NewScheduler(newTestOrchestrator(feed, ledger, nil), discard())

	cfg := testConfig()
	cfg.Schedule.Interval = 5 * time.Millisecond

	ctx := context.Background()
	if err := sched.Start(ctx, cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sched.Running() {
		t.Fatal("Running() = false after Start")
	}
	if err := sched.Start(ctx, cfg); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}

	// Let at least one pass land.
	deadline := time.Now().Add(2 * time.Second)
	for sched.Status().Passes == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if sched.Status().Passes == 0 {
		t.Fatal("no pass completed before deadline")
	}

	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sched.Running() {
		t.Error("Running() = true after Stop")
	}
	if err := sched.Stop(ctx); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("second Stop = %v, want ErrNotRunning", err)
	}

	// Restart works after a clean stop.
	if err := sched.Start(ctx, cfg); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("stop after restart: %v", err)
	}
}

func TestRemainingWait(t *testing.T) {
	tests := []struct {
		interval, elapsed, want time.Duration
	}{
		{time.Minute, 0, time.Minute},
		{200 * time.Millisecond, 150 * time.Millisecond, 50 * time.Millisecond},
		{time.Second, time.Second, 0},
		{time.Second, 3 * time.Second, 0},
	}
	for _, tc := range tests {
		if got := remainingWait(tc.interval, tc.elapsed); got != tc.want {
			t.Errorf("remainingWait(%s, %s) = %s, want %s", tc.interval, tc.elapsed, got, tc.want)
		}
	}
}

// The interval is pass-start to pass-start: a slow pass eats into the sleep
// instead of stretching the cadence.
func TestSchedulerAbsorbsPassDuration(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{
		odds: map[string]domain.OddsSnapshot{
			"basketball_nba": {Events: []domain.Event{arbEvent("ev1", commence)}},
		},
		oddsDelay: 50 * time.Millisecond,
	}
	sched := NewScheduler(newTestOrchestrator(feed, &memLedger{}, nil), discard())

	cfg := testConfig()
	cfg.Schedule.Interval = 50 * time.Millisecond

	ctx := context.Background()
	if err := sched.Start(ctx, cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		feed.mu.Lock()
		n := len(feed.oddsAt)
		feed.mu.Unlock()
		if n >= 4 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	feed.mu.Lock()
	starts := append([]time.Time(nil), feed.oddsAt...)
	feed.mu.Unlock()
	if len(starts) < 4 {
		t.Fatalf("only %d passes before deadline", len(starts))
	}

	// Three gaps at ~interval each; sleeping the full interval on top of the
	// 50ms pass would take ~300ms.
	if span := starts[3].Sub(starts[0]); span > 230*time.Millisecond {
		t.Errorf("three pass-to-pass gaps took %s, want about 150ms", span)
	}
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	sched := NewScheduler(newTestOrchestrator(&fakeFeed{}, &memLedger{}, nil), discard())
	cfg := testConfig()
	cfg.Schedule.Interval = 0
	if err := sched.Start(context.Background(), cfg); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("Start = %v, want ErrInvalidConfig", err)
	}
}

func TestRunSnapshot(t *testing.T) {
	commence := time.Now().UTC().Add(2 * time.Hour)
	feed := &fakeFeed{odds: map[string]domain.OddsSnapshot{
		"basketball_nba": {Events: []domain.Event{arbEvent("ev1", commence)}},
	}}
	sched := NewScheduler(newTestOrchestrator(feed, &memLedger{}, nil), discard())

	counters, err := sched.RunSnapshot(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("RunSnapshot: %v", err)
	}
	if counters.OpportunitiesFound != 1 {
		t.Errorf("OpportunitiesFound = %d, want 1", counters.OpportunitiesFound)
	}
	st := sched.Status()
	if st.Passes != 1 || st.State != StateIdle {
		t.Errorf("Status = %+v, want 1 pass, idle", st)
	}
}

func TestNextIntervalBurst(t *testing.T) {
	orch := newTestOrchestrator(&fakeFeed{}, &memLedger{}, nil)
	sched := NewScheduler(orch, discard())

	cfg := testConfig()
	cfg.Mode = domain.ModeBurst
	cfg.Schedule = domain.ScanSchedule{
		Interval:      time.Minute,
		BurstInterval: 5 * time.Second,
		BurstWindow:   30 * time.Minute,
	}

	// No pass yet: nothing known, normal interval.
	if got := sched.nextInterval(cfg); got != time.Minute {
		t.Errorf("interval = %s, want 1m before any pass", got)
	}

	orch.mu.Lock()
	orch.nearest, orch.nearestKnown = time.Now().Add(10*time.Minute), true
	orch.mu.Unlock()
	if got := sched.nextInterval(cfg); got != 5*time.Second {
		t.Errorf("interval = %s, want burst with commence 10m out", got)
	}

	orch.mu.Lock()
	orch.nearest = time.Now().Add(2 * time.Hour)
	orch.mu.Unlock()
	if got := sched.nextInterval(cfg); got != time.Minute {
		t.Errorf("interval = %s, want normal with commence 2h out", got)
	}
}
