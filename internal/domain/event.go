package domain

import "time"

// Event is an upcoming fixture as returned by the odds feed, together with the
// per-bookmaker odds payload. The JSON tags mirror The Odds API v4 wire
// format so the feed client can decode responses directly.
type Event struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title,omitempty"`
	CommenceTime string          `json:"commence_time"`
	HomeTeam     string          `json:"home_team,omitempty"`
	AwayTeam     string          `json:"away_team,omitempty"`
	Bookmakers   []BookmakerOdds `json:"bookmakers,omitempty"`
}

// BookmakerOdds is one bookmaker's markets for an event.
type BookmakerOdds struct {
	Key     string       `json:"key"`
	Title   string       `json:"title,omitempty"`
	Markets []MarketOdds `json:"markets,omitempty"`
}

// MarketOdds is one market's outcomes as quoted by a single bookmaker.
type MarketOdds struct {
	Key      string       `json:"key"`
	Outcomes []RawOutcome `json:"outcomes,omitempty"`
}

// RawOutcome is a single priced outcome as it arrives off the wire. Price is
// declared as float64 because some feeds serialize american odds with a
// fractional part; it is truncated to an integer during quote collection.
type RawOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Name returns a human-readable title for the event: "Away @ Home" when both
// teams are known, otherwise the sport title or the event ID.
func (e Event) Name() string {
	if e.HomeTeam != "" && e.AwayTeam != "" {
		return e.AwayTeam + " @ " + e.HomeTeam
	}
	if e.SportTitle != "" {
		return e.SportTitle
	}
	return e.ID
}

// Commence parses the event's commence time. The feed emits RFC 3339
// timestamps; anything else yields ok=false and the event is skipped.
func (e Event) Commence() (time.Time, bool) {
	if e.CommenceTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, e.CommenceTime)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
