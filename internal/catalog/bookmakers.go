// Package catalog holds baked-in reference data for the odds provider:
// sports and bookmakers. The live API is authoritative, but the static lists
// let users configure scans and let the scanner annotate recommendations
// (regions, site URLs) without extra requests.
package catalog

import "strings"

// Bookmaker describes one bookmaker entry of the odds provider.
type Bookmaker struct {
	Key     string
	Title   string
	Regions []string
	URL     string
}

// Entries are sorted alphabetically by key.
var allBookmakers = []Bookmaker{
	{"ballybet", "Bally Bet", []string{"us"}, "https://www.ballybet.com"},
	{"bet365", "bet365", []string{"uk", "us", "au", "eu"}, "https://www.bet365.com"},
	{"betfred", "Betfred", []string{"uk", "us"}, "https://www.betfred.com"},
	{"betmgm", "BetMGM", []string{"us"}, "https://sports.betmgm.com"},
	{"betonlineag", "BetOnline.ag", []string{"us"}, "https://www.betonline.ag"},
	{"betparx", "BetParx", []string{"us"}, "https://www.betparx.com"},
	{"betrivers", "BetRivers", []string{"us", "ca"}, "https://www.betrivers.com"},
	{"betsson", "Betsson", []string{"eu"}, "https://www.betsson.com"},
	{"betus", "BetUS", []string{"us"}, "https://www.betus.com.pa"},
	{"betvictor", "Bet Victor", []string{"uk", "eu"}, "https://www.betvictor.com"},
	{"betway", "Betway", []string{"uk", "eu"}, "https://www.betway.com"},
	{"bovada", "Bovada", []string{"us"}, "https://www.bovada.lv"},
	{"caesars", "Caesars", []string{"us"}, "https://www.caesars.com/sportsbook"},
	{"circasports", "Circa Sports", []string{"us"}, "https://www.circasports.com"},
	{"cloudbet", "Cloudbet", []string{"uk", "eu"}, "https://www.cloudbet.com"},
	{"coolbet", "Coolbet", []string{"eu"}, "https://www.coolbet.com"},
	{"draftkings", "DraftKings", []string{"us", "ca"}, "https://sportsbook.draftkings.com"},
	{"espnbet", "ESPN BET", []string{"us"}, "https://www.espnbet.com"},
	{"fanduel", "FanDuel", []string{"us", "uk", "ca"}, "https://sportsbook.fanduel.com"},
	{"ladbrokes_uk", "Ladbrokes", []string{"uk", "au"}, "https://www.ladbrokes.com"},
	{"lowvig", "LowVig", []string{"us"}, "https://www.lowvig.ag"},
	{"matchbook", "Matchbook", []string{"uk", "eu"}, "https://www.matchbook.com"},
	{"mybookieag", "MyBookie.ag", []string{"us"}, "https://www.mybookie.ag"},
	{"neds", "Neds", []string{"au"}, "https://www.neds.com.au"},
	{"nordicbet", "NordicBet", []string{"eu"}, "https://www.nordicbet.com"},
	{"pinnacle", "Pinnacle", []string{"uk", "eu"}, "https://www.pinnacle.com"},
	{"playup", "PlayUp", []string{"us", "au"}, "https://www.playup.com"},
	{"pointsbetau", "PointsBet AU", []string{"au"}, "https://www.pointsbet.com.au"},
	{"sport888", "888sport", []string{"uk", "eu"}, "https://www.888sport.com"},
	{"sportsbet", "SportsBet", []string{"au"}, "https://www.sportsbet.com.au"},
	{"superbook", "SuperBook", []string{"us"}, "https://www.superbook.com"},
	{"tab", "TAB", []string{"au"}, "https://www.tab.com.au"},
	{"unibet_eu", "Unibet EU", []string{"eu"}, "https://www.unibet.com"},
	{"unibet_uk", "Unibet UK", []string{"uk"}, "https://www.unibet.co.uk"},
	{"unibet_us", "Unibet US", []string{"us"}, "https://www.unibet.us"},
	{"williamhill", "William Hill UK", []string{"uk"}, "https://www.williamhill.com"},
	{"williamhill_us", "Caesars (William Hill US)", []string{"us"}, "https://www.williamhill.com/us"},
	{"windcreek", "Wind Creek", []string{"us"}, "https://www.windcreekcasino.com"},
	{"wynnbet", "WynnBET", []string{"us"}, "https://www.wynnbet.com"},
}

var bookmakersByKey = func() map[string]Bookmaker {
	m := make(map[string]Bookmaker, len(allBookmakers))
	for _, b := range allBookmakers {
		m[b.Key] = b
	}
	return m
}()

// LookupBookmaker returns the catalog entry for a bookmaker key.
func LookupBookmaker(key string) (Bookmaker, bool) {
	b, ok := bookmakersByKey[key]
	return b, ok
}

// Bookmakers returns the full bookmaker catalog.
func Bookmakers() []Bookmaker {
	return append([]Bookmaker(nil), allBookmakers...)
}

// BookmakersByRegion returns bookmakers serving any of the given regions.
// An empty region list returns the full catalog.
func BookmakersByRegion(regions []string) []Bookmaker {
	if len(regions) == 0 {
		return Bookmakers()
	}
	want := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		want[strings.ToLower(r)] = struct{}{}
	}
	var out []Bookmaker
	for _, b := range allBookmakers {
		for _, r := range b.Regions {
			if _, ok := want[r]; ok {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
