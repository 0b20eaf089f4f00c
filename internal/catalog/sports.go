package catalog

// Sport describes one sport key of the odds provider.
type Sport struct {
	Key   string
	Group string
	Title string
}

var allSports = []Sport{
	{"americanfootball_cfl", "American Football", "CFL"},
	{"americanfootball_ncaaf", "American Football", "NCAAF"},
	{"americanfootball_nfl", "American Football", "NFL"},
	{"americanfootball_nfl_super_bowl_winner", "American Football", "NFL Super Bowl Winner"},
	{"aussierules_afl", "Aussie Rules", "AFL"},
	{"baseball_kbo", "Baseball", "KBO"},
	{"baseball_mlb", "Baseball", "MLB"},
	{"baseball_npb", "Baseball", "NPB"},
	{"basketball_euroleague", "Basketball", "Basketball Euroleague"},
	{"basketball_nba", "Basketball", "NBA"},
	{"basketball_ncaab", "Basketball", "NCAAB"},
	{"basketball_wnba", "Basketball", "WNBA"},
	{"boxing_boxing", "Boxing", "Boxing"},
	{"cricket_big_bash", "Cricket", "Big Bash"},
	{"cricket_ipl", "Cricket", "IPL"},
	{"cricket_odi", "Cricket", "One Day Internationals"},
	{"cricket_test_match", "Cricket", "Test Matches"},
	{"esports_csgo", "Esports", "CS:GO"},
	{"esports_dota2", "Esports", "Dota 2"},
	{"esports_lol", "Esports", "League of Legends"},
	{"golf_masters_tournament_winner", "Golf", "Masters Tournament Winner"},
	{"golf_pga_championship_winner", "Golf", "PGA Championship Winner"},
	{"golf_the_open_championship_winner", "Golf", "The Open Winner"},
	{"golf_us_open_winner", "Golf", "US Open Winner"},
	{"icehockey_nhl", "Ice Hockey", "NHL"},
	{"icehockey_sweden_hockey_league", "Ice Hockey", "SHL"},
	{"mma_mixed_martial_arts", "Mixed Martial Arts", "MMA"},
	{"rugbyleague_nrl", "Rugby League", "NRL"},
	{"rugbyunion_six_nations", "Rugby Union", "Six Nations"},
	{"soccer_australia_aleague", "Soccer", "A-League"},
	{"soccer_brazil_campeonato", "Soccer", "Brazil Série A"},
	{"soccer_efl_champ", "Soccer", "Championship"},
	{"soccer_england_league1", "Soccer", "League 1"},
	{"soccer_england_league2", "Soccer", "League 2"},
	{"soccer_epl", "Soccer", "EPL"},
	{"soccer_fifa_world_cup", "Soccer", "FIFA World Cup"},
	{"soccer_france_ligue_one", "Soccer", "Ligue 1"},
	{"soccer_germany_bundesliga", "Soccer", "Bundesliga"},
	{"soccer_italy_serie_a", "Soccer", "Serie A"},
	{"soccer_japan_j_league", "Soccer", "J League"},
	{"soccer_mexico_ligamx", "Soccer", "Liga MX"},
	{"soccer_netherlands_eredivisie", "Soccer", "Eredivisie"},
	{"soccer_portugal_primeira_liga", "Soccer", "Primeira Liga"},
	{"soccer_spain_la_liga", "Soccer", "La Liga"},
	{"soccer_uefa_champs_league", "Soccer", "UEFA Champions League"},
	{"soccer_uefa_europa_league", "Soccer", "UEFA Europa League"},
	{"soccer_usa_mls", "Soccer", "MLS"},
	{"tennis_atp_french_open", "Tennis", "ATP French Open"},
	{"tennis_atp_us_open", "Tennis", "ATP US Open"},
	{"tennis_atp_wimbledon", "Tennis", "ATP Wimbledon"},
	{"tennis_wta_us_open", "Tennis", "WTA US Open"},
}

var sportsByKey = func() map[string]Sport {
	m := make(map[string]Sport, len(allSports))
	for _, s := range allSports {
		m[s.Key] = s
	}
	return m
}()

// LookupSport returns the catalog entry for a sport key.
func LookupSport(key string) (Sport, bool) {
	s, ok := sportsByKey[key]
	return s, ok
}

// Sports returns the full sport catalog.
func Sports() []Sport {
	return append([]Sport(nil), allSports...)
}
