package markets

import "strings"

// Static fallback lists of deep markets by sport group. The live market-list
// endpoint is authoritative, but it costs quota and can fail; these lists let
// operators configure scans without a round trip.
var genericDeepMarkets = []string{
	"alternate_spreads",
	"alternate_totals",
	"first_half_spreads",
	"first_half_totals",
	"first_quarter_spreads",
	"first_quarter_totals",
	"second_half_spreads",
	"second_half_totals",
	"team_totals",
}

var deepMarketsByGroup = map[string][]string{
	"basketball": append([]string{
		"player_points",
		"player_rebounds",
		"player_assists",
		"player_points_rebounds_assists",
		"player_threes",
		"player_steals",
		"player_blocks",
		"player_turnovers",
	}, genericDeepMarkets...),
	"americanfootball": {
		"player_pass_yards",
		"player_pass_tds",
		"player_rush_yards",
		"player_rush_attempts",
		"player_receiving_yards",
		"player_receptions",
		"player_anytime_td",
		"player_first_td",
		"alternate_spreads",
		"alternate_totals",
		"team_totals",
	},
	"baseball": {
		"alternate_run_lines",
		"alternate_totals",
		"player_total_bases",
		"player_strikeouts",
		"player_hits",
		"player_runs",
		"player_rbis",
		"player_hits_runs_rbis",
	},
	"icehockey": {
		"alternate_puck_lines",
		"alternate_totals",
		"player_points",
		"player_assists",
		"player_goals",
		"player_shots_on_goal",
		"player_power_play_points",
		"team_totals",
	},
	"soccer": {
		"both_teams_to_score",
		"double_chance",
		"draw_no_bet",
		"correct_score",
		"asian_handicap",
		"team_totals",
		"first_half_result",
		"total_goals",
	},
	"tennis": {
		"set_betting",
		"correct_score",
		"total_sets",
		"total_games",
		"handicap_games",
		"first_set_winner",
	},
	"golf": {
		"tournament_winner",
		"top_5_finish",
		"top_10_finish",
		"matchups",
	},
	"mma": {
		"winning_method",
		"fight_goes_distance",
		"round_totals",
	},
	"boxing": {
		"winning_method",
		"fight_goes_distance",
		"round_totals",
	},
	"esports": {
		"match_correct_score",
		"map_handicap",
		"map_totals",
	},
}

// FallbackDeepMarkets returns the static deep-market list for a sport key.
// The key's group prefix (everything before the first underscore) is matched
// when the full key is unknown; sports with no group entry get the generic
// list.
func FallbackDeepMarkets(sportKey string) []string {
	if sportKey == "" {
		return nil
	}
	if m, ok := deepMarketsByGroup[sportKey]; ok {
		return append([]string(nil), m...)
	}
	prefix, _, _ := strings.Cut(sportKey, "_")
	if m, ok := deepMarketsByGroup[prefix]; ok {
		return append([]string(nil), m...)
	}
	return append([]string(nil), genericDeepMarkets...)
}
