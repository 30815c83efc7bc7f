package models

// TeamStatTotals aggregates the six counters across one team's roster.
// Points counts everything except errors.
type TeamStatTotals struct {
	Kills   int `json:"kills"`
	Assists int `json:"assists"`
	Digs    int `json:"digs"`
	Blocks  int `json:"blocks"`
	Aces    int `json:"aces"`
	Errors  int `json:"errors"`
	Points  int `json:"points"`
}

type SetLine struct {
	SetNumber int  `json:"setNumber"`
	HomeScore int  `json:"homeScore"`
	AwayScore int  `json:"awayScore"`
	Completed bool `json:"completed"`
}

// MatchSummary is the read-side view of a finished or in-progress match.
type MatchSummary struct {
	Game    *Match         `json:"game"`
	Home    TeamStatTotals `json:"home"`
	Away    TeamStatTotals `json:"away"`
	Sets    []SetLine      `json:"sets"`
	Players []*Player      `json:"players"`
}
