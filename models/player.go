package models

type StatType string

const (
	StatKills   StatType = "kills"
	StatAssists StatType = "assists"
	StatDigs    StatType = "digs"
	StatBlocks  StatType = "blocks"
	StatAces    StatType = "aces"
	StatErrors  StatType = "errors"
)

// AllStatTypes lists the six counters in their canonical display order.
var AllStatTypes = []StatType{StatKills, StatAssists, StatDigs, StatBlocks, StatAces, StatErrors}

func (s StatType) Valid() bool {
	for _, t := range AllStatTypes {
		if s == t {
			return true
		}
	}
	return false
}

type Player struct {
	ID           string   `json:"id"`
	GameID       string   `json:"gameId"`
	TeamType     TeamSide `json:"teamType"`
	JerseyNumber int      `json:"jerseyNumber"`
	Name         string   `json:"name"`
	Position     string   `json:"position"`
	Kills        int      `json:"kills"`
	Assists      int      `json:"assists"`
	Digs         int      `json:"digs"`
	Blocks       int      `json:"blocks"`
	Aces         int      `json:"aces"`
	Errors       int      `json:"errors"`
}

// Stat returns the counter for the given stat type, 0 for an unknown type.
func (p *Player) Stat(t StatType) int {
	switch t {
	case StatKills:
		return p.Kills
	case StatAssists:
		return p.Assists
	case StatDigs:
		return p.Digs
	case StatBlocks:
		return p.Blocks
	case StatAces:
		return p.Aces
	case StatErrors:
		return p.Errors
	}
	return 0
}

// SetStat overwrites the counter for the given stat type. Unknown types are
// ignored; callers validate with StatType.Valid first.
func (p *Player) SetStat(t StatType, value int) {
	switch t {
	case StatKills:
		p.Kills = value
	case StatAssists:
		p.Assists = value
	case StatDigs:
		p.Digs = value
	case StatBlocks:
		p.Blocks = value
	case StatAces:
		p.Aces = value
	case StatErrors:
		p.Errors = value
	}
}
