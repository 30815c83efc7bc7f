package models

import "time"

type TeamSide string

const (
	TeamHome TeamSide = "home"
	TeamAway TeamSide = "away"
)

func (t TeamSide) Valid() bool {
	return t == TeamHome || t == TeamAway
}

// SetRecord is one finished set. Records are append-only: once a set is
// written its scores never change, except when an undo rolls the whole
// match back to an earlier snapshot.
type SetRecord struct {
	HomeScore int  `json:"homeScore"`
	AwayScore int  `json:"awayScore"`
	Completed bool `json:"completed"`
}

// Match is the scoreboard for one best-of-five contest. HomeScore and
// AwayScore hold the running point count of the set in progress; Sets holds
// the finished sets in chronological order. len(Sets) is always at most
// CurrentSet.
type Match struct {
	ID           string      `json:"id"`
	HomeTeamName string      `json:"homeTeamName"`
	AwayTeamName string      `json:"awayTeamName"`
	CurrentSet   int         `json:"currentSet"`
	HomeScore    int         `json:"homeScore"`
	AwayScore    int         `json:"awayScore"`
	Sets         []SetRecord `json:"sets"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
}
