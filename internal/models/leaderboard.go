package models

// LeaderboardEntry is one ranked row of an aggregated leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Awards int    `json:"awards"`
}
