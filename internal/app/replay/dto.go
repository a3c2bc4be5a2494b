package replay

import "botf2/internal/domain/diplomacy"

type Request struct {
	Civ          diplomacy.CivID
	FromTurn     int
	ToTurn       int
	OccurredFrom int64
	OccurredTo   int64
	Limit        int
}

type Response struct {
	Events []diplomacy.Event `json:"events"`
	// LatestStatus holds the last status the civ recorded toward each
	// counterparty within the listed events.
	LatestStatus map[diplomacy.CivID]string `json:"latest_status"`
}
