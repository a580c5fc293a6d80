package model

import "time"

// State is the durable form of a room. Connection handles are never part
// of it; restored players come back detached.
type State struct {
	ID             string `json:"id"`
	MinPlayers     int    `json:"minPlayers"`
	DiscussionTime int    `json:"discussionTime"`
	GuessingTime   int    `json:"guessingTime"`
	Password       string `json:"password"`

	Phase              uint8 `json:"phase"`
	CurrentRound       int   `json:"currentRound"`
	DiscussionTimeLeft int   `json:"discussionTimeLeft"`
	GuessingTimeLeft   int   `json:"guessingTimeLeft"`

	Suits  []string `json:"suits"`
	Ranks  []string `json:"ranks"`
	JackID string   `json:"jackId"`

	Players    []Player      `json:"players"`
	Eliminated []Elimination `json:"eliminatedPlayers"`

	CreatedAt time.Time `json:"createdAt"`
}

type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Suit         string `json:"suit"`
	Rank         string `json:"rank"`
	IsJack       bool   `json:"isJackOfHearts"`
	Alive        bool   `json:"isAlive"`
	HasGuessed   bool   `json:"hasSubmittedGuess"`
	Guess        string `json:"guess"`
	Disconnected bool   `json:"isDisconnected"`
}

type Elimination struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CorrectSuit string `json:"correctSuit"`
	Guess       string `json:"guess"`
	Reason      string `json:"eliminatedBy"`
	Round       int    `json:"round"`
}
