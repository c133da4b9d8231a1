package game

import (
	"encoding/json"

	"example.com/bagels/internal/bagels"
)

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubmitGuessPayload incoming
type SubmitGuessPayload struct {
	Guess string `json:"guess"`
}

// RoundStartedPayload outgoing
type RoundStartedPayload struct {
	Round      int   `json:"round"`
	Digits     int   `json:"digits"`
	MaxGuesses int   `json:"maxGuesses"`
	DeadlineMs int64 `json:"deadlineMs"`
}

// GuessItem is one used attempt. A missed attempt (the guess timer ran
// out) has no guess, verdict, clues or text.
type GuessItem struct {
	Attempt int             `json:"attempt"`
	Guess   *string         `json:"guess"`
	Verdict *bagels.Verdict `json:"verdict,omitempty"`
	Clues   []bagels.Clue   `json:"clues,omitempty"`
	Text    string          `json:"text,omitempty"`
	Missed  bool            `json:"missed"`
}

type RoundFinishedPayload struct {
	Round   int    `json:"round"`
	Outcome string `json:"outcome"` // won|out_of_guesses
	Secret  string `json:"secret"`
	Guesses int    `json:"guesses"`
}

type Series struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type StatePayload struct {
	GameID         string      `json:"gameId"`
	PlayerName     string      `json:"playerName"`
	Connected      bool        `json:"connected"`
	Phase          string      `json:"phase"` // awaiting_guess|won|out_of_guesses
	Round          int         `json:"round"`
	Attempt        int         `json:"attempt"`
	MaxGuesses     int         `json:"maxGuesses"`
	DeadlineMs     int64       `json:"deadlineMs"`
	History        []GuessItem `json:"history"`
	Series         Series      `json:"series"`
	RevealedSecret string      `json:"revealedSecret,omitempty"` // only once the round is over
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoundOutcome is handed to the finish hook when a round ends.
type RoundOutcome struct {
	GameID   string
	PlayerID string
	Won      bool
	Guesses  int
}
