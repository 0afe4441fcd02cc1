package domain

import (
	"encoding/json"
	"math"
)

// MemoryState is the FSRS stability/difficulty pair tracked per card.
// NaN marks an absent value; cards never touched by FSRS have neither.
type MemoryState struct {
	Stability  float64
	Difficulty float64
}

// EmptyMemoryState is the absent marker for both fields.
func EmptyMemoryState() MemoryState {
	return MemoryState{Stability: math.NaN(), Difficulty: math.NaN()}
}

// HasStability reports whether a stability value is recorded.
func (m MemoryState) HasStability() bool {
	return !math.IsNaN(m.Stability)
}

// HasDifficulty reports whether a difficulty value is recorded.
func (m MemoryState) HasDifficulty() bool {
	return !math.IsNaN(m.Difficulty)
}

// ParseMemoryState extracts the FSRS state from a card's data blob. The
// blob is free-form JSON with stability under "s" and difficulty under
// "d"; an empty or unparsable blob means no recorded state, never an
// error.
func ParseMemoryState(data string) MemoryState {
	state := EmptyMemoryState()
	if data == "" {
		return state
	}

	var payload struct {
		Stability  *float64 `json:"s"`
		Difficulty *float64 `json:"d"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return state
	}

	if payload.Stability != nil {
		state.Stability = *payload.Stability
	}
	if payload.Difficulty != nil {
		state.Difficulty = *payload.Difficulty
	}
	return state
}
