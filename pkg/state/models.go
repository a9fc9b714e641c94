// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// PersistedState is the single durable record behind the countdown.
// It is created once on first load and re-persisted after every mutation.
type PersistedState struct {
	StartDate            time.Time    `json:"startDate"`
	CurrentScore         int          `json:"currentScore"`
	LastChallengeDateKey *string      `json:"lastChallengeDateKey"`
	ScoreHistory         []ScoreEntry `json:"scoreHistory"`
}

// ScoreEntry is one point award in the score history ledger.
type ScoreEntry struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// New creates a fresh record whose day 0 is now.
func New(now time.Time) *PersistedState {
	return &PersistedState{
		StartDate:    now,
		CurrentScore: 0,
		ScoreHistory: []ScoreEntry{},
	}
}

// Clone returns a deep copy of the record.
func (s *PersistedState) Clone() *PersistedState {
	if s == nil {
		return nil
	}

	c := *s
	if s.LastChallengeDateKey != nil {
		key := *s.LastChallengeDateKey
		c.LastChallengeDateKey = &key
	}
	c.ScoreHistory = make([]ScoreEntry, len(s.ScoreHistory))
	copy(c.ScoreHistory, s.ScoreHistory)
	return &c
}

// ChallengeDateKey returns the stored calendar-day key, or "" before any attempt.
func (s *PersistedState) ChallengeDateKey() string {
	if s.LastChallengeDateKey == nil {
		return ""
	}
	return *s.LastChallengeDateKey
}

// SetChallengeDateKey records the calendar-day key of a resolved attempt.
func (s *PersistedState) SetChallengeDateKey(key string) {
	s.LastChallengeDateKey = &key
}

// Validate reports whether the record satisfies the ledger invariants.
// Any violation is reported wrapped in ErrCorrupt.
func (s *PersistedState) Validate() error {
	if s.StartDate.IsZero() {
		return fmt.Errorf("%w: missing startDate", ErrCorrupt)
	}
	if s.CurrentScore < 0 {
		return fmt.Errorf("%w: negative currentScore %d", ErrCorrupt, s.CurrentScore)
	}

	sum := 0
	for i, entry := range s.ScoreHistory {
		if entry.Points <= 0 {
			return fmt.Errorf("%w: history entry %d has non-positive points %d", ErrCorrupt, i, entry.Points)
		}
		if entry.Reason == "" {
			return fmt.Errorf("%w: history entry %d has empty reason", ErrCorrupt, i)
		}
		sum += entry.Points
	}

	if sum != s.CurrentScore {
		return fmt.Errorf("%w: currentScore %d does not match history sum %d", ErrCorrupt, s.CurrentScore, sum)
	}

	return nil
}

// UnmarshalJSON accepts startDate either as an ISO-8601 string or as epoch
// milliseconds (number or numeric string). Records written before the key
// was renamed carry it as lastChallengeDate.
func (s *PersistedState) UnmarshalJSON(data []byte) error {
	type alias PersistedState
	aux := struct {
		StartDate         json.RawMessage `json:"startDate"`
		LastChallengeDate *string         `json:"lastChallengeDate"`
		*alias
	}{
		alias: (*alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	startDate, err := parseTimestamp(aux.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate: %w", err)
	}
	s.StartDate = startDate

	if s.LastChallengeDateKey == nil && aux.LastChallengeDate != nil {
		s.LastChallengeDateKey = aux.LastChallengeDate
	}
	if s.ScoreHistory == nil {
		s.ScoreHistory = []ScoreEntry{}
	}
	return nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, err
		}
		if ms, err := strconv.ParseInt(str, 10, 64); err == nil {
			return time.UnixMilli(ms), nil
		}
		return time.Parse(time.RFC3339Nano, str)
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// Decode parses a serialized record and validates it.
// Unparseable or inconsistent data is reported as ErrCorrupt.
func Decode(data []byte) (*PersistedState, error) {
	var st PersistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

// Encode serializes the full record.
func Encode(st *PersistedState) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}
