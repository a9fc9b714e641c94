package handler

import (
	"net/http"

	"github.com/AccelByte/extend-countdown-challenge/pkg/common"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
)

// HistoryResponse is the body of GET /api/history
type HistoryResponse struct {
	Total   int                `json:"total"`
	Entries []state.ScoreEntry `json:"entries"`
	Lines   []string           `json:"lines"`
}

// GetStatus returns the countdown snapshot and the minigame session
func (a *API) GetStatus(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromRequest(r, "API.GetStatus")
	defer scope.Finish()

	status, err := a.tracker.Status()
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to read status: %v", err)
		Error(w, statusFor(err), err.Error())
		return
	}

	scope.SetAttributes("countdown.days_left", status.DaysLeft)
	JSON(w, http.StatusOK, status)
}

// GetHistory returns the score history, newest first
func (a *API) GetHistory(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromRequest(r, "API.GetHistory")
	defer scope.Finish()

	entries, err := a.tracker.History()
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to read history: %v", err)
		Error(w, statusFor(err), err.Error())
		return
	}

	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = countdown.FormatEntry(entry)
	}

	JSON(w, http.StatusOK, HistoryResponse{
		Total:   countdown.SumPoints(entries),
		Entries: entries,
		Lines:   lines,
	})
}
