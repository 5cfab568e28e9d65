package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/SlotForge_Go/internal/simulation"
)

// ReportSource is the read side of simulation.ReportStore
type ReportSource interface {
	Get(gameID string) (*simulation.Report, bool)
	GetExact(gameID string) (*simulation.ExactReport, bool)
	Games() []string
}

// GameReports bundles both reports of one game
type GameReports struct {
	GameID    string                  `json:"game_id"`
	Simulated *simulation.Report      `json:"simulated,omitempty"`
	Exact     *simulation.ExactReport `json:"exact,omitempty"`
}

// HandleListReports lists the games that have reports
func HandleListReports(source ReportSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: source.Games()})
	}
}

// HandleGetReport returns the reports of the game named by the {game} URL parameter
func HandleGetReport(source ReportSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game")
		out := GameReports{GameID: gameID}
		if rep, ok := source.Get(gameID); ok {
			out.Simulated = rep
		}
		if rep, ok := source.GetExact(gameID); ok {
			out.Exact = rep
		}
		if out.Simulated == nil && out.Exact == nil {
			respondError(w, http.StatusNotFound, ErrMsgReportNotFound)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: out})
	}
}
