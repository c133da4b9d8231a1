package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"example.com/bagels/internal/birthday"
	"example.com/bagels/internal/simulate"
)

type Simulator interface {
	Run(ctx context.Context, req simulate.Request) (simulate.Report, error)
}

// SimulateHandler serves POST /api/birthday/simulate.
type SimulateHandler struct {
	Sim Simulator
	Log *slog.Logger
}

func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	var req simulate.Request
	if !decodeBody(w, r, &req) {
		return
	}

	rep, err := h.Sim.Run(r.Context(), req)
	switch {
	case errors.Is(err, birthday.ErrInvalidCount):
		writeError(w, http.StatusBadRequest, "bad_count", err.Error())
		return
	case errors.Is(err, context.Canceled):
		// client went away
		return
	case err != nil:
		if h.Log != nil {
			h.Log.Error("birthday simulation", "count", req.Count, "err", err)
		}
		writeError(w, http.StatusInternalServerError, "internal", "simulation failed")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
