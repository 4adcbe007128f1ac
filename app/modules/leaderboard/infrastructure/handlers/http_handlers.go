package leaderboardhandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/export"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
)

// LeaderboardResponse is the body of GET /api/leaderboard.
type LeaderboardResponse struct {
	Info     leaderboardservice.Info     `json:"info"`
	Snapshot leaderboardservice.Snapshot `json:"snapshot"`
}

// RefreshResponse is the body of POST /api/leaderboard/refresh.
type RefreshResponse struct {
	Outcome leaderboardservice.UpdateOutcome `json:"outcome,omitempty"`
	Error   string                           `json:"error,omitempty"`
}

func (h *LeaderboardHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetLeaderboard")
	defer span.End()

	writeJSON(w, http.StatusOK, LeaderboardResponse{
		Info:     h.service.Info(),
		Snapshot: h.service.Snapshot(),
	})
}

func (h *LeaderboardHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := attr.WithCorrelationID(r.Context(), r.Header.Get("X-Correlation-ID"))
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleRefresh")
	defer span.End()

	outcome, err := h.service.ForceUpdate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "Manual refresh failed",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, RefreshResponse{Error: "failed to fetch leaderboard"})
		return
	}

	h.logger.InfoContext(ctx, "Manual refresh completed",
		attr.ExtractCorrelationID(ctx),
		attr.String("outcome", string(outcome)),
	)
	writeJSON(w, http.StatusAccepted, RefreshResponse{Outcome: outcome})
}

func (h *LeaderboardHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleChart")
	defer span.End()

	img, err := leaderboardservice.GenerateStandingsChart(h.service.Snapshot().Players, h.palette)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render standings chart", attr.Error(err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleExport")
	defer span.End()

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, h.service.Snapshot()); err != nil {
		h.logger.ErrorContext(ctx, "Failed to export leaderboard", attr.Error(err))
		http.Error(w, "failed to export leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="pga-leaderboard.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *LeaderboardHandlers) HandleFrame(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleFrame")
	defer span.End()

	if h.frames == nil {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}

	img, err := h.frames.PNG()
	switch {
	case errors.Is(err, matrix.ErrNoFrame):
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "Failed to encode frame", attr.Error(err))
		http.Error(w, "failed to encode frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
