package main

import (
	"net/http"
	"strconv"

	"github.com/hverbeek/esm_postproc/internal/response"
	"github.com/hverbeek/esm_postproc/internal/store"
)

type GetRunsResponse = response.APIResponse[[]store.PipelineRun]

// @Summary		Pipeline runs
// @Description	returns the most recent post-processing runs
// @Tags			Runs
// @Produce		json
// @Param			limit	query	int	false	"maximum number of runs, default 20"
// @Success		200	{object}	GetRunsResponse
// @Router			/runs [get]
func (app *application) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := app.store.Runs.GetLatest(r.Context(), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := GetRunsResponse{
		Success: true,
		Data:    runs,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
