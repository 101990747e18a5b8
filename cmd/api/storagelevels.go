package main

import (
	"net/http"

	"github.com/hverbeek/esm_postproc/internal/response"
	"github.com/hverbeek/esm_postproc/internal/store"
)

type GetStorageLevelsResponse = response.APIResponse[[]store.StorageLevelRecord]

// @Summary		Storage levels
// @Description	returns relative state-of-charge series per storage asset
// @Tags			StorageLevels
// @Produce		json
// @Param			scope		query	string	false	"intra or inter"
// @Param			assets		query	string	false	"comma-separated asset names"
// @Param			years		query	string	false	"comma-separated milestone years"
// @Param			rep_periods	query	string	false	"comma-separated representative periods"
// @Success		200	{object}	GetStorageLevelsResponse
// @Router			/storage-levels [get]
func (app *application) handleGetStorageLevels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope := q.Get("scope")
	if scope != "" && scope != store.ScopeIntraPeriod && scope != store.ScopeInterPeriod {
		writeJSONError(w, http.StatusBadRequest, "scope must be 'intra' or 'inter'")
		return
	}

	years, err := parseIntListParam(q.Get("years"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "years: "+err.Error())
		return
	}
	repPeriods, err := parseIntListParam(q.Get("rep_periods"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "rep_periods: "+err.Error())
		return
	}

	filter := store.StorageLevelFilter{
		Scope:      scope,
		Assets:     parseListParam(q.Get("assets")),
		Years:      years,
		RepPeriods: repPeriods,
	}

	records, err := app.store.StorageLevels.Get(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := GetStorageLevelsResponse{
		Success: true,
		Data:    records,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
