package main

import (
	"net/http"

	"github.com/hverbeek/esm_postproc/internal/response"
	"github.com/hverbeek/esm_postproc/internal/store"
)

type GetBalanceResponse = response.APIResponse[[]store.BalanceRecord]

// @Summary		Zone balance
// @Description	returns the signed per-technology balance of each bidding zone
// @Tags			Balance
// @Produce		json
// @Param			bidding_zones	query	string	false	"comma-separated bidding zones"
// @Param			years			query	string	false	"comma-separated milestone years"
// @Param			rep_periods		query	string	false	"comma-separated representative periods"
// @Success		200	{object}	GetBalanceResponse
// @Router			/balance [get]
func (app *application) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

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

	filter := store.BalanceFilter{
		BiddingZones: parseListParam(q.Get("bidding_zones")),
		Years:        years,
		RepPeriods:   repPeriods,
	}

	records, err := app.store.Balance.Get(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := GetBalanceResponse{
		Success: true,
		Data:    records,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
