package main

import (
	"net/http"

	"github.com/hverbeek/esm_postproc/internal/response"
	"github.com/hverbeek/esm_postproc/internal/store"
)

type GetPricesResponse = response.APIResponse[[]store.PriceRecord]

// @Summary		Processed prices
// @Description	returns per-timestep prices for hub and consumer balances
// @Tags			Prices
// @Produce		json
// @Param			balance_type	query	string	false	"hub or consumer"
// @Param			assets			query	string	false	"comma-separated asset names"
// @Param			years			query	string	false	"comma-separated milestone years"
// @Param			rep_periods		query	string	false	"comma-separated representative periods"
// @Success		200	{object}	GetPricesResponse
// @Router			/prices [get]
func (app *application) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	filter, ok := app.priceFilterFromQuery(w, r)
	if !ok {
		return
	}

	records, err := app.store.Prices.Get(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := GetPricesResponse{
		Success: true,
		Data:    records,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) priceFilterFromQuery(w http.ResponseWriter, r *http.Request) (store.PriceFilter, bool) {
	q := r.URL.Query()

	balanceType := q.Get("balance_type")
	if balanceType != "" && balanceType != "hub" && balanceType != "consumer" {
		writeJSONError(w, http.StatusBadRequest, "balance_type must be 'hub' or 'consumer'")
		return store.PriceFilter{}, false
	}

	years, err := parseIntListParam(q.Get("years"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "years: "+err.Error())
		return store.PriceFilter{}, false
	}
	repPeriods, err := parseIntListParam(q.Get("rep_periods"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "rep_periods: "+err.Error())
		return store.PriceFilter{}, false
	}

	return store.PriceFilter{
		BalanceType: balanceType,
		Assets:      parseListParam(q.Get("assets")),
		Years:       years,
		RepPeriods:  repPeriods,
	}, true
}
