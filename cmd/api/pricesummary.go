package main

import (
	"net/http"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hverbeek/esm_postproc/internal/postproc/summary"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
	"github.com/hverbeek/esm_postproc/internal/response"
	"github.com/hverbeek/esm_postproc/internal/store"
)

type GetPriceSummaryResponse = response.APIResponse[[]map[string]interface{}]

// @Summary		Price summary
// @Description	returns per-asset price statistics (mean, min, max, percentiles)
// @Tags			Prices
// @Produce		json
// @Param			balance_type	query	string	false	"hub or consumer"
// @Param			assets			query	string	false	"comma-separated asset names"
// @Success		200	{object}	GetPriceSummaryResponse
// @Router			/prices/summary [get]
func (app *application) handleGetPriceSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := app.priceFilterFromQuery(w, r)
	if !ok {
		return
	}

	records, err := app.store.Prices.Get(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats, err := summary.Prices(priceFrame(records),
		[]string{types.ColBalanceType, types.ColAsset, types.ColYear})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := GetPriceSummaryResponse{
		Success: true,
		Data:    stats.Maps(),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// priceFrame rebuilds the processed price frame from its stored rows so the
// summary statistics can run on the same columns the pipeline produces.
func priceFrame(records []store.PriceRecord) dataframe.DataFrame {
	balanceTypes := make([]string, len(records))
	assets := make([]string, len(records))
	years := make([]int, len(records))
	repPeriods := make([]int, len(records))
	timesteps := make([]int, len(records))
	prices := make([]float64, len(records))

	for i, rec := range records {
		balanceTypes[i] = rec.BalanceType
		assets[i] = rec.Asset
		years[i] = rec.Year
		repPeriods[i] = rec.RepPeriod
		timesteps[i] = rec.Timestep
		prices[i] = rec.Price
	}

	return dataframe.New(
		series.New(balanceTypes, series.String, types.ColBalanceType),
		series.New(assets, series.String, types.ColAsset),
		series.New(years, series.Int, types.ColYear),
		series.New(repPeriods, series.Int, types.ColRepPeriod),
		series.New(timesteps, series.Int, types.ColTime),
		series.New(prices, series.Float, types.ColPrice),
	)
}
