// Package postproc turns raw solver result tables into the analysis-ready
// tables consumed by the rendering layer: per-timestep prices, storage state
// of charge and the zone/technology energy balance.
package postproc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hverbeek/esm_postproc/internal/logger"
	"github.com/hverbeek/esm_postproc/internal/postproc/balance"
	"github.com/hverbeek/esm_postproc/internal/postproc/prices"
	"github.com/hverbeek/esm_postproc/internal/postproc/soc"
	"github.com/hverbeek/esm_postproc/internal/postproc/summary"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// ResultReader exposes the solver result tables by name. The pipeline only
// reads; nothing is ever written back through this interface.
type ResultReader interface {
	Table(name string) (dataframe.DataFrame, error)
}

// Tables holds the processed output tables of one pipeline run.
type Tables struct {
	// Prices concatenates the hub and consumer price series, tagged by a
	// balance_type column.
	Prices       dataframe.DataFrame
	IntraStorage dataframe.DataFrame
	InterStorage dataframe.DataFrame
	Balance      dataframe.DataFrame
	PriceSummary dataframe.DataFrame
}

// Pipeline runs every extraction over one result store.
type Pipeline struct {
	reader    ResultReader
	appLogger *logger.Logger
}

func New(reader ResultReader, appLogger *logger.Logger) *Pipeline {
	return &Pipeline{reader: reader, appLogger: appLogger}
}

// BalanceTypes recognized by the price extraction.
const (
	BalanceTypeHub      = "hub"
	BalanceTypeConsumer = "consumer"
)

type extraction struct {
	name string
	df   dataframe.DataFrame
	err  error
}

// Run fetches the input tables and computes every output table, then narrows
// the results to the given filter. The five extractions are independent pure
// transforms, so they run concurrently, each over its own copy of the
// fetched inputs.
func (p *Pipeline) Run(filter types.Filter) (*Tables, error) {
	const component = "Pipeline"

	inputs, err := p.fetchInputs()
	if err != nil {
		return nil, err
	}

	ch := make(chan extraction, 5)
	var wg sync.WaitGroup
	run := func(name string, fn func() (dataframe.DataFrame, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			df, err := fn()
			ch <- extraction{name: name, df: df, err: err}
		}()
	}

	p.appLogger.Debug(component, "Starting extractions: flows=%d hubDuals=%d consumerDuals=%d", inputs.flows.Nrow(), inputs.hubDuals.Nrow(), inputs.consumerDuals.Nrow())

	run("hub prices", func() (dataframe.DataFrame, error) {
		return prices.Extract(inputs.hubDuals.Copy(), inputs.repPeriods.Copy(), inputs.mapping.Copy(), types.ColDualBalanceHub)
	})
	run("consumer prices", func() (dataframe.DataFrame, error) {
		return prices.Extract(inputs.consumerDuals.Copy(), inputs.repPeriods.Copy(), inputs.mapping.Copy(), types.ColDualBalanceConsumer)
	})
	run("intra-period storage", func() (dataframe.DataFrame, error) {
		return soc.IntraPeriod(inputs.intraLevels.Copy(), inputs.assets.Copy())
	})
	run("inter-period storage", func() (dataframe.DataFrame, error) {
		return soc.InterPeriod(inputs.interLevels.Copy(), inputs.assets.Copy())
	})
	run("balance", func() (dataframe.DataFrame, error) {
		// The consumer balance table doubles as the demand source: its
		// solution column carries the per-block demand of each consumer.
		return balance.Compute(inputs.flows.Copy(), inputs.assets.Copy(), inputs.consumerDuals.Copy())
	})

	wg.Wait()
	close(ch)

	results := make(map[string]dataframe.DataFrame, 5)
	var failures []extraction
	for ext := range ch {
		if ext.err != nil {
			p.appLogger.Error(component, "Extraction failed: name=%s err=%v", ext.name, ext.err)
			failures = append(failures, ext)
			continue
		}
		p.appLogger.Info(component, "Extraction completed: name=%s rows=%d", ext.name, ext.df.Nrow())
		results[ext.name] = ext.df
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].name < failures[j].name })
		return nil, fmt.Errorf("postproc: %s extraction failed: %w", failures[0].name, failures[0].err)
	}

	allPrices := constantColumn(results["hub prices"], types.ColBalanceType, BalanceTypeHub).
		RBind(constantColumn(results["consumer prices"], types.ColBalanceType, BalanceTypeConsumer))
	if allPrices.Error() != nil {
		return nil, fmt.Errorf("postproc: concatenating price tables: %v", allPrices.Error())
	}

	priceSummary, err := summary.Prices(allPrices, []string{types.ColBalanceType, types.ColAsset, types.ColYear})
	if err != nil {
		return nil, err
	}

	tables := &Tables{
		Prices:       filter.Apply(allPrices, types.ColAsset),
		IntraStorage: filter.Apply(results["intra-period storage"], types.ColAsset),
		InterStorage: filter.Apply(results["inter-period storage"], types.ColAsset),
		Balance:      filter.Apply(results["balance"], types.ColBiddingZone),
		PriceSummary: filter.Apply(priceSummary, types.ColAsset),
	}

	p.appLogger.Info(component, "Pipeline completed: prices=%d intraStorage=%d interStorage=%d balance=%d",
		tables.Prices.Nrow(), tables.IntraStorage.Nrow(), tables.InterStorage.Nrow(), tables.Balance.Nrow())
	return tables, nil
}

type pipelineInputs struct {
	hubDuals      dataframe.DataFrame
	consumerDuals dataframe.DataFrame
	repPeriods    dataframe.DataFrame
	mapping       dataframe.DataFrame
	flows         dataframe.DataFrame
	intraLevels   dataframe.DataFrame
	interLevels   dataframe.DataFrame
	assets        dataframe.DataFrame
}

func (p *Pipeline) fetchInputs() (*pipelineInputs, error) {
	const component = "Pipeline"

	inputs := &pipelineInputs{}
	for _, t := range []struct {
		name string
		dst  *dataframe.DataFrame
	}{
		{types.TableConsBalanceHub, &inputs.hubDuals},
		{types.TableConsBalanceConsumer, &inputs.consumerDuals},
		{types.TableRepPeriodsData, &inputs.repPeriods},
		{types.TableRepPeriodsMapping, &inputs.mapping},
		{types.TableVarFlow, &inputs.flows},
		{types.TableStorageLevelRepPeriod, &inputs.intraLevels},
		{types.TableStorageLevelOverYear, &inputs.interLevels},
		{types.TableAsset, &inputs.assets},
	} {
		df, err := p.reader.Table(t.name)
		if err != nil {
			return nil, fmt.Errorf("postproc: fetching table %s: %w", t.name, err)
		}
		p.appLogger.Debug(component, "Fetched table: name=%s rows=%d", t.name, df.Nrow())
		*t.dst = df
	}
	return inputs, nil
}

func constantColumn(df dataframe.DataFrame, name, value string) dataframe.DataFrame {
	values := make([]string, df.Nrow())
	for i := range values {
		values[i] = value
	}
	return df.Mutate(series.New(values, series.String, name))
}
