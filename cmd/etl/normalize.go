package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"

	"github.com/hverbeek/esm_postproc/internal/config"
	"github.com/hverbeek/esm_postproc/internal/logger"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// normalizeInputs fills declared optional columns of the user-provided input
// CSVs from the validated defaults config, then re-checks the table against
// its schema. Columns that are neither present nor declared in the config
// stay missing and fail validation: defaults come only from configuration,
// never from the transforms.
func normalizeInputs(dir string, cfg *config.InputDefaults, windows1252 bool, appLogger *logger.Logger) error {
	const component = "Normalizer"

	for _, table := range cfg.Tables {
		path := filepath.Join(dir, table.Name+".csv")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			appLogger.Debug(component, "Skipping absent input file: path=%s", path)
			continue
		}

		df, err := readInput(path, windows1252)
		if err != nil {
			return err
		}

		filled := 0
		names := df.Names()
		for col, value := range table.Defaults {
			if types.ContainsString(names, col) {
				continue
			}
			constant := make([]string, df.Nrow())
			for i := range constant {
				constant[i] = value
			}
			df = df.Mutate(series.New(constant, series.String, col))
			if df.Error() != nil {
				return fmt.Errorf("normalize: filling column %q of %s: %v", col, table.Name, df.Error())
			}
			filled++
		}

		if schema, ok := types.Schemas[table.Name]; ok {
			if err := schema.Validate(df); err != nil {
				return err
			}
		}

		if err := writeInput(path, df); err != nil {
			return err
		}
		appLogger.Info(component, "Normalized input: table=%s rows=%d filledColumns=%d", table.Name, df.Nrow(), filled)
	}
	return nil
}

func readInput(path string, windows1252 bool) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize: opening %s: %v", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if windows1252 {
		r = charmap.Windows1252.NewDecoder().Reader(file)
	}

	df := dataframe.ReadCSV(r, dataframe.WithLazyQuotes(true))
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize: parsing %s: %v", path, df.Error())
	}
	return df, nil
}

func writeInput(path string, df dataframe.DataFrame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("normalize: creating %s: %v", path, err)
	}
	defer file.Close()

	if err := df.WriteCSV(file); err != nil {
		return fmt.Errorf("normalize: writing %s: %v", path, err)
	}
	return nil
}
