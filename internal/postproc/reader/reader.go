// Package reader loads solver result tables from a directory of CSV files,
// one file per table name, validated against the declared schemas.
package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"

	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// Dir resolves table names to <name>.csv files under Path. Windows1252
// enables decoding of legacy Latin-1 exports; solver output is UTF-8 by
// default.
type Dir struct {
	Path        string
	Windows1252 bool
}

// NewDir returns a reader over the given directory.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// Table loads and validates the named result table.
func (d *Dir) Table(name string) (dataframe.DataFrame, error) {
	schema, ok := types.Schemas[name]
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("reader: unknown table %q", name)
	}

	path := filepath.Join(d.Path, name+".csv")
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reader: opening table %s: %v", name, err)
	}
	defer file.Close()

	var r io.Reader = file
	if d.Windows1252 {
		r = charmap.Windows1252.NewDecoder().Reader(file)
	}

	df := dataframe.ReadCSV(r, dataframe.WithLazyQuotes(true))
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reader: parsing table %s: %v", name, df.Error())
	}

	if err := schema.Validate(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}
