package store

import (
	"database/sql"
	"time"
)

// PriceRecord is one row of the 'processed_prices' table.
type PriceRecord struct {
	ID          int64     `db:"id" json:"-"`
	BalanceType string    `db:"balance_type" json:"balance_type"`
	Asset       string    `db:"asset" json:"asset"`
	Year        int       `db:"year" json:"year"`
	RepPeriod   int       `db:"rep_period" json:"rep_period"`
	Timestep    int       `db:"timestep" json:"time"`
	Price       float64   `db:"price" json:"price"`
	InsertedAt  time.Time `db:"inserted_at" json:"-"`
}

// Storage-level scopes.
const (
	ScopeIntraPeriod = "intra"
	ScopeInterPeriod = "inter"
)

// StorageLevelRecord is one row of the 'processed_storage_levels' table.
// Intra-period rows carry (year, rep_period, timestep); inter-period rows
// carry the post-clustering period index instead.
type StorageLevelRecord struct {
	ID         int64     `db:"id" json:"-"`
	Scope      string    `db:"scope" json:"scope"`
	Asset      string    `db:"asset" json:"asset"`
	Year       int       `db:"year" json:"year,omitempty"`
	RepPeriod  int       `db:"rep_period" json:"rep_period,omitempty"`
	Timestep   int       `db:"timestep" json:"time,omitempty"`
	Period     int       `db:"period" json:"period,omitempty"`
	Soc        float64   `db:"soc" json:"soc"`
	InsertedAt time.Time `db:"inserted_at" json:"-"`
}

// BalanceRecord is one row of the 'processed_balance' table. Positive
// solution values are injections into the bidding zone, negative values
// withdrawals.
type BalanceRecord struct {
	ID          int64     `db:"id" json:"-"`
	BiddingZone string    `db:"bidding_zone" json:"bidding_zone"`
	Technology  string    `db:"technology" json:"technology"`
	Year        int       `db:"year" json:"year"`
	RepPeriod   int       `db:"rep_period" json:"rep_period"`
	Timestep    int       `db:"timestep" json:"time"`
	Solution    float64   `db:"solution" json:"solution"`
	InsertedAt  time.Time `db:"inserted_at" json:"-"`
}

// Pipeline run statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
)

// PipelineRun is one row of the 'pipeline_runs' table: a record of a full
// post-processing run over a result directory.
type PipelineRun struct {
	ID           int64        `db:"id" json:"id"`
	ResultsPath  string       `db:"results_path" json:"results_path"`
	Status       string       `db:"status" json:"status"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	PriceRows    int          `db:"price_rows" json:"price_rows"`
	StorageRows  int          `db:"storage_rows" json:"storage_rows"`
	BalanceRows  int          `db:"balance_rows" json:"balance_rows"`
	StartedAt    time.Time    `db:"started_at" json:"started_at"`
	FinishedAt   sql.NullTime `db:"finished_at" json:"finished_at,omitempty"`
}

// PriceFilter narrows price queries. Empty fields leave the corresponding
// dimension unrestricted.
type PriceFilter struct {
	BalanceType string
	Assets      []string
	Years       []int
	RepPeriods  []int
}

// StorageLevelFilter narrows storage-level queries.
type StorageLevelFilter struct {
	Scope      string
	Assets     []string
	Years      []int
	RepPeriods []int
}

// BalanceFilter narrows balance queries.
type BalanceFilter struct {
	BiddingZones []string
	Years        []int
	RepPeriods   []int
}
