package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBDataSource reads bars from a parquet file through an embedded DuckDB.
// The parquet file must carry the columns time, symbol, open, high, low, close and volume.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// The path parameter specifies the DuckDB database file location, ":memory:" keeps it in memory.
// This is distinct from Initialize() which points the source at a parquet file.
func NewDataSource(path string, log *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`SET threads=4;`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to set DuckDB options", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize creates the market_data view over the parquet file at path.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM read_parquet('%s');
	`, path)

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read parquet file %s", path)
	}

	return nil
}

// Fetch implements MarketDataSource.
func (d *DuckDBDataSource) Fetch(ctx context.Context, symbol string, interval Interval, lookback time.Duration) (types.Series, error) {
	latest, err := d.latestTime(ctx, symbol)
	if err != nil {
		return types.Series{}, err
	}

	var start time.Time
	if lookback > 0 {
		start = latest.Add(-lookback)
	}

	query, args, err := d.buildFetchQuery(symbol, interval, start)
	if err != nil {
		return types.Series{}, err
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	bars := make([]types.MarketData, 0, 1000)

	for rows.Next() {
		var bar types.MarketData

		err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume)
		if err != nil {
			return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		bars = append(bars, bar)
	}

	if err = rows.Err(); err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	d.logger.Debug("Fetched market data",
		zap.String("symbol", symbol),
		zap.String("interval", string(interval)),
		zap.Int("bars", len(bars)),
	)

	// lookback is measured from the latest bucket once bars are aggregated
	if interval != IntervalRaw {
		bars = withinLookback(bars, lookback)
	}

	return types.NewSeries(symbol, bars), nil
}

// Symbols returns all distinct symbols in the parquet file.
func (d *DuckDBDataSource) Symbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return symbols, nil
}

// Close implements MarketDataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func (d *DuckDBDataSource) latestTime(ctx context.Context, symbol string) (time.Time, error) {
	query, args, err := d.sq.
		Select("MAX(time)").
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var latest sql.NullTime
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query latest bar", err)
	}

	if !latest.Valid {
		return time.Time{}, errors.Newf(errors.ErrCodeNoDataFound, "no market data for symbol %s", symbol)
	}

	return latest.Time, nil
}

// buildFetchQuery selects raw bars, or buckets them with time_bucket when an interval is given.
// A zero start leaves the range open.
func (d *DuckDBDataSource) buildFetchQuery(symbol string, interval Interval, start time.Time) (string, []interface{}, error) {
	conditions := squirrel.And{squirrel.Eq{"symbol": symbol}}

	var builder squirrel.SelectBuilder

	if interval == IntervalRaw {
		if !start.IsZero() {
			conditions = append(conditions, squirrel.GtOrEq{"time": start})
		}

		builder = d.sq.
			Select("time", "symbol", "open", "high", "low", "close", "volume").
			From("market_data").
			Where(conditions).
			OrderBy("time ASC")
	} else {
		minutes, err := getIntervalMinutes(interval)
		if err != nil {
			return "", nil, err
		}

		// the bucket containing start is kept whole; Fetch trims by bucket time afterwards
		if !start.IsZero() {
			conditions = append(conditions, squirrel.GtOrEq{"time": start.Truncate(time.Duration(minutes) * time.Minute)})
		}

		bucket := fmt.Sprintf("time_bucket(INTERVAL '%d minutes', time)", minutes)
		builder = d.sq.
			Select(
				bucket+" AS bucket_time",
				"symbol",
				"arg_min(open, time) AS open",
				"MAX(high) AS high",
				"MIN(low) AS low",
				"arg_max(close, time) AS close",
				"SUM(volume) AS volume",
			).
			From("market_data").
			Where(conditions).
			GroupBy("bucket_time", "symbol").
			OrderBy("bucket_time ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	return query, args, nil
}
