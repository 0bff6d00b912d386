package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

const (
	tradesTable    = "trades"
	snapshotsTable = "snapshots"
)

var tradeColumns = []string{
	"id", "run_id", "timestamp", "symbol", "action", "price", "quantity", "total_value",
	"strategy_name", "reason", "profit_loss", "holding_period_seconds",
}

// DuckDBStore keeps trades and snapshots in a DuckDB database.
// An empty path opens an in-memory database.
type DuckDBStore struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCollaboratorFailure, "failed to open store", err)
	}

	store := &DuckDBStore{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log,
	}

	if err := store.initialize(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			run_id TEXT,
			timestamp TIMESTAMP,
			symbol TEXT,
			action TEXT,
			price DOUBLE,
			quantity DOUBLE,
			total_value DOUBLE,
			strategy_name TEXT,
			reason TEXT,
			profit_loss DOUBLE,
			holding_period_seconds BIGINT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCollaboratorFailure, "failed to create trades table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT,
			time TIMESTAMP,
			cash DOUBLE,
			positions_value DOUBLE,
			equity DOUBLE,
			realized_pnl DOUBLE,
			open_positions INTEGER,
			strategy_name TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCollaboratorFailure, "failed to create snapshots table", err)
	}

	return nil
}

// SaveTrade implements Store.
func (s *DuckDBStore) SaveTrade(ctx context.Context, trade types.TradeRecord) error {
	var profitLoss, holdingPeriod interface{}
	if trade.ProfitLoss.IsSome() {
		profitLoss = trade.ProfitLoss.Unwrap()
	}

	if trade.HoldingPeriod.IsSome() {
		holdingPeriod = int64(trade.HoldingPeriod.Unwrap() / time.Second)
	}

	query := s.sq.
		Insert(tradesTable).
		Columns(tradeColumns...).
		Values(
			trade.ID, trade.RunID, trade.Timestamp, trade.Symbol, string(trade.Action),
			trade.Price, trade.Quantity, trade.Value, trade.StrategyName, trade.Reason,
			profitLoss, holdingPeriod,
		).
		RunWith(s.db)

	if _, err := query.ExecContext(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeCollaboratorFailure, err, "failed to save trade %s", trade.ID)
	}

	return nil
}

// SaveSnapshot implements Store.
func (s *DuckDBStore) SaveSnapshot(ctx context.Context, snapshot types.AccountSnapshot) error {
	query := s.sq.
		Insert(snapshotsTable).
		Columns("run_id", "time", "cash", "positions_value", "equity", "realized_pnl", "open_positions", "strategy_name").
		Values(
			snapshot.RunID, snapshot.Time, snapshot.Cash, snapshot.PositionsValue, snapshot.Equity,
			snapshot.RealizedPnL, len(snapshot.OpenPositions), snapshot.StrategyName,
		).
		RunWith(s.db)

	if _, err := query.ExecContext(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeCollaboratorFailure, err, "failed to save snapshot of run %s", snapshot.RunID)
	}

	return nil
}

// GetTradeHistory implements Store.
func (s *DuckDBStore) GetTradeHistory(ctx context.Context, filter types.TradeFilter) ([]types.TradeRecord, error) {
	query := s.sq.
		Select(tradeColumns...).
		From(tradesTable).
		OrderBy("timestamp ASC", "action ASC")

	if filter.Symbol != "" {
		query = query.Where(squirrel.Eq{"symbol": filter.Symbol})
	}

	if filter.RunID != "" {
		query = query.Where(squirrel.Eq{"run_id": filter.RunID})
	}

	if !filter.StartTime.IsZero() {
		query = query.Where(squirrel.GtOrEq{"timestamp": filter.StartTime})
	}

	if !filter.EndTime.IsZero() {
		query = query.Where(squirrel.LtOrEq{"timestamp": filter.EndTime})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trade history", err)
	}
	defer rows.Close()

	trades := make([]types.TradeRecord, 0)

	for rows.Next() {
		var (
			trade         types.TradeRecord
			action        string
			profitLoss    sql.NullFloat64
			holdingPeriod sql.NullInt64
		)

		err := rows.Scan(
			&trade.ID, &trade.RunID, &trade.Timestamp, &trade.Symbol, &action,
			&trade.Price, &trade.Quantity, &trade.Value, &trade.StrategyName, &trade.Reason,
			&profitLoss, &holdingPeriod,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Action = types.TradeAction(action)
		trade.ProfitLoss = optional.None[float64]()
		trade.HoldingPeriod = optional.None[time.Duration]()

		if profitLoss.Valid {
			trade.ProfitLoss = optional.Some(profitLoss.Float64)
		}

		if holdingPeriod.Valid {
			trade.HoldingPeriod = optional.Some(time.Duration(holdingPeriod.Int64) * time.Second)
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// Export implements Store. It writes trades.parquet and snapshots.parquet.
func (s *DuckDBStore) Export(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, table := range []string{tradesTable, snapshotsTable} {
		path := filepath.Join(dir, table+".parquet")

		// squirrel has no COPY support
		_, err := s.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, path))
		if err != nil {
			return errors.Wrapf(errors.ErrCodeCollaboratorFailure, err, "failed to export %s to parquet", table)
		}
	}

	s.logger.Info("Exported backtest results to parquet", zap.String("dir", dir))

	return nil
}

// Close implements Store.
func (s *DuckDBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return s.db.Close()
}
