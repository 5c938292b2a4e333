package storage

// sqlite.go: histórico local de precios y optimizaciones.
//
// Estrategia:
//   - `snapshots`: una fila por refresh con los tres precios de referencia.
//   - `option_quotes`: las cadenas de opciones del snapshot, en el orden de la API.
//     Con el último snapshot la CLI puede trabajar sin red (--offline).
//   - `runs`: una fila por optimización, con las doce columnas de las patas ganadoras
//     y el contexto de mercado/portfolio con el que se calculó.
//   - Prune automático al arrancar: snapshots > 30d, runs > 180d.
//
// Los timestamps se guardan como unix nanos para que el orden en SQL sea exacto.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/quantohedge/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Precios de referencia de cada refresh
CREATE TABLE IF NOT EXISTS snapshots (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    queried_at       INTEGER NOT NULL,
    btc_start        REAL    NOT NULL DEFAULT 0,
    eth_spot_start   REAL    NOT NULL DEFAULT 0,
    eth_quanto_start REAL    NOT NULL DEFAULT 0
);

-- Cotizaciones de Deribit del snapshot
CREATE TABLE IF NOT EXISTS option_quotes (
    snapshot_id      INTEGER NOT NULL,
    leg              TEXT    NOT NULL,
    seq              INTEGER NOT NULL,
    instrument_name  TEXT    NOT NULL,
    strike           REAL    NOT NULL DEFAULT 0,
    underlying_price REAL    NOT NULL DEFAULT 0,
    best_ask         REAL    NOT NULL DEFAULT 0,
    best_bid         REAL    NOT NULL DEFAULT 0,
    mark_price       REAL    NOT NULL DEFAULT 0,
    PRIMARY KEY (snapshot_id, leg, seq)
);

-- Una fila por optimización
CREATE TABLE IF NOT EXISTS runs (
    id                TEXT PRIMARY KEY,
    started_at        INTEGER NOT NULL,
    duration_ns       INTEGER NOT NULL DEFAULT 0,
    candidates        INTEGER NOT NULL DEFAULT 0,
    evaluated         INTEGER NOT NULL DEFAULT 0,
    best_score        REAL    NOT NULL,
    baseline_score    REAL    NOT NULL,
    btc_call_amount   REAL    NOT NULL DEFAULT 0,
    btc_call_strike   REAL    NOT NULL DEFAULT 0,
    btc_call_premium  REAL    NOT NULL DEFAULT 0,
    btc_put_amount    REAL    NOT NULL DEFAULT 0,
    btc_put_strike    REAL    NOT NULL DEFAULT 0,
    btc_put_premium   REAL    NOT NULL DEFAULT 0,
    eth_call_amount   REAL    NOT NULL DEFAULT 0,
    eth_call_strike   REAL    NOT NULL DEFAULT 0,
    eth_call_premium  REAL    NOT NULL DEFAULT 0,
    eth_put_amount    REAL    NOT NULL DEFAULT 0,
    eth_put_strike    REAL    NOT NULL DEFAULT 0,
    eth_put_premium   REAL    NOT NULL DEFAULT 0,
    eth_spot_amount   REAL    NOT NULL DEFAULT 0,
    btc_amount_bitmex REAL    NOT NULL DEFAULT 0,
    contracts         REAL    NOT NULL DEFAULT 0,
    premium_exit      REAL    NOT NULL DEFAULT 0,
    btc_start         REAL    NOT NULL DEFAULT 0,
    eth_spot_start    REAL    NOT NULL DEFAULT 0,
    eth_quanto_start  REAL    NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_snapshots_at ON snapshots(queried_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_at      ON runs(started_at DESC);
`

const (
	retentionSnapshots = 30 * 24 * time.Hour
	retentionRuns      = 180 * 24 * time.Hour
	defaultRunsLimit   = 20
)

// SQLiteStorage implementa ports.RunStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveSnapshot persiste los precios de referencia y las cuatro cadenas de opciones
// en una sola transacción.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, p domain.StartingPrices) error {
	queriedAt := p.QueriedAt
	if queriedAt.IsZero() {
		queriedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (queried_at, btc_start, eth_spot_start, eth_quanto_start) VALUES (?, ?, ?, ?)`,
		queriedAt.UTC().UnixNano(), p.BTCStartPrice, p.ETHSpotStartPrice, p.ETHQuantoFuturesStartPrice,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: insert snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO option_quotes
			(snapshot_id, leg, seq, instrument_name, strike,
			 underlying_price, best_ask, best_bid, mark_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for _, kind := range domain.AllLegs {
		for seq, q := range p.Chain(kind) {
			if _, err := stmt.ExecContext(ctx,
				snapshotID,
				kind.String(),
				seq,
				q.InstrumentName,
				q.Strike,
				q.UnderlyingPrice,
				q.BestAskPrice,
				q.BestBidPrice,
				q.MarkPrice,
			); err != nil {
				return fmt.Errorf("storage.SaveSnapshot: insert quote %s: %w", q.InstrumentName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: commit: %w", err)
	}
	return nil
}

// LatestSnapshot devuelve el último snapshot guardado. ok es false si no hay ninguno.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (domain.StartingPrices, bool, error) {
	var p domain.StartingPrices
	var id, queriedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, queried_at, btc_start, eth_spot_start, eth_quanto_start
		FROM snapshots
		ORDER BY queried_at DESC, id DESC
		LIMIT 1
	`).Scan(&id, &queriedAt, &p.BTCStartPrice, &p.ETHSpotStartPrice, &p.ETHQuantoFuturesStartPrice)
	if err == sql.ErrNoRows {
		return domain.StartingPrices{}, false, nil
	}
	if err != nil {
		return domain.StartingPrices{}, false, fmt.Errorf("storage.LatestSnapshot: query snapshot: %w", err)
	}
	p.QueriedAt = time.Unix(0, queriedAt).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT leg, instrument_name, strike, underlying_price, best_ask, best_bid, mark_price
		FROM option_quotes
		WHERE snapshot_id = ?
		ORDER BY leg, seq
	`, id)
	if err != nil {
		return domain.StartingPrices{}, false, fmt.Errorf("storage.LatestSnapshot: query quotes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legStr string
		var q domain.OptionQuote
		if err := rows.Scan(
			&legStr,
			&q.InstrumentName,
			&q.Strike,
			&q.UnderlyingPrice,
			&q.BestAskPrice,
			&q.BestBidPrice,
			&q.MarkPrice,
		); err != nil {
			return domain.StartingPrices{}, false, fmt.Errorf("storage.LatestSnapshot: scan quote: %w", err)
		}
		kind, err := domain.ParseLegKind(legStr)
		if err != nil {
			return domain.StartingPrices{}, false, fmt.Errorf("storage.LatestSnapshot: %w", err)
		}
		switch kind {
		case domain.LegBTCCall:
			p.BTCCalls = append(p.BTCCalls, q)
		case domain.LegBTCPut:
			p.BTCPuts = append(p.BTCPuts, q)
		case domain.LegETHCall:
			p.ETHCalls = append(p.ETHCalls, q)
		case domain.LegETHPut:
			p.ETHPuts = append(p.ETHPuts, q)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StartingPrices{}, false, fmt.Errorf("storage.LatestSnapshot: rows: %w", err)
	}
	return p, true, nil
}

// SaveRun persiste una optimización. Un id repetido sobrescribe la fila.
func (s *SQLiteStorage) SaveRun(ctx context.Context, r domain.OptimizationRun) error {
	if r.ID == "" {
		return fmt.Errorf("storage.SaveRun: empty run id")
	}
	btcCall, btcPut, ethCall, ethPut := r.Legs[0], r.Legs[1], r.Legs[2], r.Legs[3]

	if _, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, started_at, duration_ns, candidates, evaluated, best_score, baseline_score,
			 btc_call_amount, btc_call_strike, btc_call_premium,
			 btc_put_amount, btc_put_strike, btc_put_premium,
			 eth_call_amount, eth_call_strike, eth_call_premium,
			 eth_put_amount, eth_put_strike, eth_put_premium,
			 eth_spot_amount, btc_amount_bitmex, contracts, premium_exit,
			 btc_start, eth_spot_start, eth_quanto_start)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.StartedAt.UTC().UnixNano(),
		int64(r.Duration),
		r.Candidates,
		r.Evaluated,
		r.BestScore,
		r.BaselineScore,
		btcCall.Amount, btcCall.Strike, btcCall.Premium,
		btcPut.Amount, btcPut.Strike, btcPut.Premium,
		ethCall.Amount, ethCall.Strike, ethCall.Premium,
		ethPut.Amount, ethPut.Strike, ethPut.Premium,
		r.ETHSpotAmount,
		r.BTCAmountBitmex,
		r.ETHQuantoContractsShorted,
		r.PremiumExit,
		r.BTCStartPrice,
		r.ETHSpotStartPrice,
		r.ETHQuantoFuturesStart,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns devuelve las últimas optimizaciones, la más reciente primero.
// limit <= 0 usa 20.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ns, candidates, evaluated, best_score, baseline_score,
		       btc_call_amount, btc_call_strike, btc_call_premium,
		       btc_put_amount, btc_put_strike, btc_put_premium,
		       eth_call_amount, eth_call_strike, eth_call_premium,
		       eth_put_amount, eth_put_strike, eth_put_premium,
		       eth_spot_amount, btc_amount_bitmex, contracts, premium_exit,
		       btc_start, eth_spot_start, eth_quanto_start
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.OptimizationRun
	for rows.Next() {
		var r domain.OptimizationRun
		var startedAt, durationNs int64
		l := &r.Legs

		if err := rows.Scan(
			&r.ID, &startedAt, &durationNs, &r.Candidates, &r.Evaluated, &r.BestScore, &r.BaselineScore,
			&l[0].Amount, &l[0].Strike, &l[0].Premium,
			&l[1].Amount, &l[1].Strike, &l[1].Premium,
			&l[2].Amount, &l[2].Strike, &l[2].Premium,
			&l[3].Amount, &l[3].Strike, &l[3].Premium,
			&r.ETHSpotAmount, &r.BTCAmountBitmex, &r.ETHQuantoContractsShorted, &r.PremiumExit,
			&r.BTCStartPrice, &r.ETHSpotStartPrice, &r.ETHQuantoFuturesStart,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan row: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.Duration = time.Duration(durationNs)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffSnapshots := time.Now().UTC().Add(-retentionSnapshots).UnixNano()
	cutoffRuns := time.Now().UTC().Add(-retentionRuns).UnixNano()
	s.db.ExecContext(ctx,
		`DELETE FROM option_quotes WHERE snapshot_id IN (SELECT id FROM snapshots WHERE queried_at < ?)`,
		cutoffSnapshots,
	)
	s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE queried_at < ?`, cutoffSnapshots)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoffRuns)
}
