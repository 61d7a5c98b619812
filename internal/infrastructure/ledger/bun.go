package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/haldorsen/meshsim/internal/analysis"
)

// BunLedger is a Postgres-backed Ledger, used when LEDGER_DSN is set.
// A thin bun.DB wrapper with one model per persisted shape and explicit
// schema creation.
type BunLedger struct {
	db *bun.DB
}

// NewBunLedger opens a connection pool against dsn using bun's pgdriver.
func NewBunLedger(dsn string) *BunLedger {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunLedger{db: db}
}

// turnRecord is the on-disk shape of one ledger Entry: the group
// summaries are stored as a single jsonb blob rather than normalized
// columns, since they are read back whole and never queried by field.
type turnRecord struct {
	bun.BaseModel `bun:"table:turn_ledger,alias:tl"`

	ID        uuid.UUID `bun:"id,pk"`
	Turn      int       `bun:"turn,notnull"`
	Summaries []byte    `bun:"summaries,type:jsonb"`
}

// InitSchema creates the ledger table if it does not already exist.
func (l *BunLedger) InitSchema(ctx context.Context) error {
	_, err := l.db.NewCreateTable().Model((*turnRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("ledger: creating turn_ledger table: %w", err)
	}
	return nil
}

// Append inserts entry as a new row.
func (l *BunLedger) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry.Summaries)
	if err != nil {
		return fmt.Errorf("ledger: marshaling summaries: %w", err)
	}
	record := &turnRecord{ID: uuid.New(), Turn: entry.Turn, Summaries: payload}
	_, err = l.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return fmt.Errorf("ledger: inserting turn %d: %w", entry.Turn, err)
	}
	return nil
}

// Recent returns the most recent limit entries in turn order, oldest
// first. limit <= 0 returns the entire history.
func (l *BunLedger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var records []turnRecord
	query := l.db.NewSelect().Model(&records).Order("turn DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("ledger: querying recent turns: %w", err)
	}

	out := make([]Entry, len(records))
	for i, r := range records {
		var summaries []analysis.GroupSummary
		if err := json.Unmarshal(r.Summaries, &summaries); err != nil {
			return nil, fmt.Errorf("ledger: unmarshaling turn %d: %w", r.Turn, err)
		}
		// records were fetched newest-first; reverse into oldest-first.
		out[len(records)-1-i] = Entry{Turn: r.Turn, Summaries: summaries}
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (l *BunLedger) Close() error {
	return l.db.Close()
}
