package collector

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"HeadlineSentinel/internal/model"
)

// DefaultSQLiteQuery selects the price table used by SQLitePriceSource.
const DefaultSQLiteQuery = "SELECT date, symbol, close FROM prices"

// SQLitePriceSource reads prices from a SQLite database. The query's result
// columns are matched by name exactly like a TSV header.
type SQLitePriceSource struct {
	db    *sql.DB
	query string
}

// NewSQLitePriceSource opens an existing database.
func NewSQLitePriceSource(dbPath, query string) (*SQLitePriceSource, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, errors.Wrap(err, "stat sqlite")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping sqlite %s", dbPath)
	}
	if query == "" {
		query = DefaultSQLiteQuery
	}
	log.Info().Str("path", dbPath).Msg("sqlite price source opened")
	return &SQLitePriceSource{db: db, query: query}, nil
}

func (s *SQLitePriceSource) Name() string { return "sqlite" }

func (s *SQLitePriceSource) LoadPrices(ctx context.Context, _ PriceRequest) ([]model.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, errors.Wrap(err, "query prices")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read columns")
	}

	t := &model.Table{Columns: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scan price row")
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate prices")
	}

	obs, err := ParsePriceTable(t)
	if err != nil {
		return nil, errors.Wrap(err, "parse sqlite prices")
	}
	return obs, nil
}

func (s *SQLitePriceSource) Close() error {
	log.Info().Msg("closing sqlite price source")
	return s.db.Close()
}
