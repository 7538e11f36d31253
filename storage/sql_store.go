package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"marketcap-etl/models"
)

// SQLStore persists converted records to a relational table. The driver is
// "sqlite" (file-backed, the default) or "postgres".
type SQLStore struct {
	db *sqlx.DB
}

// Open connects with the given driver and DSN and verifies the connection.
func Open(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	return &SQLStore{db: db}, nil
}

// Append creates the table if needed and inserts every record as a new row.
// Rows are never updated or removed: loading the same dataset twice doubles
// the row count, which is the intended accumulate-across-runs behavior.
func (s *SQLStore) Append(table string, converted []models.ConvertedBank) error {
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		Name TEXT,
		MC_USD_Billion DOUBLE PRECISION,
		MC_GBP_Billion DOUBLE PRECISION,
		MC_EUR_Billion DOUBLE PRECISION,
		MC_INR_Billion DOUBLE PRECISION
	)`, table)
	if _, err := s.db.Exec(create); err != nil {
		return fmt.Errorf("store: create table %s: %w", table, err)
	}

	insert := s.db.Rebind(fmt.Sprintf(
		"INSERT INTO %s (Name, MC_USD_Billion, MC_GBP_Billion, MC_EUR_Billion, MC_INR_Billion) VALUES (?, ?, ?, ?, ?)",
		table))
	for _, b := range converted {
		if _, err := s.db.Exec(insert, b.Name, b.USD, b.GBP, b.EUR, b.INR); err != nil {
			return fmt.Errorf("store: insert %q into %s: %w", b.Name, table, err)
		}
	}
	return nil
}

// Query executes a caller-supplied read-only statement verbatim and returns
// the full result set as a tab-separated column header plus one line per
// row. No parameterization is applied; the statement is trusted.
func (s *SQLStore) Query(statement string) (string, error) {
	rows, err := s.db.Queryx(statement)
	if err != nil {
		return "", fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("store: query columns: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(cols, "\t"))
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return "", fmt.Errorf("store: scan row: %w", err)
		}
		fields := make([]string, len(vals))
		for i, v := range vals {
			fields[i] = formatValue(v)
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(fields, "\t"))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("store: iterate rows: %w", err)
	}
	return sb.String(), nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
