// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"kcorr/internal/profile"
)

// DupPolicy decides what a save does when an accession already exists in
// the table.
type DupPolicy string

const (
	DupReject    DupPolicy = "reject" // abort the run
	DupSkip      DupPolicy = "skip"   // keep the stored row
	DupOverwrite DupPolicy = "overwrite"
)

// ErrDuplicateKey means a save under the reject policy hit an accession
// already present in the table.
var ErrDuplicateKey = errors.New("duplicate accession")

// ParseDupPolicy validates a duplicate-key policy name.
func ParseDupPolicy(s string) (DupPolicy, error) {
	switch DupPolicy(s) {
	case DupReject, DupSkip, DupOverwrite:
		return DupPolicy(s), nil
	}
	return "", fmt.Errorf("invalid duplicate policy %q (want reject, skip or overwrite)", s)
}

// insertBatch bounds how many rows go into a single INSERT statement.
const insertBatch = 500

// TableName is the per-(k, method) table holding one profile per row.
func TableName(k int, method profile.Method) string {
	return fmt.Sprintf("zscores_%dmer_%s", k, method)
}

// LoadSQLite reads profiles for (k, method) from the database at path,
// optionally filtered by a case-insensitive organism substring.
func LoadSQLite(path string, k int, method profile.Method, organismFilter string) (profile.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(
		"SELECT assembly_accession, zscores, seq_len, biosample, organism FROM %s", TableName(k, method))
	var args []any
	if organismFilter != "" {
		query += " WHERE instr(lower(coalesce(organism, '')), lower(?)) > 0"
		args = append(args, organismFilter)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	s := make(profile.Store)
	for rows.Next() {
		var (
			acc, zscores        string
			seqLen              int
			biosample, organism sql.NullString
		)
		if err := rows.Scan(&acc, &zscores, &seqLen, &biosample, &organism); err != nil {
			return nil, err
		}
		var scores []float64
		if err := json.Unmarshal([]byte(zscores), &scores); err != nil {
			return nil, fmt.Errorf("decode zscores for %s: %w", acc, err)
		}
		s[acc] = profile.Profile{
			Accession:      acc,
			Scores:         scores,
			SequenceLength: seqLen,
			Biosample:      biosample.String,
			Organism:       organism.String,
		}
	}
	return s, rows.Err()
}

// SaveSQLite writes the store into the (k, method) table, creating it if
// needed. Inserts run in bounded batches inside one transaction; the
// duplicate policy picks the conflict clause, and under reject a UNIQUE
// violation aborts the whole save.
func SaveSQLite(path string, k int, method profile.Method, s profile.Store, policy DupPolicy) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	table := TableName(k, method)
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		assembly_accession TEXT UNIQUE NOT NULL,
		zscores TEXT NOT NULL,
		seq_len INTEGER NOT NULL,
		biosample TEXT,
		organism TEXT
	)`, table)
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	verb := "INSERT"
	switch policy {
	case DupSkip:
		verb = "INSERT OR IGNORE"
	case DupOverwrite:
		verb = "INSERT OR REPLACE"
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	accs := sortedAccessions(s)
	for start := 0; start < len(accs); start += insertBatch {
		end := start + insertBatch
		if end > len(accs) {
			end = len(accs)
		}
		var (
			placeholders []string
			args         []any
		)
		for _, acc := range accs[start:end] {
			p := s[acc]
			zscores, err := json.Marshal(p.Scores)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
			args = append(args, acc, string(zscores), p.SequenceLength, p.Biosample, p.Organism)
		}
		stmt := fmt.Sprintf("%s INTO %s (assembly_accession, zscores, seq_len, biosample, organism) VALUES %s",
			verb, table, strings.Join(placeholders, ", "))
		if _, err := tx.Exec(stmt, args...); err != nil {
			_ = tx.Rollback()
			if policy == DupReject && strings.Contains(err.Error(), "UNIQUE") {
				return fmt.Errorf("%w in %s (policy reject): %v", ErrDuplicateKey, table, err)
			}
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return tx.Commit()
}
