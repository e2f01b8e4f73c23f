// Package casestore persists cases and their document links in PostgreSQL.
// All queries are plain SQL through pgx.
package casestore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/domain/cases"
)

//go:embed schema.sql
var schema string

// DBTX runs SQL. Both *pgxpool.Pool and pgx.Tx implement it.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that can also open transactions.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Repo implements usecase/cases.Repository.
type Repo struct {
	pool Pool
}

// New creates a case repository.
func New(pool Pool) *Repo {
	return &Repo{pool: pool}
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Migrate creates the tables when they do not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const caseColumns = `id, user_id, case_name, case_docs, created_at, updated_at`

func scanCase(row pgx.Row) (cases.Case, error) {
	var c cases.Case
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.DocIDs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cases.Case{}, domain.ErrNotFound
		}
		return cases.Case{}, err
	}
	return c, nil
}

// Create inserts a case.
func (r *Repo) Create(ctx context.Context, c *cases.Case) error {
	query := `
		INSERT INTO cases (id, user_id, case_name, case_docs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	docs := c.DocIDs
	if docs == nil {
		docs = []string{}
	}
	_, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.Name, docs, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert case %s: %w", c.ID, err)
	}
	return nil
}

// Get returns one of the user's cases.
func (r *Repo) Get(ctx context.Context, userID, id string) (cases.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1 AND user_id = $2`
	c, err := scanCase(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return cases.Case{}, fmt.Errorf("get case %s: %w", id, err)
	}
	return c, err
}

// List returns the user's cases, newest first.
func (r *Repo) List(ctx context.Context, userID string) ([]cases.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	out := []cases.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Rename changes a case name and returns the updated row.
func (r *Repo) Rename(ctx context.Context, userID, id, name string, at time.Time) (cases.Case, error) {
	query := `
		UPDATE cases SET case_name = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + caseColumns

	c, err := scanCase(r.pool.QueryRow(ctx, query, id, userID, name, at))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return cases.Case{}, fmt.Errorf("rename case %s: %w", id, err)
	}
	return c, err
}

// Delete removes a case and its document links in one transaction.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM case_documents WHERE case_id = $1`, id); err != nil {
			return fmt.Errorf("delete case documents: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM cases WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("delete case %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

const docColumns = `id, case_id, document_ids, notes, added_at, case_name`

func scanDocument(row pgx.Row) (cases.Document, error) {
	var d cases.Document
	err := row.Scan(&d.ID, &d.CaseID, &d.DocumentID, &d.Notes, &d.AddedAt, &d.CaseName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cases.Document{}, domain.ErrNotFound
		}
		return cases.Document{}, err
	}
	return d, nil
}

// FindDocument returns the link between a case and a document.
func (r *Repo) FindDocument(ctx context.Context, caseID, documentID string) (cases.Document, error) {
	query := `SELECT ` + docColumns + ` FROM case_documents WHERE case_id = $1 AND document_ids = $2`
	d, err := scanDocument(r.pool.QueryRow(ctx, query, caseID, documentID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return cases.Document{}, fmt.Errorf("find case document: %w", err)
	}
	return d, err
}

// AddDocument links a document to a case and records it in case_docs.
// A concurrent duplicate insert returns the row that won.
func (r *Repo) AddDocument(ctx context.Context, d *cases.Document) (cases.Document, error) {
	var out cases.Document
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO case_documents (id, case_id, document_ids, notes, added_at, case_name)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (case_id, document_ids) DO NOTHING
			RETURNING ` + docColumns

		var err error
		out, err = scanDocument(tx.QueryRow(ctx, query, d.ID, d.CaseID, d.DocumentID, d.Notes, d.AddedAt, d.CaseName))
		if errors.Is(err, domain.ErrNotFound) {
			query = `SELECT ` + docColumns + ` FROM case_documents WHERE case_id = $1 AND document_ids = $2`
			out, err = scanDocument(tx.QueryRow(ctx, query, d.CaseID, d.DocumentID))
		}
		if err != nil {
			return fmt.Errorf("insert case document: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE cases
			SET case_docs = array_append(case_docs, $2), updated_at = $3
			WHERE id = $1 AND NOT ($2 = ANY(case_docs))`,
			d.CaseID, d.DocumentID, d.AddedAt)
		if err != nil {
			return fmt.Errorf("update case_docs: %w", err)
		}
		return nil
	})
	return out, err
}

// Documents lists a case's document links, newest first.
func (r *Repo) Documents(ctx context.Context, caseID string) ([]cases.Document, error) {
	query := `SELECT ` + docColumns + ` FROM case_documents WHERE case_id = $1 ORDER BY added_at DESC`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("list case documents: %w", err)
	}
	defer rows.Close()

	out := []cases.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RemoveDocument unlinks a document from a case.
func (r *Repo) RemoveDocument(ctx context.Context, caseID, documentID string, at time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM case_documents WHERE case_id = $1 AND document_ids = $2`, caseID, documentID)
		if err != nil {
			return fmt.Errorf("delete case document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`UPDATE cases SET case_docs = array_remove(case_docs, $2), updated_at = $3 WHERE id = $1`,
			caseID, documentID, at)
		if err != nil {
			return fmt.Errorf("update case_docs: %w", err)
		}
		return nil
	})
}

// UpdateNotes replaces the notes on a case document link.
func (r *Repo) UpdateNotes(ctx context.Context, caseID, documentID, notes string) (cases.Document, error) {
	query := `
		UPDATE case_documents SET notes = $3
		WHERE case_id = $1 AND document_ids = $2
		RETURNING ` + docColumns

	d, err := scanDocument(r.pool.QueryRow(ctx, query, caseID, documentID, notes))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return cases.Document{}, fmt.Errorf("update notes: %w", err)
	}
	return d, err
}

func (r *Repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
