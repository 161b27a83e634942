// Package postgres guarda os documentos numa tabela JSONB. A tabela é criada
// por db.Migrate (souqctl migrate).
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"souq/internal/apperr"
)

type Store struct {
	DB *pgxpool.Pool
}

func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: pool}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	var body []byte
	err := s.DB.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(body, out)
}

func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	// Remove sequências inválidas para evitar "invalid byte sequence for encoding UTF8"
	payload := strings.ToValidUTF8(string(body), "")
	_, err = s.DB.Exec(ctx, `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`, collection, id, payload)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.DB.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY id ASC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, json.RawMessage(body))
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.DB.Close()
	return nil
}
