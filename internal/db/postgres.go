package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	body       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_products_category_idx
	ON documents ((body->>'category')) WHERE collection = 'products';
CREATE INDEX IF NOT EXISTS documents_orders_number_idx
	ON documents ((body->>'number')) WHERE collection = 'orders';
`

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

// Migrate cria a tabela de documentos usada pelo backend postgres.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
