package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"taxdecl/internal/config"
	"taxdecl/internal/domain"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// withTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ownerClause returns the WHERE fragment scoping a query to owner, using
// placeholder $n.
func ownerClause(owner domain.OwnerKey, n int) (string, any, bool) {
	switch {
	case owner.UserID != uuid.Nil:
		return fmt.Sprintf("owner_user_id = $%d", n), owner.UserID, true
	case owner.SessionID != "":
		return fmt.Sprintf("owner_session_id = $%d", n), owner.SessionID, true
	}
	return "", nil, false
}
