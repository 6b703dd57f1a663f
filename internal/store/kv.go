package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sqliteKV stores key/value pairs in the kv_entries table.
type sqliteKV struct {
	db *sql.DB
}

func (k *sqliteKV) Get(ctx context.Context, key string) (string, error) {
	query, args := builder().Select("entry_value").
		From(entsql.Table(tableKVEntries)).
		Where(entsql.EQ("entry_key", key)).
		Query()

	var value string
	err := k.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (k *sqliteKV) Set(ctx context.Context, key, value string) error {
	query, args := builder().Insert(tableKVEntries).
		Columns("entry_key", "entry_value", "updated_at").
		Values(key, value, formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("entry_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (k *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(tableKVEntries).
		Where(entsql.EQ("entry_key", key)).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
