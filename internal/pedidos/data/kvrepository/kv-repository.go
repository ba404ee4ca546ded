package kvrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/data"
	"simblissima-pedidos/pkg/logging"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

// KVRepository is the durable string key-value store behind the browser-profile state.
type KVRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *KVRepository {
	return &KVRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/select_value.sql
var selectValueQuery string

func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.storage.QueryValue(ctx, selectValueQuery, []any{key}, []any{&value})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return "", data.ErrNoValue
		default:
			return "", fmt.Errorf("failed to select value: %w", err)
		}
	}
	return value, nil
}

//go:embed sql/upsert_value.sql
var upsertValueQuery string

func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	r.logger.DebugCtx(ctx, "storing value", zap.String("key", key))
	_, err := r.storage.Exec(ctx, upsertValueQuery, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert value: %w", err)
	}
	return nil
}
