// Package expansion keeps the set of orders a browser profile has expanded in the order list.
package expansion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"simblissima-pedidos/internal/pedidos/data"
	"simblissima-pedidos/pkg/logging"
)

const storageKey = "expandedOrders"

type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

// Set holds order ids in their string form.
type Set map[string]struct{}

func Key(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}

func (s Set) Has(orderID int64) bool {
	_, ok := s[Key(orderID)]
	return ok
}

func (s Set) sorted() []string {
	res := make([]string, 0, len(s))
	for id := range s {
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

type Store struct {
	storage            KeyValueStorage
	transactionManager TransactionManager
	key                string
	logger             *logging.ZapLogger
}

func NewStore(
	storage KeyValueStorage,
	transactionManager TransactionManager,
	profileID string,
	logger *logging.ZapLogger,
) *Store {
	return &Store{
		storage:            storage,
		transactionManager: transactionManager,
		key:                "profile:" + profileID + ":" + storageKey,
		logger:             logger,
	}
}

// Load returns the persisted set. Missing, unreadable or corrupt values give an empty set.
func (s *Store) Load(ctx context.Context) Set {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, data.ErrNoValue) {
			s.logger.ErrorCtx(ctx, "failed to read expansion state", zap.Error(err))
		}
		return Set{}
	}
	return s.decode(ctx, raw)
}

func (s *Store) IsExpanded(ctx context.Context, orderID int64) bool {
	return s.Load(ctx).Has(orderID)
}

// Toggle flips the membership of orderID and persists the whole set.
// It returns whether the order is expanded afterwards.
func (s *Store) Toggle(ctx context.Context, orderID int64) (bool, error) {
	var expanded bool
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		set := s.Load(ctx)
		key := Key(orderID)
		if _, ok := set[key]; ok {
			delete(set, key)
			expanded = false
		} else {
			set[key] = struct{}{}
			expanded = true
		}
		encoded, err := json.Marshal(set.sorted())
		if err != nil {
			return fmt.Errorf("failed to encode expansion state: %w", err)
		}
		if err := s.storage.Set(ctx, s.key, string(encoded)); err != nil {
			return fmt.Errorf("failed to persist expansion state: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err //nolint:wrapcheck // already wrapped
	}
	return expanded, nil
}

func (s *Store) decode(ctx context.Context, raw string) Set {
	// older clients stored numbers as well as strings
	var ids []any
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.WarnCtx(ctx, "corrupt expansion state, starting empty", zap.Error(err))
		return Set{}
	}
	set := make(Set, len(ids))
	for _, id := range ids {
		switch v := id.(type) {
		case string:
			set[v] = struct{}{}
		case float64:
			set[strconv.FormatFloat(v, 'f', -1, 64)] = struct{}{}
		}
	}
	return set
}
