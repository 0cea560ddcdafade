package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paperapi/internal/model"
)

// fuzzyPrefixLen is how much of a requested id the broad lookup matches on.
const fuzzyPrefixLen = 8

// Resolver finds and deletes papers whose partition key may not equal their id.
// Strategies run in a fixed order and the first one that yields a record wins;
// there is no timed retry.
type Resolver struct {
	store PaperStore
	log   *zap.Logger
}

// NewResolver wraps a PaperStore. A nil logger disables logging.
func NewResolver(store PaperStore, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, log: log.Named("resolver")}
}

// Find returns the paper with the given id, or (nil, nil) when no strategy locates it.
//
// Order: point read with id as partition key, indexed query on id, then a broad
// query on the first characters of the id that prefers a case-insensitive exact
// match and otherwise returns the first candidate.
// An error is returned only when a query failed and nothing was found, so a
// backend outage is never reported as a definitive absence.
func (r *Resolver) Find(ctx context.Context, id string) (*model.Paper, error) {
	log := r.log.With(zap.String("paper_id", id))

	p, err := r.store.Read(ctx, id, id)
	if err == nil && p != nil {
		return p, nil
	}
	log.Debug("direct lookup failed", zap.Error(err))

	var lastErr error

	exact, err := r.store.Query(ctx, Filter{ID: id})
	switch {
	case err != nil:
		log.Warn("indexed query failed", zap.Error(err))
		lastErr = err
	case len(exact) > 0:
		log.Debug("found by indexed query")
		return &exact[0], nil
	}

	candidates, err := r.store.Query(ctx, Filter{IDContains: idPrefix(id)})
	switch {
	case err != nil:
		log.Warn("broad query failed", zap.Error(err))
		lastErr = err
	case len(candidates) > 0:
		for i := range candidates {
			if strings.EqualFold(candidates[i].ID, id) {
				log.Debug("found by case-insensitive match")
				return &candidates[i], nil
			}
		}
		log.Info("returning closest match", zap.String("match_id", candidates[0].ID), zap.Int("candidates", len(candidates)))
		return &candidates[0], nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("resolve paper %s: %w", id, lastErr)
	}
	log.Debug("paper not found after all lookups")
	return nil, nil
}

// Delete removes the paper with the given id.
//
// A direct delete with id as partition key is tried first. If it fails the
// record is located with Find and confirmed by an exact id query, then deleted
// with AnyPartition. ErrNotFound is returned when the record cannot be located;
// a fuzzy match never causes a different record to be deleted.
func (r *Resolver) Delete(ctx context.Context, id string) error {
	log := r.log.With(zap.String("paper_id", id))

	err := r.store.Delete(ctx, id, id)
	if err == nil {
		return nil
	}
	log.Debug("direct delete failed", zap.Error(err))

	p, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}

	exact, err := r.store.Query(ctx, Filter{ID: id})
	if err != nil {
		return fmt.Errorf("confirm paper %s: %w", id, err)
	}
	if len(exact) == 0 {
		log.Info("only a partial id match exists, refusing to delete", zap.String("match_id", p.ID))
		return ErrNotFound
	}

	if err := r.store.Delete(ctx, id, AnyPartition); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete paper %s: %w", id, err)
	}
	log.Debug("deleted via partition-independent delete")
	return nil
}

// idPrefix returns the first fuzzyPrefixLen runes of id, never splitting a rune.
func idPrefix(id string) string {
	n := 0
	for i := range id {
		if n == fuzzyPrefixLen {
			return id[:i]
		}
		n++
	}
	return id
}
