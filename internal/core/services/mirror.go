package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/google/go-cmp/cmp"
)

// MirrorPlan is the difference between current and target rows of an entity.
type MirrorPlan[T any] struct {
	Added   []T
	Updated []T
	Deleted []string // keys
}

// PlanMirror outer-joins current and target on key. Rows only in target are
// additions, rows only in current are deletions, rows in both that differ are
// updates. A key repeated in target fails with apperrors.ErrDuplicate.
func PlanMirror[T any](current, target []T, key func(T) string) (MirrorPlan[T], error) {
	byKey := make(map[string]T, len(current))
	for _, row := range current {
		byKey[key(row)] = row
	}

	plan := MirrorPlan[T]{}
	seen := make(map[string]struct{}, len(target))
	for _, row := range target {
		k := key(row)
		if _, dup := seen[k]; dup {
			return MirrorPlan[T]{}, fmt.Errorf("%w: key '%s' appears more than once in target", apperrors.ErrDuplicate, k)
		}
		seen[k] = struct{}{}
		existing, ok := byKey[k]
		switch {
		case !ok:
			plan.Added = append(plan.Added, row)
		case !cmp.Equal(existing, row):
			plan.Updated = append(plan.Updated, row)
		}
	}
	for _, row := range current {
		k := key(row)
		if _, ok := seen[k]; !ok {
			plan.Deleted = append(plan.Deleted, k)
		}
	}
	return plan, nil
}

// Mirror converges entity towards target. Deletions are applied only when
// delete is set. Changes go through the entity's own Delete, Add and Modify,
// in that order; a failure part way leaves earlier changes in place.
func Mirror[T any](ctx context.Context, entity portsrepo.TabularEntity[T], target []T, key func(T) string, delete bool) (domain.MirrorResult, error) {
	current, err := entity.List(ctx)
	if err != nil {
		return domain.MirrorResult{}, fmt.Errorf("failed to list current rows: %w", err)
	}
	plan, err := PlanMirror(current, target, key)
	if err != nil {
		return domain.MirrorResult{}, err
	}

	result := domain.MirrorResult{Initial: len(current), Target: len(target)}
	if delete && len(plan.Deleted) > 0 {
		if err := entity.Delete(ctx, plan.Deleted, false); err != nil {
			return result, fmt.Errorf("failed to delete rows: %w", err)
		}
		result.Deleted = len(plan.Deleted)
	}
	if len(plan.Added) > 0 {
		if err := entity.Add(ctx, plan.Added); err != nil {
			return result, fmt.Errorf("failed to add rows: %w", err)
		}
		result.Added = len(plan.Added)
	}
	if len(plan.Updated) > 0 {
		if err := entity.Modify(ctx, plan.Updated); err != nil {
			return result, fmt.Errorf("failed to modify rows: %w", err)
		}
		result.Updated = len(plan.Updated)
	}
	return result, nil
}
