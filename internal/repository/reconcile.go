package repository

import (
	"cmp"
	"context"
	"slices"
)

// AssociationStore is the narrow view of a junction table that Reconcile
// needs: read the member ids of one owner, then add or drop a batch.
type AssociationStore[ID cmp.Ordered] interface {
	Current(ctx context.Context, ownerID ID) ([]ID, error)
	Insert(ctx context.Context, ownerID ID, ids []ID) error
	Delete(ctx context.Context, ownerID ID, ids []ID) error
}

// Diff returns the ids to add (desired minus current) and to remove
// (current minus desired). Both results are sorted and free of duplicates.
func Diff[ID cmp.Ordered](current, desired []ID) (toInsert, toDelete []ID) {
	cur := make(map[ID]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	want := make(map[ID]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
	}
	for id := range want {
		if _, ok := cur[id]; !ok {
			toInsert = append(toInsert, id)
		}
	}
	for id := range cur {
		if _, ok := want[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	slices.Sort(toInsert)
	slices.Sort(toDelete)
	return toInsert, toDelete
}

// Reconcile makes the owner's associations in store equal to desired. It
// issues at most one batched delete and one batched insert and does nothing
// when the sets already match. A nil or empty desired set clears the owner.
func Reconcile[ID cmp.Ordered](ctx context.Context, store AssociationStore[ID], ownerID ID, desired []ID) error {
	current, err := store.Current(ctx, ownerID)
	if err != nil {
		return err
	}
	toInsert, toDelete := Diff(current, desired)
	if len(toDelete) > 0 {
		if err := store.Delete(ctx, ownerID, toDelete); err != nil {
			return err
		}
	}
	if len(toInsert) > 0 {
		if err := store.Insert(ctx, ownerID, toInsert); err != nil {
			return err
		}
	}
	return nil
}
