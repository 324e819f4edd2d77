package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name       string
		current    []int64
		desired    []int64
		wantInsert []int64
		wantDelete []int64
	}{
		{"equal", []int64{1, 2}, []int64{2, 1}, nil, nil},
		{"add only", []int64{1}, []int64{1, 3, 2}, []int64{2, 3}, nil},
		{"remove only", []int64{1, 2, 3}, []int64{2}, nil, []int64{1, 3}},
		{"mixed", []int64{1, 2}, []int64{2, 3}, []int64{3}, []int64{1}},
		{"nil desired clears", []int64{4, 5}, nil, nil, []int64{4, 5}},
		{"duplicates collapse", nil, []int64{7, 7, 7}, []int64{7}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ins, del := Diff(tc.current, tc.desired)
			assert.Equal(t, tc.wantInsert, ins)
			assert.Equal(t, tc.wantDelete, del)
		})
	}
}

type fakeStore struct {
	rows     map[int64][]int64
	inserts  int
	deletes  int
	failWith error
}

func (s *fakeStore) Current(_ context.Context, owner int64) ([]int64, error) {
	return append([]int64(nil), s.rows[owner]...), nil
}

func (s *fakeStore) Insert(_ context.Context, owner int64, ids []int64) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.inserts++
	s.rows[owner] = append(s.rows[owner], ids...)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, owner int64, ids []int64) error {
	s.deletes++
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.rows[owner][:0]
	for _, id := range s.rows[owner] {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	s.rows[owner] = kept
	return nil
}

func TestReconcile_BatchesWrites(t *testing.T) {
	s := &fakeStore{rows: map[int64][]int64{1: {1, 2, 3}}}
	require.NoError(t, Reconcile[int64](context.Background(), s, 1, []int64{3, 4, 5}))
	assert.ElementsMatch(t, []int64{3, 4, 5}, s.rows[1])
	assert.Equal(t, 1, s.inserts)
	assert.Equal(t, 1, s.deletes)
}

func TestReconcile_NoOpWhenEqual(t *testing.T) {
	s := &fakeStore{rows: map[int64][]int64{1: {1, 2}}}
	require.NoError(t, Reconcile[int64](context.Background(), s, 1, []int64{2, 1}))
	assert.Zero(t, s.inserts)
	assert.Zero(t, s.deletes)
}

func TestReconcile_PropagatesWriteError(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeStore{rows: map[int64][]int64{}, failWith: boom}
	err := Reconcile[int64](context.Background(), s, 1, []int64{1})
	assert.ErrorIs(t, err, boom)
}

func TestJunction_ReconcileAgainstTable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	films := NewFilmRepo(db)
	f := mustAddFilm(t, films, "Heat")

	j := filmGenres.On(db)
	require.NoError(t, Reconcile[int64](ctx, j, f.ID, []int64{1, 2}))
	got, err := j.Current(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got)

	require.NoError(t, Reconcile[int64](ctx, j, f.ID, []int64{2, 4}))
	got, err = j.Current(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, got)

	require.NoError(t, Reconcile[int64](ctx, j, f.ID, nil))
	got, err = j.Current(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	many, err := j.CurrentMany(ctx, []int64{f.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[int64][]int64{f.ID: {}, 999: {}}, many)
}
