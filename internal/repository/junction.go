package repository

import (
	"context"
	"fmt"
	"strings"
)

// JunctionSet describes a two-column many-to-many table keyed by an owner
// id and a member id.
type JunctionSet struct {
	Table     string
	OwnerCol  string
	MemberCol string
}

var (
	filmGenres = JunctionSet{Table: "film_genres", OwnerCol: "film_id", MemberCol: "genre_id"}
	filmLikes  = JunctionSet{Table: "film_likes", OwnerCol: "film_id", MemberCol: "user_id"}
	friends    = JunctionSet{Table: "friends", OwnerCol: "user_id", MemberCol: "friend_id"}
)

// On binds the set to a connection or transaction.
func (j JunctionSet) On(q querier) junction {
	return junction{set: j, q: q}
}

// junction implements AssociationStore[int64] over one table.
type junction struct {
	set JunctionSet
	q   querier
}

// Current returns the member ids of owner in ascending order.
func (j junction) Current(ctx context.Context, ownerID int64) ([]int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY %s",
		j.set.MemberCol, j.set.Table, j.set.OwnerCol, j.set.MemberCol)
	rows, err := j.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", j.set.Table, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CurrentMany loads members for several owners in one query. Every owner in
// ownerIDs gets an entry, empty when it has no members.
func (j junction) CurrentMany(ctx context.Context, ownerIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	for _, id := range ownerIDs {
		out[id] = []int64{}
	}
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (%s) ORDER BY %s, %s",
		j.set.OwnerCol, j.set.MemberCol, j.set.Table, j.set.OwnerCol, placeholders(len(ownerIDs)),
		j.set.OwnerCol, j.set.MemberCol)
	rows, err := j.q.QueryContext(ctx, query, int64Args(ownerIDs)...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", j.set.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, member int64
		if err := rows.Scan(&owner, &member); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], member)
	}
	return out, rows.Err()
}

// Contains reports whether the (owner, member) row exists.
func (j junction) Contains(ctx context.Context, ownerID, memberID int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? AND %s = ? LIMIT 1",
		j.set.Table, j.set.OwnerCol, j.set.MemberCol)
	return exists(ctx, j.q, query, ownerID, memberID)
}

// Insert adds all member ids for owner in a single statement.
func (j junction) Insert(ctx context.Context, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s, %s) VALUES ", j.set.Table, j.set.OwnerCol, j.set.MemberCol)
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?)")
		args = append(args, ownerID, id)
	}
	if _, err := j.q.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert %s: %w", j.set.Table, err)
	}
	return nil
}

// Delete removes the given member ids for owner in a single statement.
func (j junction) Delete(ctx context.Context, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s IN (%s)",
		j.set.Table, j.set.OwnerCol, j.set.MemberCol, placeholders(len(ids)))
	args := append([]any{ownerID}, int64Args(ids)...)
	if _, err := j.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", j.set.Table, err)
	}
	return nil
}

// DeleteOwner drops every row of owner.
func (j junction) DeleteOwner(ctx context.Context, ownerID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", j.set.Table, j.set.OwnerCol)
	if _, err := j.q.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("delete %s: %w", j.set.Table, err)
	}
	return nil
}

// DeleteMember drops every row that references member.
func (j junction) DeleteMember(ctx context.Context, memberID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", j.set.Table, j.set.MemberCol)
	if _, err := j.q.ExecContext(ctx, query, memberID); err != nil {
		return fmt.Errorf("delete %s: %w", j.set.Table, err)
	}
	return nil
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
