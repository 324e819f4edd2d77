package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// UserRepo persists users and their outbound friendship rows.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userSelect = "SELECT u.id, u.email, u.login, u.name, u.birthday FROM users u"

// GetByID fetches a user with friend ids resolved.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	users, err := r.load(ctx, userSelect+" WHERE u.id = ?", id)
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, notFound(EntityUser, id)
	}
	return users[0], nil
}

// GetAll returns every user ordered by id.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	return r.load(ctx, userSelect+" ORDER BY u.id")
}

// Add inserts a user. A blank name is replaced by the login.
func (r *UserRepo) Add(ctx context.Context, user model.User) (model.User, error) {
	if user.ID != 0 {
		found, err := exists(ctx, r.db, "SELECT 1 FROM users WHERE id = ?", user.ID)
		if err != nil {
			return model.User{}, fmt.Errorf("check user: %w", err)
		}
		if found {
			return model.User{}, alreadyExists(EntityUser, user.ID)
		}
	}
	user.ApplyDefaultName()

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if fid, missing, err := missingID(ctx, tx, "users", user.FriendIDs); err != nil {
			return err
		} else if missing {
			return notFound(EntityUser, fid)
		}
		const q = "INSERT INTO users (email, login, name, birthday) VALUES (?, ?, ?, ?)"
		res, err := tx.ExecContext(ctx, q, user.Email, user.Login, user.Name, user.Birthday)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if err := Reconcile[int64](ctx, friends.On(tx), id, user.FriendIDs); err != nil {
			return fmt.Errorf("sync friends: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Update overwrites an existing user and reconciles its outbound friend rows.
func (r *UserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	user.ApplyDefaultName()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM users WHERE id = ?", user.ID)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !found {
			return notFound(EntityUser, user.ID)
		}
		if fid, missing, err := missingID(ctx, tx, "users", user.FriendIDs); err != nil {
			return err
		} else if missing {
			return notFound(EntityUser, fid)
		}
		const q = "UPDATE users SET email = ?, login = ?, name = ?, birthday = ? WHERE id = ?"
		if _, err := tx.ExecContext(ctx, q, user.Email, user.Login, user.Name, user.Birthday, user.ID); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := Reconcile[int64](ctx, friends.On(tx), user.ID, user.FriendIDs); err != nil {
			return fmt.Errorf("sync friends: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, user.ID)
}

// Delete removes the user, friend rows on both sides and the user's likes.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM users WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if !found {
			return notFound(EntityUser, id)
		}
		f := friends.On(tx)
		if err := f.DeleteOwner(ctx, id); err != nil {
			return err
		}
		if err := f.DeleteMember(ctx, id); err != nil {
			return err
		}
		if err := filmLikes.On(tx).DeleteMember(ctx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// AddFriend writes the single directed row userID -> otherID if missing and
// reports whether it did.
func (r *UserRepo) AddFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	var changed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		f := friends.On(tx)
		has, err := f.Contains(ctx, userID, otherID)
		if err != nil || has {
			return err
		}
		changed = true
		return f.Insert(ctx, userID, []int64{otherID})
	})
	return changed, err
}

// RemoveFriend drops the directed row userID -> otherID if present.
func (r *UserRepo) RemoveFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	var changed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		f := friends.On(tx)
		has, err := f.Contains(ctx, userID, otherID)
		if err != nil || !has {
			return err
		}
		changed = true
		return f.Delete(ctx, userID, []int64{otherID})
	})
	return changed, err
}

// GetFriends returns the users that userID points at, ordered by id.
func (r *UserRepo) GetFriends(ctx context.Context, userID int64) ([]model.User, error) {
	const q = userSelect + ` JOIN friends f ON f.friend_id = u.id
		WHERE f.user_id = ?
		ORDER BY u.id`
	return r.load(ctx, q, userID)
}

// GetCommonFriends returns the users both userID and otherID point at.
func (r *UserRepo) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error) {
	const q = userSelect + ` JOIN friends a ON a.friend_id = u.id AND a.user_id = ?
		JOIN friends b ON b.friend_id = u.id AND b.user_id = ?
		ORDER BY u.id`
	return r.load(ctx, q, userID, otherID)
}

func (r *UserRepo) load(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday); err != nil {
			rows.Close()
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(users) == 0 {
		return users, nil
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	friendIDs, err := friends.On(r.db).CurrentMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].FriendIDs = friendIDs[users[i].ID]
	}
	return users, nil
}
