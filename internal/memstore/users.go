package memstore

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

// Users is the user view of a Store.
type Users struct {
	s *Store
}

func (u *Users) GetByID(_ context.Context, id int64) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	return u.s.user(id)
}

func (u *Users) GetAll(_ context.Context) ([]model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	return u.s.usersByID(sortedKeys(u.s.users)), nil
}

func (u *Users) Add(ctx context.Context, user model.User) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[user.ID]; user.ID != 0 && ok {
		return model.User{}, &repository.AlreadyExistsError{Entity: repository.EntityUser, ID: user.ID}
	}
	if err := u.s.checkUsers(user.FriendIDs); err != nil {
		return model.User{}, err
	}
	user.ApplyDefaultName()
	user.ID = u.s.userSeq.Add(1)
	if err := u.s.saveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return u.s.user(user.ID)
}

func (u *Users) Update(ctx context.Context, user model.User) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[user.ID]; !ok {
		return model.User{}, &repository.NotFoundError{Entity: repository.EntityUser, ID: user.ID}
	}
	if err := u.s.checkUsers(user.FriendIDs); err != nil {
		return model.User{}, err
	}
	user.ApplyDefaultName()
	if err := u.s.saveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return u.s.user(user.ID)
}

// Delete removes the user with friend rows on both sides and its likes.
func (u *Users) Delete(_ context.Context, id int64) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[id]; !ok {
		return &repository.NotFoundError{Entity: repository.EntityUser, ID: id}
	}
	delete(u.s.friends, id)
	junction(u.s.friends).dropMember(id)
	junction(u.s.filmLikes).dropMember(id)
	delete(u.s.users, id)
	return nil
}

func (u *Users) AddFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	f := junction(u.s.friends)
	if f.contains(userID, otherID) {
		return false, nil
	}
	return true, f.Insert(ctx, userID, []int64{otherID})
}

func (u *Users) RemoveFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	f := junction(u.s.friends)
	if !f.contains(userID, otherID) {
		return false, nil
	}
	return true, f.Delete(ctx, userID, []int64{otherID})
}

func (u *Users) GetFriends(_ context.Context, userID int64) ([]model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	return u.s.usersByID(junction(u.s.friends).sorted(userID)), nil
}

func (u *Users) GetCommonFriends(_ context.Context, userID, otherID int64) ([]model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	f := junction(u.s.friends)
	common := make([]int64, 0)
	for _, id := range f.sorted(userID) {
		if f.contains(otherID, id) {
			common = append(common, id)
		}
	}
	return u.s.usersByID(common), nil
}

func (s *Store) user(id int64) (model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return model.User{}, &repository.NotFoundError{Entity: repository.EntityUser, ID: id}
	}
	user.FriendIDs = junction(s.friends).sorted(id)
	return user, nil
}

// usersByID skips ids that no longer resolve.
func (s *Store) usersByID(ids []int64) []model.User {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if user, err := s.user(id); err == nil {
			out = append(out, user)
		}
	}
	return out
}

func (s *Store) saveUser(ctx context.Context, user model.User) error {
	if err := repository.Reconcile[int64](ctx, junction(s.friends), user.ID, user.FriendIDs); err != nil {
		return err
	}
	user.FriendIDs = nil
	s.users[user.ID] = user
	return nil
}

func (s *Store) checkUsers(ids []int64) error {
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			return &repository.NotFoundError{Entity: repository.EntityUser, ID: id}
		}
	}
	return nil
}
