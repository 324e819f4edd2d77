package service

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/validation"
)

// UserService manages users and the symmetric friendship relation.
type UserService struct {
	users  UserStore
	events EventPublisher
	log    zerolog.Logger
}

func NewUserService(users UserStore, events EventPublisher, log zerolog.Logger) *UserService {
	if users == nil {
		panic("nil store passed to NewUserService")
	}
	return &UserService{users: users, events: events, log: log}
}

func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	return s.users.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Add(ctx context.Context, user model.User) (model.User, error) {
	if err := checkUser(&user); err != nil {
		return model.User{}, err
	}
	created, err := s.users.Add(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	s.log.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("user added")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, user model.User) (model.User, error) {
	if err := checkUser(&user); err != nil {
		return model.User{}, err
	}
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	s.log.Info().Int64("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// AddFriend makes userID and friendID friends of each other. Both rows are
// written; it reports whether either was new.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return false, err
	}
	a, err := s.users.AddFriend(ctx, userID, friendID)
	if err != nil {
		return false, err
	}
	b, err := s.users.AddFriend(ctx, friendID, userID)
	if err != nil {
		return a, err
	}
	if a || b {
		s.log.Info().Int64("user_id", userID).Int64("friend_id", friendID).Msg("friendship added")
		publish(ctx, s.events, s.log, queue.NewFriendEvent(queue.FriendAdded, userID, friendID))
	}
	return a || b, nil
}

// RemoveFriend ends the friendship in both directions.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return false, err
	}
	a, err := s.users.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return false, err
	}
	b, err := s.users.RemoveFriend(ctx, friendID, userID)
	if err != nil {
		return a, err
	}
	if a || b {
		s.log.Info().Int64("user_id", userID).Int64("friend_id", friendID).Msg("friendship removed")
		publish(ctx, s.events, s.log, queue.NewFriendEvent(queue.FriendRemoved, userID, friendID))
	}
	return a || b, nil
}

// GetFriends lists the friends of userID, ordered by id.
func (s *UserService) GetFriends(ctx context.Context, userID int64) ([]model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.GetFriends(ctx, userID)
}

// GetCommonFriends lists users who are friends of both userID and otherID.
func (s *UserService) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, err
	}
	return s.users.GetCommonFriends(ctx, userID, otherID)
}

// checkUser validates the payload and rejects a user listed among its own
// friends, the same rule AddFriend enforces.
func checkUser(user *model.User) error {
	if err := validation.Struct(user); err != nil {
		return err
	}
	if user.ID != 0 && slices.Contains(user.FriendIDs, user.ID) {
		return validation.New("friendIds", "a user cannot befriend themselves")
	}
	return nil
}

func (s *UserService) checkPair(ctx context.Context, userID, friendID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		return err
	}
	if userID == friendID {
		return validation.New("friendId", "a user cannot befriend themselves")
	}
	return nil
}
