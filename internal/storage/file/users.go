package file

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"hotelier/internal/booking"
	"hotelier/internal/idgen"
	"hotelier/internal/logger"
)

type userCounters struct {
	Users int64 `json:"usersCounter"`
}

type userSnapshot struct {
	Counters userCounters    `json:"counters"`
	Users    []*booking.User `json:"users"`
}

type UserStore struct {
	mu    sync.RWMutex
	l     *logger.Logger
	path  string
	seq   *idgen.Sequence
	fresh bool

	users []*booking.User
	byKey map[string]*booking.User
}

func OpenUserStore(conf Config) (*UserStore, error) {
	s := &UserStore{
		l:     conf.L,
		path:  conf.Path,
		seq:   idgen.NewSequence(),
		byKey: make(map[string]*booking.User),
	}

	var snap userSnapshot

	fresh, err := readSnapshot(conf.Path, &snap)
	if err != nil {
		return nil, errors.Wrap(err, "open user store")
	}

	s.fresh = fresh
	if fresh {
		return s, nil
	}

	if err := s.seq.Restore(idgen.KindUser, snap.Counters.Users); err != nil {
		return nil, errors.Mark(err, ErrCorruptSnapshot)
	}

	for _, user := range snap.Users {
		if _, ok := s.byKey[user.Login]; ok {
			return nil, errors.Mark(
				errors.Newf("duplicate login %q in %s", user.Login, conf.Path),
				ErrCorruptSnapshot,
			)
		}

		s.users = append(s.users, user)
		s.byKey[user.Login] = user
	}

	return s, nil
}

func (s *UserStore) Fresh() bool {
	return s.fresh
}

func (s *UserStore) Add(_ context.Context, login, name, lastName string) (*booking.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[login]; ok {
		return nil, booking.ErrDuplicate
	}

	user := &booking.User{
		ID:       s.seq.Next(idgen.KindUser),
		Login:    login,
		Name:     name,
		LastName: lastName,
	}

	s.users = append(s.users, user)
	s.byKey[login] = user

	if err := s.persistLocked(); err != nil {
		s.users = s.users[:len(s.users)-1]
		delete(s.byKey, login)
		s.seq.Rewind(idgen.KindUser)

		return nil, err
	}

	return user.Clone(), nil
}

func (s *UserStore) Update(_ context.Context, login, name, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byKey[login]
	if !ok {
		return booking.ErrNotFound
	}

	oldName, oldLastName := user.Name, user.LastName
	user.Name = name
	user.LastName = lastName

	if err := s.persistLocked(); err != nil {
		user.Name = oldName
		user.LastName = oldLastName

		return err
	}

	return nil
}

func (s *UserStore) Delete(_ context.Context, login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byKey[login]
	if !ok {
		return booking.ErrNotFound
	}

	idx := -1

	for i, item := range s.users {
		if item.Login == login {
			idx = i

			break
		}
	}

	s.users = append(s.users[:idx], s.users[idx+1:]...)
	delete(s.byKey, login)

	if err := s.persistLocked(); err != nil {
		s.users = append(s.users[:idx], append([]*booking.User{user}, s.users[idx:]...)...)
		s.byKey[login] = user

		return err
	}

	return nil
}

func (s *UserStore) ByLogin(login string) (*booking.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byKey[login]
	if !ok {
		return nil, false
	}

	return user.Clone(), true
}

func (s *UserStore) All() []*booking.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user.Clone())
	}

	return result
}

func (s *UserStore) persistLocked() error {
	snap := userSnapshot{
		Counters: userCounters{Users: s.seq.Value(idgen.KindUser)},
		Users:    s.users,
	}

	if err := writeSnapshot(s.path, &snap); err != nil {
		s.l.LogErrorf("Failed to persist user snapshot, rolling mutation back: %v", err.Error())

		return err
	}

	return nil
}
