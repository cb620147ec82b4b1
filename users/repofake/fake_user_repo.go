package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/jrsteele09/clinic-gateway/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int64]*users.User
	emailIds map[string]int64 // email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		emailIds: make(map[string]int64),
		nextID:   1,
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ur *FakeUserRepo) Create(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := normaliseEmail(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return apperrors.Wrapf(apperrors.ErrConflict, "user %s", user.Email)
	}

	stored := *user
	stored.ID = ur.nextID
	ur.nextID++
	ur.users[stored.ID] = &stored
	ur.emailIds[email] = stored.ID
	user.ID = stored.ID
	return nil
}

func (ur *FakeUserRepo) Update(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok || existing.InstitutionID != user.InstitutionID {
		return apperrors.ErrNotFound
	}

	oldEmail := normaliseEmail(existing.Email)
	newEmail := normaliseEmail(user.Email)
	if newEmail != oldEmail {
		if _, taken := ur.emailIds[newEmail]; taken {
			return apperrors.Wrapf(apperrors.ErrConflict, "user %s", user.Email)
		}
		delete(ur.emailIds, oldEmail)
		ur.emailIds[newEmail] = user.ID
	}

	stored := *user
	ur.users[user.ID] = &stored
	return nil
}

func (ur *FakeUserRepo) Delete(institutionID, id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[id]
	if !ok || existing.InstitutionID != institutionID {
		return apperrors.ErrNotFound
	}
	delete(ur.emailIds, normaliseEmail(existing.Email))
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByID(institutionID, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok || user.InstitutionID != institutionID {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[normaliseEmail(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *ur.users[id]
	return &copied, nil
}

func (ur *FakeUserRepo) List(institutionID int64, role jwt.Role) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.User, 0)
	for _, u := range ur.users {
		if u.InstitutionID != institutionID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		copied := *u
		list = append(list, &copied)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}
