package institutionrepofakes

import (
	"sort"
	"sync"

	"github.com/jrsteele09/clinic-gateway/institutions"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
)

var _ institutions.Repo = (*FakeInstitutionRepo)(nil)

type FakeInstitutionRepo struct {
	institutions map[int64]institutions.Institution
	nextID       int64
	lock         sync.RWMutex
}

func NewFakeInstitutionRepo() *FakeInstitutionRepo {
	return &FakeInstitutionRepo{
		institutions: make(map[int64]institutions.Institution),
		nextID:       1,
	}
}

// Upsert stores the institution, assigning the next free id when ID is zero
func (r *FakeInstitutionRepo) Upsert(institution *institutions.Institution) error {
	if err := institution.Validate(); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if institution.ID == 0 {
		institution.ID = r.nextID
	}
	if institution.ID >= r.nextID {
		r.nextID = institution.ID + 1
	}
	r.institutions[institution.ID] = *institution
	return nil
}

func (r *FakeInstitutionRepo) Get(id int64) (*institutions.Institution, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	institution, ok := r.institutions[id]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "institution %d", id)
	}
	return &institution, nil
}

// List returns institutions ordered by id. A limit of zero or less means
// no limit.
func (r *FakeInstitutionRepo) List(offset, limit int) ([]*institutions.Institution, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*institutions.Institution, 0, len(r.institutions))
	for _, i := range r.institutions {
		all = append(all, &i)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	if offset < 0 || offset >= len(all) {
		return []*institutions.Institution{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
