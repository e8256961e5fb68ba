package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
)

type profileRepository struct{ v *view }

// GetForUpdate needs no row lock here: units of work are already serialised
// by the store mutex.
func (r profileRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	p, ok := st.profiles[userID]
	if !ok {
		now := r.v.store.now()
		p = *model.NewProfile(userID)
		p.CreatedAt = now
		p.UpdatedAt = now
		st.profiles[userID] = p
	}
	return &p, nil
}

func (r profileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	p, ok := st.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r profileRepository) GetByCustomerRef(ctx context.Context, customerRef string) (*model.Profile, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	for _, p := range st.profiles {
		if p.CustomerRef != nil && *p.CustomerRef == customerRef {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if profile.CustomerRef != nil {
		for id, p := range st.profiles {
			if id != profile.UserID && p.CustomerRef != nil && *p.CustomerRef == *profile.CustomerRef {
				return repository.ErrDuplicate
			}
		}
	}

	now := r.v.store.now()
	if existing, ok := st.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	st.profiles[profile.UserID] = *profile
	return nil
}
