package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
)

type listingRepository struct{ v *view }

func (r listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	for _, l := range st.listings {
		if l.ID == listing.ID {
			return repository.ErrDuplicate
		}
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = r.v.store.now()
	}
	st.listings = append(st.listings, *listing)
	return nil
}

func (r listingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Listing, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rows []model.Listing
	for _, l := range st.listings {
		if l.UserID == userID {
			rows = append(rows, l)
		}
	}
	rows = newestFirst(rows, func(l model.Listing) time.Time { return l.CreatedAt })

	start, end := page(len(rows), limit, offset)
	result := make([]*model.Listing, 0, end-start)
	for i := start; i < end; i++ {
		l := rows[i]
		result = append(result, &l)
	}
	return result, nil
}
