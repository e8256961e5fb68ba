package memory

import (
	"context"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

type eventRepository struct{ v *view }

func (r eventRepository) Claim(ctx context.Context, record *model.BillingEventRecord) (bool, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	if _, exists := st.events[record.ID]; exists {
		return false, nil
	}
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = r.v.store.now()
	}
	st.events[record.ID] = *record
	return true, nil
}

func (r eventRepository) Get(ctx context.Context, id string) (*model.BillingEventRecord, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	record, ok := st.events[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}
