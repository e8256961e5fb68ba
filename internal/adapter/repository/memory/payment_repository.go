package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
)

type paymentRepository struct{ v *view }

func (r paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	for _, p := range st.payments {
		if p.EventID == payment.EventID {
			return repository.ErrDuplicate
		}
	}

	st.nextPaymentID++
	payment.ID = st.nextPaymentID
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = r.v.store.now()
	}
	st.payments = append(st.payments, *payment)
	return nil
}

func (r paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Payment, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rows []model.Payment
	for _, p := range st.payments {
		if p.UserID == userID {
			rows = append(rows, p)
		}
	}
	rows = newestFirst(rows, func(p model.Payment) time.Time { return p.CreatedAt })

	start, end := page(len(rows), limit, offset)
	result := make([]*model.Payment, 0, end-start)
	for i := start; i < end; i++ {
		p := rows[i]
		result = append(result, &p)
	}
	return result, nil
}
