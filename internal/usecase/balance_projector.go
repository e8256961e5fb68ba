package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// LedgerPage is one page of a user's ledger history.
type LedgerPage struct {
	Entries []*model.LedgerEntry `json:"entries"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
	HasMore bool                 `json:"has_more"`
}

// BalanceProjector derives balances from the ledger and issues corrections.
type BalanceProjector struct {
	uow    domainRepo.UnitOfWork
	logger *zap.Logger
}

// NewBalanceProjector creates a new balance projector
func NewBalanceProjector(uow domainRepo.UnitOfWork, logger *zap.Logger) *BalanceProjector {
	return &BalanceProjector{
		uow:    uow,
		logger: logger,
	}
}

// Fold sums the deltas of entries.
func Fold(entries []model.LedgerEntry) int64 {
	var balance int64
	for _, e := range entries {
		balance += e.Delta
	}
	return balance
}

// BalanceOf sums the user's ledger at read time; there is no cached counter.
func (p *BalanceProjector) BalanceOf(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := p.uow.Stores().Ledger.SumByUser(ctx, userID)
	if err != nil {
		p.logger.Error("Failed to compute balance",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0, domainErrors.NewTransientError("balance of", err)
	}
	return balance, nil
}

// SetBalanceTo inserts the single row that moves the user's balance to
// target. It returns nil when the balance already equals target.
func (p *BalanceProjector) SetBalanceTo(ctx context.Context, userID uuid.UUID, target int64, reason model.LedgerReason) (*model.LedgerEntry, error) {
	if target < 0 {
		return nil, domainErrors.ErrNegativeTarget
	}
	if reason != model.LedgerReasonCorrection && reason != model.LedgerReasonAdminAdjustment {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidReason, reason)
	}

	var inserted *model.LedgerEntry
	var current int64
	err := p.uow.Within(ctx, func(s domainRepo.Stores) error {
		inserted = nil

		// Serialises corrections for the same user.
		if _, err := s.Profiles.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		balance, err := s.Ledger.SumByUser(ctx, userID)
		if err != nil {
			return err
		}
		current = balance

		delta := target - balance
		if delta == 0 {
			return nil
		}

		entry := &model.LedgerEntry{
			UserID: userID,
			Delta:  delta,
			Reason: reason,
		}
		if err := s.Ledger.Insert(ctx, entry); err != nil {
			return err
		}
		inserted = entry
		return nil
	})
	if err != nil {
		p.logger.Error("Failed to set balance",
			zap.String("user_id", userID.String()),
			zap.Int64("target", target),
			zap.Error(err))
		return nil, domainErrors.NewTransientError("set balance", err)
	}

	if inserted == nil {
		p.logger.Info("Balance already at target",
			zap.String("user_id", userID.String()),
			zap.Int64("balance", current))
		return nil, nil
	}

	p.logger.Info("Balance corrected",
		zap.String("user_id", userID.String()),
		zap.Int64("previous", current),
		zap.Int64("target", target),
		zap.Int64("delta", inserted.Delta),
		zap.String("reason", string(reason)))
	return inserted, nil
}

// History returns a page of the user's ledger, newest first.
func (p *BalanceProjector) History(ctx context.Context, userID uuid.UUID, limit, offset int) (*LedgerPage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	ledger := p.uow.Stores().Ledger
	entries, err := ledger.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domainErrors.NewTransientError("ledger history", err)
	}
	total, err := ledger.CountByUser(ctx, userID)
	if err != nil {
		return nil, domainErrors.NewTransientError("ledger history", err)
	}

	if entries == nil {
		entries = []*model.LedgerEntry{}
	}
	return &LedgerPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(entries)) < total,
	}, nil
}

// Profile returns the user's plan, the free plan when the user has none yet.
func (p *BalanceProjector) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := p.uow.Stores().Profiles.Get(ctx, userID)
	if err != nil {
		return nil, domainErrors.NewTransientError("get profile", err)
	}
	if profile == nil {
		return model.NewProfile(userID), nil
	}
	return profile, nil
}

// OverridePlan sets a user's plan by administrative action. It is not
// subject to the replay guard and does not grant credits.
func (p *BalanceProjector) OverridePlan(ctx context.Context, userID uuid.UUID, tier entity.PlanTier, status entity.PlanStatus) (*model.Profile, error) {
	if !tier.Valid() || !status.Valid() {
		return nil, fmt.Errorf("%w: %s/%s", domainErrors.ErrInvalidPlan, tier, status)
	}

	var saved *model.Profile
	err := p.uow.Within(ctx, func(s domainRepo.Stores) error {
		profile, err := s.Profiles.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !entity.IsExpectedTransition(profile.PlanStatus, status) {
			p.logger.Warn("Admin override outside the normal lifecycle",
				zap.String("user_id", userID.String()),
				zap.String("from", string(profile.PlanStatus)),
				zap.String("to", string(status)))
		}
		profile.PlanTier = tier
		profile.PlanStatus = status
		if err := s.Profiles.Save(ctx, profile); err != nil {
			return err
		}
		saved = profile
		return nil
	})
	if err != nil {
		return nil, domainErrors.NewTransientError("override plan", err)
	}

	p.logger.Info("Plan overridden",
		zap.String("user_id", userID.String()),
		zap.String("tier", string(tier)),
		zap.String("status", string(status)))
	return saved, nil
}

// Payments returns the money received from the user, newest first.
func (p *BalanceProjector) Payments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Payment, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	payments, err := p.uow.Stores().Payments.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domainErrors.NewTransientError("list payments", err)
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	return payments, nil
}
