package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	pkgErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/errors"
	"go.uber.org/zap"
)

// ListingInput are the property facts a listing is written from.
type ListingInput struct {
	Kind       model.ListingKind `json:"kind" validate:"required,oneof=sale rental"`
	Title      string            `json:"title" validate:"required,max=200"`
	Address    string            `json:"address" validate:"required,max=300"`
	Bedrooms   int               `json:"bedrooms" validate:"gte=0,lte=100"`
	Bathrooms  float64           `json:"bathrooms" validate:"gte=0,lte=100"`
	SquareFeet int               `json:"square_feet" validate:"gte=0"`
	Price      string            `json:"price,omitempty" validate:"max=50"`
	Features   []string          `json:"features,omitempty" validate:"max=30,dive,max=200"`
	Tone       string            `json:"tone,omitempty" validate:"omitempty,oneof=professional friendly luxury concise"`
}

// GeneratedCopy is the text returned by a Generator.
type GeneratedCopy struct {
	Text  string
	Model string
}

// Generator writes listing copy.
type Generator interface {
	Generate(ctx context.Context, input ListingInput) (*GeneratedCopy, error)
}

// ListingService charges credits for generated listings and stores them.
type ListingService struct {
	uow       domainRepo.UnitOfWork
	generator Generator
	cost      int64
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(uow domainRepo.UnitOfWork, generator Generator, cost int64, logger *zap.Logger) *ListingService {
	return &ListingService{
		uow:       uow,
		generator: generator,
		cost:      cost,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Generate debits the user, writes the listing and stores it. A failed
// generation is refunded with a compensating ledger row.
func (s *ListingService) Generate(ctx context.Context, userID uuid.UUID, input ListingInput) (*model.Listing, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgErrors.NewAppError(pkgErrors.ErrInvalidArgument, "invalid listing input", err)
	}

	listingID := uuid.New()
	ref := listingID.String()

	charged, err := s.charge(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(ctx, input)
	if err != nil {
		s.logger.Error("Listing generation failed",
			zap.String("user_id", userID.String()),
			zap.String("listing_id", ref),
			zap.Error(err))
		s.refund(ctx, userID, charged, ref)
		return nil, pkgErrors.NewAppError(pkgErrors.ErrUnavailable, "listing generation failed", err)
	}

	facts, err := model.ToJSONB(input)
	if err != nil {
		s.refund(ctx, userID, charged, ref)
		return nil, fmt.Errorf("failed to encode listing facts: %w", err)
	}

	listing := &model.Listing{
		ID:           listingID,
		UserID:       userID,
		Kind:         input.Kind,
		Title:        input.Title,
		Facts:        facts,
		Copy:         generated.Text,
		Model:        generated.Model,
		CreditsSpent: charged,
	}
	if err := s.uow.Stores().Listings.Create(ctx, listing); err != nil {
		s.refund(ctx, userID, charged, ref)
		return nil, domainErrors.NewTransientError("store listing", err)
	}

	s.logger.Info("Listing generated",
		zap.String("user_id", userID.String()),
		zap.String("listing_id", ref),
		zap.Int64("credits_spent", charged))
	return listing, nil
}

// List returns the user's listings, newest first.
func (s *ListingService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Listing, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	listings, err := s.uow.Stores().Listings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domainErrors.NewTransientError("list listings", err)
	}
	if listings == nil {
		listings = []*model.Listing{}
	}
	return listings, nil
}

// charge inserts the usage row under the profile lock so two generations
// cannot spend the same credits. Unlimited plans are not charged.
func (s *ListingService) charge(ctx context.Context, userID uuid.UUID, ref string) (int64, error) {
	var charged int64
	err := s.uow.Within(ctx, func(st domainRepo.Stores) error {
		charged = 0

		profile, err := st.Profiles.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if profile.Unlimited() || s.cost == 0 {
			return nil
		}

		balance, err := st.Ledger.SumByUser(ctx, userID)
		if err != nil {
			return err
		}
		if balance < s.cost {
			return domainErrors.NewInsufficientCreditsError(s.cost, balance)
		}

		if err := st.Ledger.Insert(ctx, &model.LedgerEntry{
			UserID:      userID,
			Delta:       -s.cost,
			Reason:      model.LedgerReasonUsage,
			ExternalRef: &ref,
		}); err != nil {
			return err
		}
		charged = s.cost
		return nil
	})
	if err != nil {
		var insufficient *domainErrors.InsufficientCreditsError
		if pkgErrors.As(err, &insufficient) {
			return 0, pkgErrors.NewAppError(pkgErrors.ErrPaymentRequired, "not enough credits", err)
		}
		return 0, domainErrors.NewTransientError("charge listing", err)
	}
	return charged, nil
}

func (s *ListingService) refund(ctx context.Context, userID uuid.UUID, amount int64, ref string) {
	if amount == 0 {
		return
	}
	// The refund must land even when the request context is already done.
	err := s.uow.Stores().Ledger.Insert(context.WithoutCancel(ctx), &model.LedgerEntry{
		UserID:      userID,
		Delta:       amount,
		Reason:      model.LedgerReasonRefund,
		ExternalRef: &ref,
	})
	if err != nil {
		s.logger.Error("Failed to refund listing charge",
			zap.String("user_id", userID.String()),
			zap.String("listing_id", ref),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}
