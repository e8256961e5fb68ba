package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/messaging"
	"go.uber.org/zap"
)

// BillingEventsChannel is the channel applied billing events are announced on.
const BillingEventsChannel = "billing.events"

// ReconciliationEngine turns verified billing events into ledger rows and
// plan changes, at most once per event id.
type ReconciliationEngine struct {
	uow       domainRepo.UnitOfWork
	catalog   *catalog.Catalog
	publisher messaging.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewReconciliationEngine creates a new reconciliation engine
func NewReconciliationEngine(
	uow domainRepo.UnitOfWork,
	cat *catalog.Catalog,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *ReconciliationEngine {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &ReconciliationEngine{
		uow:       uow,
		catalog:   cat,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Process applies one event. The event id is claimed in the same transaction
// as the mutations, so a failed event leaves no trace and can be redelivered.
func (e *ReconciliationEngine) Process(ctx context.Context, event entity.BillingEvent) (entity.ProcessingResult, error) {
	result := entity.ProcessingResult{EventID: event.ID, Kind: event.Kind}

	if event.ID == "" {
		return result, fmt.Errorf("%w: missing event id", domainErrors.ErrInvalidEvent)
	}

	if !event.Kind.Recognized() {
		e.logger.Info("Ignoring unrecognized billing event",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)))
		result.Outcome = entity.OutcomeUnrecognizedEventKind
		return result, nil
	}

	if err := event.Validate(); err != nil {
		e.logger.Error("Rejecting malformed billing event",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return result, fmt.Errorf("%w: %v", domainErrors.ErrInvalidEvent, err)
	}

	payload, err := model.ToJSONB(event)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domainErrors.ErrInvalidEvent, err)
	}
	record := &model.BillingEventRecord{
		ID:         event.ID,
		Kind:       string(event.Kind),
		Payload:    payload,
		OccurredAt: event.CreatedAt,
		ReceivedAt: e.now(),
	}

	var applied entity.ProcessingResult
	err = e.uow.Within(ctx, func(s domainRepo.Stores) error {
		applied = result

		claimed, err := s.Events.Claim(ctx, record)
		if err != nil {
			return err
		}
		if !claimed {
			applied.Outcome = entity.OutcomeDuplicateSkipped
			return nil
		}

		return e.dispatch(ctx, s, &event, &applied)
	})
	if err != nil {
		return result, e.classify(&event, err)
	}

	switch applied.Outcome {
	case entity.OutcomeDuplicateSkipped:
		e.logger.Info("Billing event already handled",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)))
	case entity.OutcomeApplied:
		e.logger.Info("Billing event applied",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.String("user_id", applied.UserID.String()),
			zap.Int64("credits_granted", applied.CreditsGranted),
			zap.String("tier", string(applied.Tier)),
			zap.String("status", string(applied.Status)))
		e.notify(ctx, applied)
	}

	return applied, nil
}

// Acknowledge tells the webhook boundary whether the provider may stop
// redelivering the event.
func (e *ReconciliationEngine) Acknowledge(result entity.ProcessingResult, err error) bool {
	if err != nil {
		return false
	}
	switch result.Outcome {
	case entity.OutcomeApplied, entity.OutcomeDuplicateSkipped,
		entity.OutcomeUnrecognizedEventKind, entity.OutcomeUnresolvedUser:
		return true
	}
	return false
}

func (e *ReconciliationEngine) classify(event *entity.BillingEvent, err error) error {
	var cfgErr *domainErrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		e.logger.Error("Billing event references a price missing from the catalog",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.String("price_id", cfgErr.PriceID),
			zap.Error(err))
		return err
	}

	e.logger.Warn("Billing event not applied, awaiting redelivery",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.Error(err))
	return domainErrors.NewTransientError("process billing event", err)
}

func (e *ReconciliationEngine) dispatch(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, result *entity.ProcessingResult) error {
	switch event.Kind {
	case entity.EventKindCheckoutCompleted:
		if event.Checkout.Mode == entity.CheckoutModeOneTime {
			return e.applyPurchase(ctx, s, event, result)
		}
		tier, err := e.tierForPrice(event, event.Checkout.PriceID)
		if err != nil {
			return err
		}
		return e.applyPlanChange(ctx, s, event, tier, entity.PlanStatusActive, event.Checkout.SubscriptionID, result)

	case entity.EventKindSubscriptionUpdated:
		tier, err := e.tierForPrice(event, event.Subscription.PriceID)
		if err != nil {
			return err
		}
		status, ok := entity.PlanStatusFromProvider(event.Subscription.ProviderStatus)
		if !ok {
			e.logger.Info("Subscription status carries no plan change",
				zap.String("event_id", event.ID),
				zap.String("subscription_id", event.Subscription.SubscriptionID),
				zap.String("provider_status", event.Subscription.ProviderStatus))
			return e.observeProfile(ctx, s, event, result)
		}
		return e.applyPlanChange(ctx, s, event, tier, status, event.Subscription.SubscriptionID, result)

	case entity.EventKindSubscriptionDeleted:
		return e.applyPlanChange(ctx, s, event, entity.PlanTierFree, entity.PlanStatusCanceled, event.Subscription.SubscriptionID, result)

	case entity.EventKindInvoicePaid:
		return e.applyRenewal(ctx, s, event, result)
	}

	return fmt.Errorf("no handler for kind %s", event.Kind)
}

func (e *ReconciliationEngine) applyPurchase(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, result *entity.ProcessingResult) error {
	checkout := event.Checkout

	credits, err := e.catalog.CreditsForPrice(checkout.PriceID)
	if err != nil {
		return &domainErrors.ConfigurationError{EventID: event.ID, PriceID: checkout.PriceID, Err: err}
	}

	userID, ok, err := e.resolveUser(ctx, s, event, result)
	if err != nil || !ok {
		return err
	}
	result.UserID = userID

	if err := e.linkCustomer(ctx, s, userID, checkout.CustomerID); err != nil {
		return err
	}

	sessionRef := checkout.SessionID
	if err := e.insertLedger(ctx, s, result, &model.LedgerEntry{
		UserID:      userID,
		Delta:       credits,
		Reason:      model.LedgerReasonPurchase,
		ExternalRef: &sessionRef,
	}); err != nil {
		return err
	}

	if err := e.recordPayment(ctx, s, event, userID, checkout.SessionID, checkout.AmountTotal, checkout.Currency); err != nil {
		return err
	}

	result.Outcome = entity.OutcomeApplied
	return nil
}

func (e *ReconciliationEngine) applyPlanChange(
	ctx context.Context,
	s domainRepo.Stores,
	event *entity.BillingEvent,
	tier entity.PlanTier,
	status entity.PlanStatus,
	subscriptionID string,
	result *entity.ProcessingResult,
) error {
	userID, ok, err := e.resolveUser(ctx, s, event, result)
	if err != nil || !ok {
		return err
	}
	result.UserID = userID

	profile, err := s.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	linked, err := e.attachCustomer(ctx, s, profile, customerOf(event))
	if err != nil {
		return err
	}

	prevTier, prevStatus := profile.PlanTier, profile.PlanStatus
	result.PreviousTier, result.PreviousStatus = prevTier, prevStatus
	result.Outcome = entity.OutcomeApplied

	if isStale(profile, event) {
		e.logger.Info("Ignoring stale subscription event for plan state",
			zap.String("event_id", event.ID),
			zap.String("user_id", userID.String()),
			zap.Time("event_created_at", event.CreatedAt),
			zap.Time("plan_event_at", *profile.PlanEventAt))
		result.Stale = true
		result.Tier, result.Status = prevTier, prevStatus
		if linked {
			return s.Profiles.Save(ctx, profile)
		}
		return nil
	}

	if !entity.IsExpectedTransition(prevStatus, status) {
		result.UnexpectedTransition = true
		e.logger.Warn("Unexpected plan status transition",
			zap.String("event_id", event.ID),
			zap.String("user_id", userID.String()),
			zap.String("from", string(prevStatus)),
			zap.String("to", string(status)))
	}

	profile.PlanTier = tier
	profile.PlanStatus = status
	if !event.CreatedAt.IsZero() {
		at := event.CreatedAt
		profile.PlanEventAt = &at
	}
	if err := s.Profiles.Save(ctx, profile); err != nil {
		return err
	}
	result.Tier, result.Status = tier, status

	if !isActivation(prevTier, prevStatus, status) {
		return nil
	}
	credits, unlimited := e.catalog.Allotment(tier)
	if unlimited || credits == 0 {
		return nil
	}

	ref := subscriptionID
	return e.insertLedger(ctx, s, result, &model.LedgerEntry{
		UserID:      userID,
		Delta:       credits,
		Reason:      model.LedgerReasonSubscriptionGrant,
		ExternalRef: &ref,
	})
}

func (e *ReconciliationEngine) applyRenewal(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, result *entity.ProcessingResult) error {
	invoice := event.Invoice

	tier, err := e.tierForPrice(event, invoice.PriceID)
	if err != nil {
		return err
	}

	userID, ok, err := e.resolveUser(ctx, s, event, result)
	if err != nil || !ok {
		return err
	}
	result.UserID = userID

	profile, err := s.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	linked, err := e.attachCustomer(ctx, s, profile, invoice.CustomerID)
	if err != nil {
		return err
	}
	if linked {
		if err := s.Profiles.Save(ctx, profile); err != nil {
			return err
		}
	}

	result.Outcome = entity.OutcomeApplied
	result.PreviousTier, result.PreviousStatus = profile.PlanTier, profile.PlanStatus
	result.Tier, result.Status = profile.PlanTier, profile.PlanStatus

	if profile.PlanStatus == entity.PlanStatusCanceled {
		result.UnexpectedTransition = true
		e.logger.Warn("Invoice paid for a canceled plan",
			zap.String("event_id", event.ID),
			zap.String("user_id", userID.String()),
			zap.String("subscription_id", invoice.SubscriptionID))
	}

	if err := e.recordPayment(ctx, s, event, userID, invoice.InvoiceID, invoice.AmountPaid, invoice.Currency); err != nil {
		return err
	}

	// The first invoice of a subscription is covered by the activation grant.
	if invoice.BillingReason == entity.BillingReasonSubscriptionCreate {
		return nil
	}

	credits, unlimited := e.catalog.Allotment(tier)
	if unlimited || credits == 0 {
		return nil
	}

	ref := invoice.InvoiceID
	return e.insertLedger(ctx, s, result, &model.LedgerEntry{
		UserID:      userID,
		Delta:       credits,
		Reason:      model.LedgerReasonSubscriptionRenewal,
		ExternalRef: &ref,
	})
}

// observeProfile resolves the user of an event that changes nothing but the
// customer link.
func (e *ReconciliationEngine) observeProfile(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, result *entity.ProcessingResult) error {
	userID, ok, err := e.resolveUser(ctx, s, event, result)
	if err != nil || !ok {
		return err
	}
	result.UserID = userID
	result.Outcome = entity.OutcomeApplied

	profile, err := s.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	result.PreviousTier, result.PreviousStatus = profile.PlanTier, profile.PlanStatus
	result.Tier, result.Status = profile.PlanTier, profile.PlanStatus

	linked, err := e.attachCustomer(ctx, s, profile, customerOf(event))
	if err != nil || !linked {
		return err
	}
	return s.Profiles.Save(ctx, profile)
}

// resolveUser finds the user an event belongs to: the explicit user id
// first, then the profile linked to the provider customer. When neither
// matches the result is marked unresolved and ok is false; the claim still
// commits so the event is not redelivered forever.
func (e *ReconciliationEngine) resolveUser(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, result *entity.ProcessingResult) (uuid.UUID, bool, error) {
	hint, customerID := event.UserHint()

	if hint != "" {
		userID, err := uuid.Parse(hint)
		if err == nil {
			return userID, true, nil
		}
		e.logger.Warn("Ignoring malformed user id on billing event",
			zap.String("event_id", event.ID),
			zap.String("user_id", hint))
	}

	if customerID != "" {
		profile, err := s.Profiles.GetByCustomerRef(ctx, customerID)
		if err != nil {
			return uuid.Nil, false, err
		}
		if profile != nil {
			return profile.UserID, true, nil
		}
	}

	e.logger.Error("Could not resolve user for billing event",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("customer_id", customerID))
	result.Outcome = entity.OutcomeUnresolvedUser
	return uuid.Nil, false, nil
}

func (e *ReconciliationEngine) linkCustomer(ctx context.Context, s domainRepo.Stores, userID uuid.UUID, customerID string) error {
	if customerID == "" {
		return nil
	}
	profile, err := s.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	linked, err := e.attachCustomer(ctx, s, profile, customerID)
	if err != nil || !linked {
		return err
	}
	return s.Profiles.Save(ctx, profile)
}

// attachCustomer sets the customer ref on a profile that has none, unless
// another profile already owns it. It reports whether the profile changed.
func (e *ReconciliationEngine) attachCustomer(ctx context.Context, s domainRepo.Stores, profile *model.Profile, customerID string) (bool, error) {
	if customerID == "" || profile.CustomerRef != nil {
		return false, nil
	}
	owner, err := s.Profiles.GetByCustomerRef(ctx, customerID)
	if err != nil {
		return false, err
	}
	if owner != nil {
		if owner.UserID != profile.UserID {
			e.logger.Warn("Customer already linked to another user",
				zap.String("customer_id", customerID),
				zap.String("user_id", profile.UserID.String()),
				zap.String("owner_id", owner.UserID.String()))
		}
		return false, nil
	}
	ref := customerID
	profile.CustomerRef = &ref
	return true, nil
}

func (e *ReconciliationEngine) insertLedger(ctx context.Context, s domainRepo.Stores, result *entity.ProcessingResult, entry *model.LedgerEntry) error {
	if err := s.Ledger.Insert(ctx, entry); err != nil {
		return err
	}
	result.CreditsGranted += entry.Delta
	result.LedgerEntries++
	return nil
}

func (e *ReconciliationEngine) recordPayment(ctx context.Context, s domainRepo.Stores, event *entity.BillingEvent, userID uuid.UUID, providerRef string, amount int64, currency string) error {
	if amount <= 0 {
		return nil
	}
	return s.Payments.Create(ctx, &model.Payment{
		UserID:      userID,
		EventID:     event.ID,
		ProviderRef: providerRef,
		Amount:      model.AmountFromMinorUnits(amount),
		Currency:    currency,
	})
}

func (e *ReconciliationEngine) tierForPrice(event *entity.BillingEvent, priceID string) (entity.PlanTier, error) {
	tier, err := e.catalog.TierForPrice(priceID)
	if err != nil {
		return "", &domainErrors.ConfigurationError{EventID: event.ID, PriceID: priceID, Err: err}
	}
	return tier, nil
}

func (e *ReconciliationEngine) notify(ctx context.Context, result entity.ProcessingResult) {
	if err := e.publisher.Publish(ctx, BillingEventsChannel, result); err != nil {
		e.logger.Warn("Failed to publish billing notification",
			zap.String("event_id", result.EventID),
			zap.Error(err))
	}
}

func customerOf(event *entity.BillingEvent) string {
	_, customerID := event.UserHint()
	return customerID
}

// isStale reports whether a lifecycle event predates the plan state already
// applied. Provider timestamps have second granularity; within the same
// second a cancellation wins over any other lifecycle event.
func isStale(profile *model.Profile, event *entity.BillingEvent) bool {
	at := event.CreatedAt
	if at.IsZero() || profile.PlanEventAt == nil {
		return false
	}
	if at.Before(*profile.PlanEventAt) {
		return true
	}
	return at.Equal(*profile.PlanEventAt) &&
		profile.PlanStatus == entity.PlanStatusCanceled &&
		event.Kind != entity.EventKindSubscriptionDeleted
}

// isActivation reports whether a plan change starts a new paid period. Moving
// between paid tiers while the subscription keeps running is not one; the
// next renewal credits the new tier.
func isActivation(prevTier entity.PlanTier, prevStatus entity.PlanStatus, status entity.PlanStatus) bool {
	if status != entity.PlanStatusActive {
		return false
	}
	running := prevStatus == entity.PlanStatusActive || prevStatus == entity.PlanStatusPastDue
	return !(running && prevTier != entity.PlanTierFree)
}

// Lookup returns the stored record of a handled event, nil when the event
// was never claimed.
func (e *ReconciliationEngine) Lookup(ctx context.Context, eventID string) (*model.BillingEventRecord, error) {
	record, err := e.uow.Stores().Events.Get(ctx, eventID)
	if err != nil {
		return nil, domainErrors.NewTransientError("lookup event", err)
	}
	return record, nil
}
