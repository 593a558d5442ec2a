package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"fittrack/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"gorm.io/gorm"
)

var (
	ErrUnknownPlan    = errors.New("unknown subscription plan")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidWebhook = errors.New("invalid webhook payload")
)

// subscriptionPeriod is how long one paid period lasts after checkout.
const subscriptionPeriod = 30 * 24 * time.Hour

// Plan is one purchasable subscription tier.
type Plan struct {
	ID      string
	Name    string
	Amount  int64 // cents
	PriceID string
}

type BillingService struct {
	db            *gorm.DB
	webhookSecret string
	frontendURL   string
	plans         map[string]Plan
	activities    *ActivityService
}

// NewBillingService sets the Stripe API key and loads the plan table from
// the environment.
func NewBillingService(db *gorm.DB, activities *ActivityService) *BillingService {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	return &BillingService{
		db:            db,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		frontendURL:   os.Getenv("FRONTEND_URL"),
		plans: map[string]Plan{
			"pro_plan": {
				ID:      "pro_plan",
				Name:    "Pro Plan",
				Amount:  999,
				PriceID: os.Getenv("STRIPE_PRICE_PRO"),
			},
			"premium_plan": {
				ID:      "premium_plan",
				Name:    "Premium Plan",
				Amount:  1999,
				PriceID: os.Getenv("STRIPE_PRICE_PREMIUM"),
			},
		},
		activities: activities,
	}
}

// CheckoutResult is what the client needs to redirect to Stripe.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckoutSession records a pending purchase and opens a Stripe
// checkout session for the chosen plan.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, user *models.User, planID string) (*CheckoutResult, error) {
	plan, ok := s.plans[planID]
	if !ok {
		return nil, ErrUnknownPlan
	}

	orderID := uuid.NewString()
	purchase := models.Purchase{
		UserID:    user.ID,
		UserEmail: user.Email,
		Plan:      plan.ID,
		PlanName:  plan.Name,
		Amount:    plan.Amount,
		OrderID:   orderID,
	}
	if err := s.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	successURL := fmt.Sprintf("%s/purchase-confirmation?order_id=%s", s.frontendURL, orderID)
	cancelURL := fmt.Sprintf("%s/pricing", s.frontendURL)

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:    stripe.String(successURL),
		CancelURL:     stripe.String(cancelURL),
		CustomerEmail: stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"order_id": orderID,
			"plan_id":  plan.ID,
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&purchase).Update("checkout_id", sess.ID).Error; err != nil {
		return nil, err
	}

	log.Info().Str("order_id", orderID).Str("plan", plan.ID).Uint("user_id", user.ID).
		Msg("stripe checkout created")
	return &CheckoutResult{OrderID: orderID, CheckoutURL: sess.URL}, nil
}

// HandleWebhook verifies a Stripe webhook signature and applies the event to
// the local purchase mirror.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	log.Info().Str("event_type", string(event.Type)).Msg("stripe webhook received")

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event.Data.Raw)
	case "invoice.payment_succeeded":
		return s.handlePaymentSucceeded(ctx, event.Data.Raw)
	case "payment_intent.payment_failed":
		return s.handlePaymentFailed(ctx, event.Data.Raw)
	default:
		log.Warn().Str("event_type", string(event.Type)).Msg("stripe webhook ignored")
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(ctx context.Context, data json.RawMessage) error {
	var sess struct {
		ID            string            `json:"id"`
		PaymentIntent string            `json:"payment_intent"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	orderID := sess.Metadata["order_id"]
	if orderID == "" {
		log.Warn().Str("checkout_id", sess.ID).Msg("checkout session has no order_id metadata, skipping")
		return nil
	}
	return s.completePurchase(ctx, orderID, sess.PaymentIntent)
}

func (s *BillingService) handlePaymentSucceeded(ctx context.Context, data json.RawMessage) error {
	var invoice struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &invoice); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	orderID := invoice.Metadata["order_id"]
	if orderID == "" {
		// Renewal invoices have no order metadata. The session completion
		// event already granted access, nothing to do here.
		return nil
	}
	return s.completePurchase(ctx, orderID, invoice.ID)
}

func (s *BillingService) handlePaymentFailed(ctx context.Context, data json.RawMessage) error {
	var intent struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &intent); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	orderID := intent.Metadata["order_id"]
	if orderID == "" {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("order_id = ? AND status = ?", orderID, "pending").
		Updates(map[string]any{"status": "failed", "payment_id": intent.ID})
	if res.Error != nil {
		return res.Error
	}
	log.Warn().Str("order_id", orderID).Msg("purchase payment failed")
	return nil
}

// completePurchase marks the purchase completed, opens a 30-day period, and
// mirrors the entitlement onto the user row. Replays of the same event are
// harmless because a completed purchase is skipped.
func (s *BillingService) completePurchase(ctx context.Context, orderID, paymentID string) error {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("order_id", orderID).Msg("webhook for unknown order, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if purchase.Status == "completed" {
		return nil
	}

	now := time.Now()
	end := now.Add(subscriptionPeriod)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&purchase).Updates(map[string]any{
			"status":               "completed",
			"payment_id":           paymentID,
			"current_period_start": now,
			"current_period_end":   end,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", purchase.UserID).Updates(map[string]any{
			"subscription":            purchase.Plan,
			"subscription_status":     "active",
			"subscription_expires_at": end,
		}).Error
	})
	if err != nil {
		return err
	}

	log.Info().Str("order_id", orderID).Str("plan", purchase.Plan).Uint("user_id", purchase.UserID).
		Msg("purchase completed")

	if s.activities != nil {
		if err := s.activities.Record(ctx, purchase.UserID, models.CategoryAchievement,
			"Upgraded subscription", fmt.Sprintf("Activated %s", purchase.PlanName)); err != nil {
			log.Error().Err(err).Msg("billing ledger append failed")
		}
	}
	return nil
}

// VerifyOrder reports the status of one of the user's orders, used by the
// purchase confirmation page.
func (s *BillingService) VerifyOrder(ctx context.Context, userID uint, orderID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND user_id = ?", orderID, userID).
		First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListPurchases returns the user's purchase history, newest first.
func (s *BillingService) ListPurchases(ctx context.Context, userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// Plans lists the purchasable tiers for the pricing page.
func (s *BillingService) Plans() []Plan {
	return []Plan{s.plans["pro_plan"], s.plans["premium_plan"]}
}
