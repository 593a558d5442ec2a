package services

import (
	"context"
	"testing"
	"time"

	"fittrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPendingPurchase(t *testing.T, s *BillingService, userID uint, orderID string) {
	t.Helper()
	purchase := models.Purchase{
		UserID:    userID,
		UserEmail: "buyer@example.com",
		Plan:      "pro_plan",
		PlanName:  "Pro Plan",
		Amount:    999,
		OrderID:   orderID,
	}
	require.NoError(t, s.db.Create(&purchase).Error)
}

func TestCompletePurchaseMirrorsEntitlement(t *testing.T) {
	db := openTestDB(t)
	s := NewBillingService(db, nil)
	ctx := context.Background()

	user := models.User{Email: "buyer@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	seedPendingPurchase(t, s, user.ID, "order-1")

	require.NoError(t, s.completePurchase(ctx, "order-1", "pi_123"))

	var purchase models.Purchase
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&purchase).Error)
	assert.Equal(t, "completed", purchase.Status)
	assert.Equal(t, "pi_123", purchase.PaymentID)
	require.NotNil(t, purchase.CurrentPeriodEnd)
	assert.True(t, purchase.Active())

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "pro_plan", got.Subscription)
	assert.Equal(t, "active", got.SubscriptionStatus)
	require.NotNil(t, got.SubscriptionExpiresAt)
	assert.WithinDuration(t, time.Now().Add(subscriptionPeriod), *got.SubscriptionExpiresAt, time.Minute)
}

func TestCompletePurchaseIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	s := NewBillingService(db, nil)
	ctx := context.Background()

	user := models.User{Email: "buyer@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	seedPendingPurchase(t, s, user.ID, "order-1")

	require.NoError(t, s.completePurchase(ctx, "order-1", "pi_123"))

	var first models.Purchase
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&first).Error)

	// replayed webhook must not move the period
	require.NoError(t, s.completePurchase(ctx, "order-1", "pi_replay"))

	var second models.Purchase
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&second).Error)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.True(t, first.CurrentPeriodEnd.Equal(*second.CurrentPeriodEnd))
}

func TestCompletePurchaseUnknownOrder(t *testing.T) {
	db := openTestDB(t)
	s := NewBillingService(db, nil)

	// unknown orders are skipped, not errors, so Stripe does not retry forever
	assert.NoError(t, s.completePurchase(context.Background(), "missing", "pi_1"))
}

func TestVerifyOrderScopedToUser(t *testing.T) {
	db := openTestDB(t)
	s := NewBillingService(db, nil)
	ctx := context.Background()

	seedPendingPurchase(t, s, 1, "order-1")

	purchase, err := s.VerifyOrder(ctx, 1, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", purchase.Status)

	_, err = s.VerifyOrder(ctx, 2, "order-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPlansTable(t *testing.T) {
	db := openTestDB(t)
	s := NewBillingService(db, nil)

	plans := s.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "pro_plan", plans[0].ID)
	assert.Equal(t, "premium_plan", plans[1].ID)
}
