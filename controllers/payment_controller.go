package controllers

import (
	"errors"
	"io"
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

// ListPlans returns the purchasable subscription tiers.
func ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": deps.Billing.Plans()})
}

// CreateCheckout opens a Stripe checkout session for the chosen plan.
func CreateCheckout(c *gin.Context) {
	email := c.MustGet("email").(string)

	var body struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := services.FindUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	result, err := deps.Billing.CreateCheckoutSession(c.Request.Context(), user, body.Plan)
	if errors.Is(err, services.ErrUnknownPlan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// StripeWebhook receives signed events from Stripe. It reads the raw body
// because signature verification covers the exact payload bytes.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := deps.Billing.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// VerifyOrder reports the status of one order, used by the purchase
// confirmation page.
func VerifyOrder(c *gin.Context) {
	userID := c.GetUint("userID")
	orderID := c.Param("orderId")

	purchase, err := deps.Billing.VerifyOrder(c.Request.Context(), userID, orderID)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": purchase.OrderID,
		"status":  purchase.Status,
		"plan":    purchase.Plan,
		"active":  purchase.Active(),
	})
}

// ListPurchases returns the user's purchase history.
func ListPurchases(c *gin.Context) {
	userID := c.GetUint("userID")

	purchases, err := deps.Billing.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
