package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/metrics"
	"food-marketplace-api/pkg/logger"
	"food-marketplace-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the order transition table for documentation.
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"delivered"},
		"description":     "Order lifecycle state machine",
	})
}

// ── Application forms ───────────────────────────────────────────────────────

type ApplicationRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// ApplyPartner forwards a prospective restaurant partner's application to
// the platform inbox. Nothing is persisted; a send failure is surfaced.
func ApplyPartner(c *gin.Context) {
	sendApplication(c, "New partner application")
}

// ApplyDeliverer forwards a prospective deliverer's application to the
// platform inbox.
func ApplyDeliverer(c *gin.Context) {
	sendApplication(c, "New deliverer application")
}

func sendApplication(c *gin.Context, subject string) {
	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := "Name: " + req.Name + "\nEmail: " + req.Email + "\nPhone: " + req.Phone + "\n"
	if err := Mail.Send([]string{config.C.SMTP.ApplicationsTo}, subject, body); err != nil {
		metrics.EmailsTotal.WithLabelValues("application", "failed").Inc()
		lg := logger.Get()
		lg.Error().Err(err).Str("applicant", req.Email).Msg("application email failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send application"})
		return
	}
	metrics.EmailsTotal.WithLabelValues("application", "sent").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Application received"})
}
