package handlers

import (
	"errors"
	"net/http"

	"food-marketplace-api/mailer"
	"food-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// Mail is the process-wide mailer, set in main. Tests substitute a stub.
var Mail mailer.Mailer

// fail maps a domain error onto an HTTP status and JSON body.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
