package handlers

import (
	"errors"
	"net/http"
	"strings"

	"food-marketplace-api/config"
	"food-marketplace-api/metrics"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterCustomerRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// createUser hashes the password and inserts the row; the unique indexes on
// username and email turn duplicate registrations into a Conflict.
func createUser(c *gin.Context, user models.User, password string) (*models.User, bool) {
	var existing models.User
	if err := config.DB.Where("username = ? OR email = ?", user.Username, user.Email).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
		return nil, false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return nil, false
	}
	user.PasswordHash = string(hash)

	if err := config.DB.Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration: the unique index fired.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return nil, false
	}
	return &user, true
}

// RegisterCustomer creates a customer account (public endpoint).
func RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := createUser(c, models.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      models.RoleCustomer,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, req.Password)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Login authenticates a user, issues a JWT, and supersedes any previous
// session for the username.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// One active session per username: drop the old row, insert the new.
	config.DB.Where("username = ?", user.Username).Delete(&models.ActiveSession{})
	if err := config.DB.Create(&models.ActiveSession{
		Username: user.Username,
		Token:    token,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout deletes the caller's active session.
func Logout(c *gin.Context) {
	username := middleware.GetUsername(c)
	config.DB.Where("username = ?", username).Delete(&models.ActiveSession{})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ValidateToken decodes the presented token and returns its claims.
func ValidateToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, err := middleware.ParseToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": claims.Username, "role": claims.Role})
}

// GetRole returns just the caller's role, for frontend route guards.
func GetRole(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": middleware.GetRole(c)})
}

// GetProfile returns the authenticated user's profile.
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ── Password reset ──────────────────────────────────────────────────────────

type PasswordResetRequest struct {
	Username string          `json:"username" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Role     models.UserRole `json:"role" binding:"required"`
}

// RequestPasswordReset issues a short-lived reset token and emails it.
func RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ? AND email = ? AND role = ?",
		req.Username, req.Email, req.Role).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching user found"})
		return
	}

	token, err := middleware.GenerateResetToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}

	body := "Hello " + user.Username + ",\n\n" +
		"Use the following token to reset your password:\n\n" + token + "\n\n" +
		"The token expires in " + config.C.ResetExpiry.String() + " and can be used once."
	if err := Mail.Send([]string{user.Email}, "Password reset", body); err != nil {
		metrics.EmailsTotal.WithLabelValues("reset", "failed").Inc()
		lg := logger.Get()
		lg.Error().Err(err).Str("username", user.Username).Msg("reset email failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send reset email"})
		return
	}
	metrics.EmailsTotal.WithLabelValues("reset", "sent").Inc()

	c.JSON(http.StatusOK, gin.H{"message": "Reset token sent to " + user.Email})
}

// VerifyResetToken decodes a reset token and returns its claims.
func VerifyResetToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, err := middleware.ParseResetToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username": claims.Username,
		"email":    claims.Email,
		"role":     claims.Role,
	})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ResetPassword overwrites the password hash. Each reset token is single
// use: its jti is recorded on success and rejected on replay.
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := middleware.ParseResetToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	var used int64
	config.DB.Model(&models.PasswordResetUse{}).
		Where("token_id = ?", claims.ID).Count(&used)
	if used > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Reset token already used"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", claims.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PasswordResetUse{
			TokenID:  claims.ID,
			Username: user.Username,
		}).Error; err != nil {
			return err
		}
		// Force re-login with the new password everywhere.
		return tx.Where("username = ?", user.Username).
			Delete(&models.ActiveSession{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
