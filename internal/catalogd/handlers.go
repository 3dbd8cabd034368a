package catalogd

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/catalog"
)

type otpRequestBody struct {
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	AppHash     string `json:"app_hash" binding:"max=100"`
}

type otpVerifyBody struct {
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	OTPCode     string `json:"otp_code" binding:"required,len=6,numeric"`
}

func (s *Server) listCategories(c *gin.Context) {
	out := make([]catalog.Category, 0, len(s.data.Categories))
	for _, cat := range s.data.Categories {
		cat.Services = s.data.services(cat, "", "")
		out = append(out, cat)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) servicesByCategory(c *gin.Context) {
	ident := c.Param("slug")
	cat, ok := s.data.findCategory(ident)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Service category %q not found.", ident)})
		return
	}

	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	services := s.data.services(cat, brand, model)

	var pricing catalog.PricingContext
	if brand != "" {
		pricing.Brand = &brand
	}
	if model != "" {
		pricing.Model = &model
	}
	pricing.HasRealPricing = brand != "" && model != ""

	cat.Services = nil
	c.JSON(http.StatusOK, catalog.ServicesResponse{
		Category:       cat,
		Services:       services,
		TotalServices:  len(services),
		PricingContext: pricing,
	})
}

func (s *Server) requestOTP(c *gin.Context) {
	var body otpRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.metrics.otps.WithLabelValues("request", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, err := s.otps.issue(body.PhoneNumber)
	if err != nil {
		s.logger.Error("Failed to issue OTP", zap.Error(err))
		s.metrics.otps.WithLabelValues("request", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP. Please try again."})
		return
	}
	// No SMS gateway in development: the code goes to the log.
	s.logger.Info("OTP issued", zap.String("phone", body.PhoneNumber), zap.String("code", code))
	s.metrics.otps.WithLabelValues("request", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully."})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var body otpVerifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.metrics.otps.WithLabelValues("verify", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, created, err := s.otps.redeem(body.PhoneNumber, body.OTPCode)
	if errors.Is(err, errInvalidOTP) {
		s.metrics.otps.WithLabelValues("verify", "rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP."})
		return
	}
	if err != nil {
		s.logger.Error("Failed to redeem OTP", zap.Error(err))
		s.metrics.otps.WithLabelValues("verify", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during verification."})
		return
	}
	access, refresh, err := s.tokens.issue(userID)
	if err != nil {
		s.logger.Error("Failed to issue tokens", zap.Error(err))
		s.metrics.otps.WithLabelValues("verify", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during verification."})
		return
	}
	s.metrics.otps.WithLabelValues("verify", "ok").Inc()
	c.JSON(http.StatusOK, catalog.Tokens{
		Message:   "OTP verified successfully.",
		Access:    access,
		Refresh:   refresh,
		UserID:    userID,
		IsNewUser: created,
	})
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided."})
			return
		}
		userID, err := s.tokens.verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Given token not valid for any token type"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": strconv.FormatInt(c.GetInt64("user_id"), 10)})
}
