package subscription

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const timeoutDuration = 10 * time.Second

const (
	msgSubscribed   = "Subscription successful. Confirmation email sent."
	msgConfirmed    = "Subscription confirmed successfully"
	msgUnsubscribed = "Unsubscribed successfully"
)

type subscriber interface {
	Subscribe(ctx context.Context, data models.UserSubData) error
	Confirm(ctx context.Context, token string) error
	Unsubscribe(ctx context.Context, token string) error
}

type Handler struct {
	Service subscriber
	logger  zerolog.Logger
}

func NewHandler(svc subscriber, logger zerolog.Logger) *Handler {
	return &Handler{
		Service: svc,
		logger:  logger.With().Str("component", "SubscriptionHandler").Logger(),
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Subscribe
// @Summary Subscribe to weather updates
// @Description Subscribe an email to receive weather updates for a specific city.
// @Tags subscription
// @Accept json
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param request body models.UserSubData true "Subscription request"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var userData models.UserSubData
	if err := c.ShouldBind(&userData); err != nil {
		h.logger.Debug().Err(err).Msg("failed to bind subscription request")
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid input"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	if err := h.Service.Subscribe(ctx, userData); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: msgSubscribed})
}

// Confirm
// @Summary Confirm email subscription
// @Tags subscription
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /confirm/{token} [get]
func (h *Handler) Confirm(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	if err := h.Service.Confirm(ctx, token); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgConfirmed})
}

// Unsubscribe
// @Summary Unsubscribe from weather updates
// @Tags subscription
// @Produce json
// @Param token path string true "Unsubscribe token"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /unsubscribe/{token} [get]
func (h *Handler) Unsubscribe(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	if err := h.Service.Unsubscribe(ctx, token); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgUnsubscribed})
}

func tokenParam(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid token"})
		return "", false
	}
	return token, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid input"})
	case errors.Is(err, models.ErrDuplicateSubscription):
		c.JSON(http.StatusConflict, errorResponse{Error: "Email already subscribed"})
	case errors.Is(err, models.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Token not found"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "City not found"})
	default:
		h.logger.Error().
			Ctx(c.Request.Context()).
			Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
