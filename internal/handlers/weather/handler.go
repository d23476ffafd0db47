package weather

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const timeoutDuration = 10 * time.Second

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type Handler struct {
	service weatherGetterService
	logger  zerolog.Logger
}

func NewHandler(svc weatherGetterService, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger.With().Str("component", "WeatherHandler").Logger(),
	}
}

// GetWeather
// @Summary Get current weather for a city
// @Tags weather
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} models.WeatherData
// @Failure 400
// @Failure 404
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.service.GetByCity(ctxWithTimeout, city)
	if err != nil {
		h.logger.Info().
			Ctx(ctxWithTimeout).
			Str("city", city).
			Err(err).
			Msg("weather lookup failed")
		c.JSON(http.StatusNotFound, gin.H{"error": "City not found or weather service unavailable"})
		return
	}

	c.JSON(http.StatusOK, data)
}
