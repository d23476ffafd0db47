package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockWeatherService struct {
	mock.Mock
}

func (m *mockWeatherService) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

func setupRouter(svc *mockWeatherService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/weather", weather.NewHandler(svc, zerolog.Nop()).GetWeather)
	return r
}

func TestGetWeather(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockWeatherService{}
		svc.On("GetByCity", mock.Anything, "Kyiv").
			Return(models.WeatherData{Temperature: 20.5, Humidity: 50, Description: "Sunny"}, nil).Once()
		t.Cleanup(func() { svc.AssertExpectations(t) })

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather?city=Kyiv", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"temperature":20.5,"humidity":50,"description":"Sunny"}`, w.Body.String())
	})

	t.Run("MissingCity", func(t *testing.T) {
		svc := &mockWeatherService{}

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetByCity", mock.Anything, mock.Anything)
	})

	t.Run("ResolutionFailed", func(t *testing.T) {
		svc := &mockWeatherService{}
		svc.On("GetByCity", mock.Anything, "Nowhereville").
			Return(models.WeatherData{}, &models.AllProvidersFailedError{City: "Nowhereville"}).Once()

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather?city=Nowhereville", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"City not found or weather service unavailable"}`, w.Body.String())
	})
}
