package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/worker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWeatherUpdate(ctx context.Context, to string, data models.WeatherUpdateEmailData) error {
	return m.Called(ctx, to, data).Error(0)
}

var job = models.NotificationJob{
	Email:            "a@x.com",
	City:             "Lviv",
	UnsubscribeToken: "unsub",
	AppURL:           "http://localhost:8080",
}

func TestWorker_Process(t *testing.T) {
	data := models.WeatherData{Temperature: 18, Humidity: 55, Description: "Clouds"}

	t.Run("Success", func(t *testing.T) {
		w := &mockWeather{}
		s := &mockSender{}
		w.On("GetByCity", mock.Anything, "Lviv").Return(data, nil).Once()
		s.On("SendWeatherUpdate", mock.Anything, "a@x.com", models.WeatherUpdateEmailData{
			City: "Lviv", Weather: data, UnsubscribeToken: "unsub", AppURL: "http://localhost:8080",
		}).Return(nil).Once()
		t.Cleanup(func() {
			w.AssertExpectations(t)
			s.AssertExpectations(t)
		})

		require.NoError(t, worker.New(w, s, zerolog.Nop()).Process(context.Background(), job))
	})

	t.Run("WeatherFailureSkipsEmail", func(t *testing.T) {
		w := &mockWeather{}
		s := &mockSender{}
		w.On("GetByCity", mock.Anything, "Lviv").
			Return(models.WeatherData{}, &models.AllProvidersFailedError{City: "Lviv"}).Once()

		err := worker.New(w, s, zerolog.Nop()).Process(context.Background(), job)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrAllProvidersFailed)
		s.AssertNotCalled(t, "SendWeatherUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SendFailure", func(t *testing.T) {
		w := &mockWeather{}
		s := &mockSender{}
		sendErr := errors.New("smtp down")
		w.On("GetByCity", mock.Anything, "Lviv").Return(data, nil).Once()
		s.On("SendWeatherUpdate", mock.Anything, "a@x.com", mock.Anything).Return(sendErr).Once()

		err := worker.New(w, s, zerolog.Nop()).Process(context.Background(), job)
		assert.ErrorIs(t, err, sendErr)
	})
}
