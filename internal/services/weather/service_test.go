package weather_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChain_GetByCity(t *testing.T) {
	ctx := context.Background()
	lviv := models.ProviderResult{
		Weather: models.WeatherData{Temperature: 15, Humidity: 60, Description: "Sunny"},
		Raw:     []byte(`{"ok":true}`),
	}

	t.Run("FirstSuccessStopsChain", func(t *testing.T) {
		p1 := &mockProvider{name: "a"}
		p2 := &mockProvider{name: "b"}
		p1.On("Fetch", mock.Anything, "Lviv").Return(lviv, nil).Once()

		t.Cleanup(func() {
			p1.AssertExpectations(t)
			p2.AssertNumberOfCalls(t, "Fetch", 0)
		})

		audit := &fakeAuditor{}
		rec := &fakeRecorder{}
		chain := weather.NewChain(zerolog.Nop(), audit, rec, p1, p2)

		got, err := chain.GetByCity(ctx, "Lviv")
		require.NoError(t, err)
		assert.Equal(t, lviv.Weather, got)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "response", audit.entries[0].kind)
		assert.Equal(t, `{"ok":true}`, audit.entries[0].raw)
		assert.Equal(t, []string{"a:ok"}, rec.attempts)
	})

	t.Run("FirstFailsSecondSucceeds", func(t *testing.T) {
		p1 := &mockProvider{name: "a"}
		p2 := &mockProvider{name: "b"}
		p1.On("Fetch", mock.Anything, "Lviv").Return(models.ProviderResult{}, errors.New("timeout")).Once()
		p2.On("Fetch", mock.Anything, "Lviv").Return(lviv, nil).Once()

		t.Cleanup(func() {
			p1.AssertExpectations(t)
			p2.AssertExpectations(t)
		})

		audit := &fakeAuditor{}
		rec := &fakeRecorder{}
		chain := weather.NewChain(zerolog.Nop(), audit, rec, p1, p2)

		got, err := chain.GetByCity(ctx, "Lviv")
		require.NoError(t, err)
		assert.Equal(t, lviv.Weather, got)

		require.Len(t, audit.entries, 2)
		assert.Equal(t, "error", audit.entries[0].kind)
		assert.EqualError(t, audit.entries[0].err, "timeout")
		assert.Equal(t, "response", audit.entries[1].kind)
		assert.Equal(t, "b", audit.entries[1].provider)
		assert.Equal(t, []string{"a:error", "b:ok"}, rec.attempts)
	})

	t.Run("EmptyResultIsFailure", func(t *testing.T) {
		p1 := &mockProvider{name: "a"}
		p2 := &mockProvider{name: "b"}
		p1.On("Fetch", mock.Anything, "Lviv").Return(models.ProviderResult{}, nil).Once()
		p2.On("Fetch", mock.Anything, "Lviv").Return(lviv, nil).Once()

		audit := &fakeAuditor{}
		chain := weather.NewChain(zerolog.Nop(), audit, &fakeRecorder{}, p1, p2)

		got, err := chain.GetByCity(ctx, "Lviv")
		require.NoError(t, err)
		assert.Equal(t, lviv.Weather, got)
		require.Len(t, audit.entries, 2)
		assert.ErrorIs(t, audit.entries[0].err, models.ErrNoData)
	})

	t.Run("AllFail", func(t *testing.T) {
		p1 := &mockProvider{name: "a"}
		p2 := &mockProvider{name: "b"}
		p3 := &mockProvider{name: "c"}
		for _, p := range []*mockProvider{p1, p2, p3} {
			p.On("Fetch", mock.Anything, "Nowhereville").
				Return(models.ProviderResult{}, errors.New("not found")).Once()
		}

		t.Cleanup(func() {
			p1.AssertExpectations(t)
			p2.AssertExpectations(t)
			p3.AssertExpectations(t)
		})

		audit := &fakeAuditor{}
		rec := &fakeRecorder{}
		chain := weather.NewChain(zerolog.Nop(), audit, rec, p1, p2, p3)

		got, err := chain.GetByCity(ctx, "Nowhereville")
		require.Error(t, err)
		assert.Equal(t, models.WeatherData{}, got)
		assert.ErrorIs(t, err, models.ErrAllProvidersFailed)
		assert.ErrorIs(t, err, models.ErrNotFound)

		var apf *models.AllProvidersFailedError
		require.ErrorAs(t, err, &apf)
		assert.Equal(t, "Nowhereville", apf.City)

		assert.Equal(t, []string{"a:error", "b:error", "c:error"}, rec.attempts)
		for _, e := range audit.entries {
			assert.Equal(t, "error", e.kind)
		}
	})

	t.Run("NoProviders", func(t *testing.T) {
		chain := weather.NewChain(zerolog.Nop(), &fakeAuditor{}, &fakeRecorder{})

		_, err := chain.GetByCity(ctx, "Lviv")
		assert.ErrorIs(t, err, models.ErrAllProvidersFailed)
	})
}
