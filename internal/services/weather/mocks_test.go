package weather_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Fetch(ctx context.Context, city string) (models.ProviderResult, error) {
	args := m.Called(ctx, city)
	res, ok := args.Get(0).(models.ProviderResult)
	if !ok {
		return models.ProviderResult{}, args.Error(1)
	}
	return res, args.Error(1)
}

type auditEntry struct {
	provider string
	city     string
	kind     string
	raw      string
	err      error
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (f *fakeAuditor) LogResponse(provider, city string, raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{provider: provider, city: city, kind: "response", raw: string(raw)})
}

func (f *fakeAuditor) LogFailure(provider, city string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{provider: provider, city: city, kind: "error", err: err})
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []string
}

func (f *fakeRecorder) ProviderAttempt(provider string, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := "ok"
	if err != nil {
		res = "error"
	}
	f.attempts = append(f.attempts, provider+":"+res)
}
