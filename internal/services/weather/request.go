package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

// getRaw performs a GET on endpoint with query and returns the body of a 200 response.
func getRaw(
	ctx context.Context,
	client HTTPClient,
	logger zerolog.Logger,
	endpoint string,
	query url.Values,
) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUpstream, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error().
				Err(cerr).
				Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", models.ErrUpstream, resp.Status)
	}
	return body, nil
}
