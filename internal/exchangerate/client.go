package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
)

// Client is the interface the valuation engine uses to fetch conversion
// rates. It is satisfied by APIClient and by the test mock.
type Client interface {
	LatestUSD(ctx context.Context) (map[string]decimal.Decimal, error)
}

// KeyProvider supplies the FX provider API key at call time. Keys can be
// rotated through the developer endpoint, so the client must not cache one.
type KeyProvider func() (string, error)

// APIClient fetches conversion rates from exchangerate-api.com.
// The HTTP client and base URL are injectable so tests can point the client
// at an httptest server.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     KeyProvider
}

// NewAPIClient creates a new exchange rate client.
//
// Parameters:
//   - baseURL: provider root, e.g. "https://v6.exchangerate-api.com"
//   - apiKey: provider of the account API key embedded in the request path
func NewAPIClient(baseURL string, apiKey KeyProvider) *APIClient {
	return &APIClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// LatestUSD fetches the latest conversion rates against a USD base.
//
// Every failure mode (missing key, network error, non-2xx status, malformed
// JSON, provider-reported error) is wrapped in apperrors.ErrRateFetch so
// callers can classify the failure with errors.Is. There is no retry: the
// caller's valuation request is expected to abort.
func (c *APIClient) LatestUSD(ctx context.Context) (map[string]decimal.Decimal, error) {
	key, err := c.apiKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRateFetch, err)
	}

	url := fmt.Sprintf("%s/v6/%s/latest/USD", c.baseURL, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRateFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRateFetch, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRateFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", apperrors.ErrRateFetch, resp.StatusCode)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRateFetch, err)
	}

	if response.Result != "success" {
		return nil, fmt.Errorf("%w: provider error %q", apperrors.ErrRateFetch, response.ErrorType)
	}

	if len(response.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: empty conversion_rates", apperrors.ErrRateFetch)
	}

	return response.ConversionRates, nil
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to set a request
// timeout.
func (c *APIClient) WithHTTPClient(httpClient *http.Client) *APIClient {
	c.httpClient = httpClient
	return c
}
