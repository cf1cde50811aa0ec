package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ExchangeRateAPIURL is the free "latest rates" endpoint, the base currency
// is appended as the last path segment.
const ExchangeRateAPIURL = "https://api.exchangerate-api.com/v4/latest"

var (
	ErrClient       = errors.New("client error")
	ErrServer       = errors.New("server error")
	ErrUnknown      = errors.New("unknown error")
	ErrRateNotFound = errors.New("rate not found in response")
)

type (
	// ExchangeRateAPIFetcher pulls live quotes from exchangerate-api.com.
	// The zero value uses the public endpoint and http.DefaultClient.
	ExchangeRateAPIFetcher struct {
		URL    string
		Client *http.Client
	}

	latestRatesResponse struct {
		Base  string             `json:"base,omitempty"`
		Date  string             `json:"date,omitempty"`
		Rates map[string]float64 `json:"rates,omitempty"`
	}
)

func (e ExchangeRateAPIFetcher) handleHTTPStatusCodeError(res *http.Response) error {
	if res.StatusCode != http.StatusOK {
		switch {
		case res.StatusCode >= http.StatusInternalServerError:
			return ErrServer
		case res.StatusCode >= http.StatusBadRequest:
			return ErrClient
		default:
			return ErrUnknown
		}
	}

	return nil
}

// FetchRate requests the full rate table for the base currency and picks the
// target out of the payload. A missing target is an error like any other so
// the resolver can degrade to its fallback tier.
func (e ExchangeRateAPIFetcher) FetchRate(ctx context.Context, from, to string) (float64, error) {
	url := e.URL

	if url == "" {
		url = ExchangeRateAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", url, from), nil)

	if err != nil {
		return 0, err
	}

	req.Header.Add("Accept", "application/json")

	client := e.Client

	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)

	if err != nil {
		return 0, err
	}

	defer res.Body.Close()

	if err := e.handleHTTPStatusCodeError(res); err != nil {
		return 0, err
	}

	var data latestRatesResponse

	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return 0, err
	}

	rate, ok := data.Rates[to]

	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrRateNotFound, from, to)
	}

	return rate, nil
}
