// Package currency retrieves the USD/BRL exchange rate from public quote
// APIs, with provider fallback, a short in-memory cache and a configured
// last-resort rate so a calculation is never blocked by a quote outage.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// requestTimeout bounds a single quote API call.
const requestTimeout = 10 * time.Second

// RateProvider fetches the current USD/BRL selling rate from one source.
type RateProvider interface {
	Name() string
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// AwesomeAPIProvider reads quotes from economia.awesomeapi.com.br, the
// primary source.
type AwesomeAPIProvider struct {
	baseURL string
	client  *http.Client
}

// NewAwesomeAPIProvider creates the primary quote provider. baseURL is the
// API root (no trailing slash), e.g. "https://economia.awesomeapi.com.br".
func NewAwesomeAPIProvider(baseURL string) *AwesomeAPIProvider {
	return &AwesomeAPIProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Name implements RateProvider.
func (p *AwesomeAPIProvider) Name() string { return "awesomeapi" }

// FetchRate implements RateProvider using the last-quote endpoint.
func (p *AwesomeAPIProvider) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	var payload struct {
		USDBRL struct {
			Bid decimal.Decimal `json:"bid"`
		} `json:"USDBRL"`
	}
	if err := p.getJSON(ctx, p.baseURL+"/json/last/USD-BRL", &payload); err != nil {
		return decimal.Zero, err
	}
	if !payload.USDBRL.Bid.IsPositive() {
		return decimal.Zero, fmt.Errorf("awesomeapi returned non-positive bid %s", payload.USDBRL.Bid)
	}
	return payload.USDBRL.Bid, nil
}

// HistoricalRate is one day of the USD/BRL series.
type HistoricalRate struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// FetchHistory returns the daily USD/BRL series for the last n days, oldest
// entries last as the API delivers them.
func (p *AwesomeAPIProvider) FetchHistory(ctx context.Context, days int) ([]HistoricalRate, error) {
	var payload []struct {
		Timestamp string          `json:"timestamp"`
		Bid       decimal.Decimal `json:"bid"`
	}
	endpoint := fmt.Sprintf("%s/json/daily/USD-BRL/%d", p.baseURL, days)
	if err := p.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	history := make([]HistoricalRate, 0, len(payload))
	for _, item := range payload {
		var ts int64
		if _, err := fmt.Sscanf(item.Timestamp, "%d", &ts); err != nil {
			continue
		}
		history = append(history, HistoricalRate{
			Date: time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Rate: item.Bid,
		})
	}
	return history, nil
}

func (p *AwesomeAPIProvider) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("awesomeapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("awesomeapi returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode awesomeapi response: %w", err)
	}
	return nil
}

// BCBProvider reads the official PTAX selling rate from the Banco Central
// do Brasil Olinda API, used when the primary provider is down.
type BCBProvider struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewBCBProvider creates the fallback quote provider. baseURL is the Olinda
// API root, e.g. "https://olinda.bcb.gov.br".
func NewBCBProvider(baseURL string) *BCBProvider {
	return &BCBProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		now:     time.Now,
	}
}

// Name implements RateProvider.
func (p *BCBProvider) Name() string { return "bcb" }

// FetchRate implements RateProvider using the PTAX daily quote for today.
// The PTAX endpoint takes the date as MM-DD-YYYY.
func (p *BCBProvider) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	today := p.now().Format("01-02-2006")
	endpoint := p.baseURL +
		"/olinda/servico/PTAX/versao/v1/odata/CotacaoMoedaDia(moeda=@moeda,dataCotacao=@dataCotacao)" +
		"?@moeda='USD'&@dataCotacao='" + url.QueryEscape(today) + "'&$format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bcb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("bcb returned status %d", resp.StatusCode)
	}

	var payload struct {
		Value []struct {
			CotacaoVenda decimal.Decimal `json:"cotacaoVenda"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode bcb response: %w", err)
	}
	if len(payload.Value) == 0 {
		return decimal.Zero, fmt.Errorf("bcb returned no quote for %s", today)
	}
	rate := payload.Value[0].CotacaoVenda
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("bcb returned non-positive rate %s", rate)
	}
	return rate, nil
}
