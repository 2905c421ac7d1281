package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/infra"
	"offer-compare/internal/pkg/config"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorBody     = 512
)

// HTTPClient calls the backend that hosts the provider adapters, one endpoint per provider.
type HTTPClient struct {
	http      *http.Client
	endpoints map[offer.Provider]*url.URL
	logger    *slog.Logger
}

// NewHTTPClient resolves every provider endpoint against cfg.BaseURL. Endpoints
// may be absolute URLs. Endpoint keys that are not providers are rejected.
func NewHTTPClient(cfg config.BackendConfig, logger *slog.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", cfg.BaseURL)
	}

	endpoints := make(map[offer.Provider]*url.URL, len(cfg.Endpoints))
	for name, ref := range cfg.Endpoints {
		p, err := offer.ParseProvider(name)
		if err != nil {
			return nil, fmt.Errorf("endpoint for %q: %w", name, err)
		}
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("endpoint for %s: %w", p, err)
		}
		endpoints[p] = base.ResolveReference(u)
	}

	return &HTTPClient{
		http:      &http.Client{Timeout: cfg.Timeout},
		endpoints: endpoints,
		logger:    logger,
	}, nil
}

type addressRequest struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// wireOffer is a normalized offer that may carry a voucher instead of computed discounts.
type wireOffer struct {
	offer.NormalizedOffer
	Voucher *wireVoucher `json:"voucher,omitempty"`
}

type wireVoucher struct {
	Percent          int    `json:"percent,omitempty"`
	MaxDiscountCents *int64 `json:"maxDiscountCents,omitempty"`
	AbsoluteCents    int64  `json:"absoluteCents,omitempty"`
}

type wrappedResponse struct {
	Offers []wireOffer `json:"offers"`
}

func (c *HTTPClient) FetchOffers(ctx context.Context, provider offer.Provider, address offer.Address) ([]offer.NormalizedOffer, error) {
	endpoint, ok := c.endpoints[provider]
	if !ok {
		return nil, infra.WrapErr(c.logger, infra.KindUnknownProvider, "no endpoint configured", nil,
			"provider", provider)
	}

	body, err := json.Marshal(addressRequest{
		Street:      address.Street(),
		HouseNumber: address.HouseNumber(),
		PostalCode:  address.PostalCode(),
		City:        address.City(),
		CountryCode: address.CountryCode(),
	})
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, "encode request", err, "provider", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, "build request", err, "provider", provider)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, "call backend", err, "provider", provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, infra.WrapErr(c.logger, infra.KindStatus,
			fmt.Sprintf("backend answered %d", resp.StatusCode), nil,
			"provider", provider, "body", strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindTransport, "read response", err, "provider", provider)
	}
	wire, err := decodeOffers(raw)
	if err != nil {
		return nil, infra.WrapErr(c.logger, infra.KindDecode, "decode offers", err, "provider", provider)
	}

	out := make([]offer.NormalizedOffer, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.normalize(provider))
	}
	return out, nil
}

// decodeOffers accepts a bare array or an object with an offers array.
func decodeOffers(raw []byte) ([]wireOffer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	if trimmed[0] == '{' {
		var wrapped wrappedResponse
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Offers, nil
	}
	var list []wireOffer
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (w wireOffer) normalize(provider offer.Provider) offer.NormalizedOffer {
	o := w.NormalizedOffer
	if o.Provider == "" {
		o.Provider = provider
	}
	if w.Voucher != nil && o.Price != nil && o.Price.DiscountedMonthlyCents == nil {
		months := 0
		if o.PromotionMonths != nil {
			months = *o.PromotionMonths
		}
		v := offer.Voucher{
			Percent:          w.Voucher.Percent,
			MaxDiscountCents: w.Voucher.MaxDiscountCents,
			AbsoluteCents:    w.Voucher.AbsoluteCents,
		}
		p := o.Price.ApplyVoucher(v, months)
		o.Price = &p
	}
	return o
}
