//go:build unit || e2e

package builder

import (
	"time"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/ptr"
)

type OfferBuilder struct {
	Provider        offer.Provider
	OfferID         string
	Name            string
	SpeedMbps       int
	Connection      offer.ConnectionType
	ContractMonths  int
	Installation    offer.InstallationService
	TV              *string
	PromotionMonths *int
	Price           *offer.PriceDetails
	FetchedAt       time.Time
}

func NewOfferBuilder() *OfferBuilder {
	return &OfferBuilder{
		Provider:       offer.ProviderWebWunder,
		OfferID:        "ww-100",
		Name:           "WebWunder 100",
		SpeedMbps:      100,
		Connection:     offer.ConnectionDSL,
		ContractMonths: 24,
		Installation:   offer.InstallationUnspecified,
		Price:          &offer.PriceDetails{MonthlyCostCents: 2999},
		FetchedAt:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func (o *OfferBuilder) With(mutate func(*OfferBuilder)) *OfferBuilder {
	mutate(o)
	return o
}

// Build methods
func (o *OfferBuilder) Build() offer.NormalizedOffer {
	out := offer.NormalizedOffer{
		Provider:        o.Provider,
		OfferID:         o.OfferID,
		Name:            o.Name,
		SpeedMbps:       o.SpeedMbps,
		Connection:      o.Connection,
		ContractMonths:  o.ContractMonths,
		Installation:    o.Installation,
		TV:              o.TV,
		PromotionMonths: o.PromotionMonths,
		FetchedAt:       o.FetchedAt,
	}
	if o.Price != nil {
		p := o.Price.Clone()
		out.Price = &p
	}
	return out
}

// Fluent builder methods
func (o *OfferBuilder) WithProvider(p offer.Provider) *OfferBuilder {
	o.Provider = p
	return o
}

func (o *OfferBuilder) WithID(id string) *OfferBuilder {
	o.OfferID = id
	o.Name = string(o.Provider) + " " + id
	return o
}

func (o *OfferBuilder) WithSpeed(mbps int) *OfferBuilder {
	o.SpeedMbps = mbps
	return o
}

func (o *OfferBuilder) WithConnection(c offer.ConnectionType) *OfferBuilder {
	o.Connection = c
	return o
}

func (o *OfferBuilder) WithContract(months int) *OfferBuilder {
	o.ContractMonths = months
	return o
}

func (o *OfferBuilder) WithInstallation(i offer.InstallationService) *OfferBuilder {
	o.Installation = i
	return o
}

func (o *OfferBuilder) WithTV(name string) *OfferBuilder {
	o.TV = ptr.To(name)
	return o
}

func (o *OfferBuilder) WithMonthlyCents(cents int64) *OfferBuilder {
	o.Price = &offer.PriceDetails{MonthlyCostCents: cents}
	return o
}

func (o *OfferBuilder) WithDiscountedCents(monthly, discounted int64) *OfferBuilder {
	o.Price = &offer.PriceDetails{MonthlyCostCents: monthly, DiscountedMonthlyCents: ptr.To(discounted)}
	return o
}

func (o *OfferBuilder) WithoutPrice() *OfferBuilder {
	o.Price = nil
	return o
}

// Offer is shorthand for a priced offer from provider p.
func Offer(p offer.Provider, id string, speed int, monthlyCents int64) offer.NormalizedOffer {
	return NewOfferBuilder().WithProvider(p).WithID(id).WithSpeed(speed).WithMonthlyCents(monthlyCents).Build()
}
