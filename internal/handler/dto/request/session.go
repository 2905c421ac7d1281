package request

import (
	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/session"
)

type CreateSessionRequest struct {
	ClientKey string `json:"clientKey" binding:"omitempty,max=128"`
}

type SearchRequest struct {
	Street      string `json:"street" binding:"required,max=200"`
	HouseNumber string `json:"houseNumber" binding:"max=20"`
	PostalCode  string `json:"postalCode" binding:"required,len=5,numeric"`
	City        string `json:"city" binding:"required,max=100"`
	CountryCode string `json:"countryCode" binding:"required,len=2"`
}

func (r *SearchRequest) ToDomain() (offer.Address, error) {
	return offer.NewAddress(r.Street, r.HouseNumber, r.PostalCode, r.City, r.CountryCode)
}

// FilterRequest patches filters; absent fields are left unchanged and an empty
// list clears that filter.
type FilterRequest struct {
	MinSpeedMbps   *int      `json:"minSpeedMbps" binding:"omitempty,min=0"`
	ContractMonths *[]int    `json:"contractMonths"`
	Connections    *[]string `json:"connections"`
	Providers      *[]string `json:"providers"`
	Installation   *string   `json:"installation"`
}

func (r *FilterRequest) ToDomain() (session.FilterUpdate, error) {
	u := session.FilterUpdate{
		MinSpeedMbps:   r.MinSpeedMbps,
		ContractMonths: r.ContractMonths,
	}
	if r.Connections != nil {
		conns := make([]offer.ConnectionType, 0, len(*r.Connections))
		for _, s := range *r.Connections {
			c, err := offer.ParseConnectionType(s)
			if err != nil {
				return session.FilterUpdate{}, err
			}
			conns = append(conns, c)
		}
		u.Connections = &conns
	}
	if r.Providers != nil {
		providers := make([]offer.Provider, 0, len(*r.Providers))
		for _, s := range *r.Providers {
			p, err := offer.ParseProvider(s)
			if err != nil {
				return session.FilterUpdate{}, err
			}
			providers = append(providers, p)
		}
		u.Providers = &providers
	}
	if r.Installation != nil {
		inst, err := offer.ParseInstallationService(*r.Installation)
		if err != nil {
			return session.FilterUpdate{}, err
		}
		u.Installation = &inst
	}
	return u, nil
}

// PriceRangeRequest bounds are whole currency units.
type PriceRangeRequest struct {
	Min *int64 `json:"min" binding:"required,min=0"`
	Max *int64 `json:"max" binding:"required,min=0"`
}

type ComparisonRequest struct {
	Provider string `json:"provider" binding:"required"`
	OfferID  string `json:"offerId" binding:"required"`
}

func (r *ComparisonRequest) ToDomain() (offer.Key, error) {
	p, err := offer.ParseProvider(r.Provider)
	if err != nil {
		return offer.Key{}, err
	}
	return offer.Key{Provider: p, OfferID: r.OfferID}, nil
}

type ShareRequest struct {
	Origin string `json:"origin" binding:"omitempty,url"`
}

type LoadSharedRequest struct {
	Token string `json:"token" binding:"required"`
}
