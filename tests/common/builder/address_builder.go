//go:build unit || e2e

package builder

import (
	"time"

	"offer-compare/internal/domain/offer"
	reqdto "offer-compare/internal/handler/dto/request"
)

type AddressBuilder struct {
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	CountryCode string
	SubmittedAt time.Time
}

func NewAddressBuilder() *AddressBuilder {
	return &AddressBuilder{
		Street:      "Musterstraße",
		HouseNumber: "5",
		PostalCode:  "80333",
		City:        "München",
		CountryCode: "DE",
		SubmittedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func (a *AddressBuilder) With(mutate func(*AddressBuilder)) *AddressBuilder {
	mutate(a)
	return a
}

// Build methods
func (a *AddressBuilder) BuildDomain() (offer.Address, error) {
	return offer.NewAddress(a.Street, a.HouseNumber, a.PostalCode, a.City, a.CountryCode)
}

func (a *AddressBuilder) MustBuild() offer.Address {
	addr, err := a.BuildDomain()
	if err != nil {
		panic(err)
	}
	return addr
}

func (a *AddressBuilder) BuildQuery() offer.Query {
	q, err := offer.NewQuery(a.MustBuild(), a.SubmittedAt)
	if err != nil {
		panic(err)
	}
	return q
}

func (a *AddressBuilder) BuildSearchRequestDTO() reqdto.SearchRequest {
	return reqdto.SearchRequest{
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		PostalCode:  a.PostalCode,
		City:        a.City,
		CountryCode: a.CountryCode,
	}
}

// Fluent builder methods
func (a *AddressBuilder) WithStreet(street string) *AddressBuilder {
	a.Street = street
	return a
}

func (a *AddressBuilder) WithPostalCode(code string) *AddressBuilder {
	a.PostalCode = code
	return a
}

func (a *AddressBuilder) WithCity(city string) *AddressBuilder {
	a.City = city
	return a
}

func (a *AddressBuilder) WithCountryCode(code string) *AddressBuilder {
	a.CountryCode = code
	return a
}
