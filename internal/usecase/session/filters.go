package session

import (
	"slices"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/errs"
	"offer-compare/internal/pkg/patch"
	"offer-compare/internal/usecase/queries"
)

var ErrInvalidFilter = errs.New("invalid filter")

// FilterUpdate patches the user controlled filters. Nil fields are left as they are.
type FilterUpdate struct {
	MinSpeedMbps   *int
	ContractMonths *[]int
	Connections    *[]offer.ConnectionType
	Providers      *[]offer.Provider
	Installation   *offer.InstallationService
}

func (u FilterUpdate) validate() error {
	if u.MinSpeedMbps != nil && *u.MinSpeedMbps < 0 {
		return errs.Wrap(ErrInvalidFilter, "minimum speed must not be negative")
	}
	if u.ContractMonths != nil {
		for _, m := range *u.ContractMonths {
			if m < 1 {
				return errs.Wrapf(ErrInvalidFilter, "contract duration %d", m)
			}
		}
	}
	if u.Connections != nil {
		for _, c := range *u.Connections {
			if !c.IsValid() {
				return errs.Wrapf(ErrInvalidFilter, "connection type %q", c)
			}
		}
	}
	if u.Providers != nil {
		for _, p := range *u.Providers {
			if !p.IsValid() {
				return errs.Wrapf(ErrInvalidFilter, "provider %q", p)
			}
		}
	}
	if u.Installation != nil && *u.Installation > offer.InstallationNotRequired {
		return errs.Wrap(ErrInvalidFilter, "installation service")
	}
	return nil
}

func (u FilterUpdate) apply(c *queries.FilterCriteria) {
	patch.Assign(&c.MinSpeedMbps, u.MinSpeedMbps)
	patch.Assign(&c.Installation, u.Installation)
	if u.ContractMonths != nil {
		c.ContractMonths = slices.Clone(*u.ContractMonths)
	}
	if u.Connections != nil {
		c.Connections = slices.Clone(*u.Connections)
	}
	if u.Providers != nil {
		c.Providers = slices.Clone(*u.Providers)
	}
}
