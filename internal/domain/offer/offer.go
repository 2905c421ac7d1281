package offer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"offer-compare/internal/pkg/ptr"
)

var (
	ErrInvalidOffer          = errors.New("invalid offer")
	ErrUnknownConnectionType = errors.New("unknown connection type")
	ErrUnknownInstallation   = errors.New("unknown installation service value")
)

type ConnectionType string

const (
	ConnectionDSL    ConnectionType = "DSL"
	ConnectionCable  ConnectionType = "Cable"
	ConnectionFiber  ConnectionType = "Fiber"
	ConnectionMobile ConnectionType = "Mobile"
)

// ParseConnectionType accepts the display spelling and the upper-case upstream spelling.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DSL":
		return ConnectionDSL, nil
	case "CABLE":
		return ConnectionCable, nil
	case "FIBER":
		return ConnectionFiber, nil
	case "MOBILE":
		return ConnectionMobile, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConnectionType, s)
	}
}

func (c ConnectionType) IsValid() bool {
	switch c {
	case ConnectionDSL, ConnectionCable, ConnectionFiber, ConnectionMobile:
		return true
	default:
		return false
	}
}

func (c *ConnectionType) UnmarshalText(b []byte) error {
	parsed, err := ParseConnectionType(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// InstallationService is tri-state; the zero value is unspecified.
type InstallationService uint8

const (
	InstallationUnspecified InstallationService = iota
	InstallationRequired
	InstallationNotRequired
)

func ParseInstallationService(s string) (InstallationService, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unspecified":
		return InstallationUnspecified, nil
	case "required":
		return InstallationRequired, nil
	case "not_required":
		return InstallationNotRequired, nil
	default:
		return InstallationUnspecified, fmt.Errorf("%w: %q", ErrUnknownInstallation, s)
	}
}

func (i InstallationService) String() string {
	switch i {
	case InstallationRequired:
		return "required"
	case InstallationNotRequired:
		return "not_required"
	default:
		return "unspecified"
	}
}

func (i InstallationService) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *InstallationService) UnmarshalText(b []byte) error {
	parsed, err := ParseInstallationService(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Key is the identity of an offer: offer ids are only unique within one provider.
type Key struct {
	Provider Provider
	OfferID  string
}

func (k Key) String() string {
	return k.Provider.String() + "/" + k.OfferID
}

type NormalizedOffer struct {
	Provider        Provider            `json:"provider"`
	OfferID         string              `json:"offerId"`
	Name            string              `json:"name"`
	SpeedMbps       int                 `json:"speedMbps"`
	Connection      ConnectionType      `json:"connectionType"`
	ContractMonths  int                 `json:"contractMonths"`
	Installation    InstallationService `json:"installation"`
	MaxAge          *int                `json:"maxAge,omitempty"`
	TV              *string             `json:"tv,omitempty"`
	PromotionMonths *int                `json:"promotionMonths,omitempty"`
	DataCapGB       *int                `json:"dataCapGb,omitempty"`
	Price           *PriceDetails       `json:"price,omitempty"`
	FetchedAt       time.Time           `json:"fetchedAt"`
}

func (o NormalizedOffer) Key() Key {
	return Key{Provider: o.Provider, OfferID: o.OfferID}
}

// HasPrice reports whether the offer carries any price data.
func (o NormalizedOffer) HasPrice() bool {
	return o.Price != nil
}

// EffectiveMonthlyCents returns the discounted cost when present, else the monthly cost.
// ok is false when the offer has no price data.
func (o NormalizedOffer) EffectiveMonthlyCents() (cents int64, ok bool) {
	if o.Price == nil {
		return 0, false
	}
	return o.Price.EffectiveMonthlyCents(), true
}

func (o NormalizedOffer) Validate() error {
	switch {
	case !o.Provider.IsValid():
		return fmt.Errorf("%w: %w %q", ErrInvalidOffer, ErrUnknownProvider, o.Provider)
	case strings.TrimSpace(o.OfferID) == "":
		return invalidOffer(o, "offer id is required")
	case o.SpeedMbps < 0:
		return invalidOffer(o, "speed must not be negative")
	case !o.Connection.IsValid():
		return invalidOffer(o, "connection type is invalid")
	case o.ContractMonths < 1:
		return invalidOffer(o, "contract duration must be at least one month")
	case o.Installation > InstallationNotRequired:
		return invalidOffer(o, "installation service is invalid")
	case negative(o.MaxAge), negative(o.PromotionMonths), negative(o.DataCapGB):
		return invalidOffer(o, "optional counts must not be negative")
	}
	if o.Price != nil {
		if err := o.Price.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOffer, o.Key(), err)
		}
	}
	return nil
}

// Clone returns a deep copy so snapshots never share mutable optional fields.
func (o NormalizedOffer) Clone() NormalizedOffer {
	out := o
	out.MaxAge = ptr.Clone(o.MaxAge)
	out.TV = ptr.Clone(o.TV)
	out.PromotionMonths = ptr.Clone(o.PromotionMonths)
	out.DataCapGB = ptr.Clone(o.DataCapGB)
	if o.Price != nil {
		p := o.Price.Clone()
		out.Price = &p
	}
	return out
}

func invalidOffer(o NormalizedOffer, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidOffer, o.Key(), reason)
}

func negative(v *int) bool {
	return v != nil && *v < 0
}
