package offer

import (
	"errors"
	"fmt"
)

var ErrUnknownProvider = errors.New("unknown provider")

// Provider is one of the five fixed upstream offer sources.
type Provider string

const (
	ProviderWebWunder   Provider = "WebWunder"
	ProviderByteMe      Provider = "ByteMe"
	ProviderPingPerfect Provider = "Ping Perfect"
	ProviderVerbynDich  Provider = "VerbynDich"
	ProviderServusSpeed Provider = "Servus Speed"
)

var allProviders = [...]Provider{
	ProviderWebWunder,
	ProviderByteMe,
	ProviderPingPerfect,
	ProviderVerbynDich,
	ProviderServusSpeed,
}

// AllProviders returns the provider set in its fixed display order.
func AllProviders() []Provider {
	out := make([]Provider, len(allProviders))
	copy(out, allProviders[:])
	return out
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.IsValid() {
		return "", ErrUnknownProvider
	}
	return p, nil
}

func (p Provider) String() string {
	return string(p)
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderWebWunder, ProviderByteMe, ProviderPingPerfect, ProviderVerbynDich, ProviderServusSpeed:
		return true
	default:
		return false
	}
}

func (p *Provider) UnmarshalText(b []byte) error {
	parsed, err := ParseProvider(string(b))
	if err != nil {
		return fmt.Errorf("%w: %q", err, string(b))
	}
	*p = parsed
	return nil
}

// index returns the position of p in the fixed provider order, or -1.
func (p Provider) index() int {
	for i, known := range allProviders {
		if known == p {
			return i
		}
	}
	return -1
}
