package offer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid address")

type Address struct {
	street      string
	houseNumber string
	postalCode  string
	city        string
	countryCode string
}

// NewAddress trims every field. Postal codes are five digits in 10000..99999.
func NewAddress(street, houseNumber, postalCode, city, countryCode string) (Address, error) {
	a := Address{
		street:      strings.TrimSpace(street),
		houseNumber: strings.TrimSpace(houseNumber),
		postalCode:  strings.TrimSpace(postalCode),
		city:        strings.TrimSpace(city),
		countryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
	}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (a Address) Validate() error {
	switch {
	case a.street == "":
		return invalidAddress("street is required")
	case a.houseNumber == "":
		return invalidAddress("house number is required")
	case a.city == "":
		return invalidAddress("city is required")
	case !isPostalCode(a.postalCode):
		return invalidAddress("postal code must be exactly 5 digits")
	case !isCountryCode(a.countryCode):
		return invalidAddress("country code must be 2 letters")
	}
	return nil
}

func (a Address) Street() string      { return a.street }
func (a Address) HouseNumber() string { return a.houseNumber }
func (a Address) PostalCode() string  { return a.postalCode }
func (a Address) City() string        { return a.city }
func (a Address) CountryCode() string { return a.countryCode }

func (a Address) String() string {
	return fmt.Sprintf("%s %s, %s %s, %s", a.street, a.houseNumber, a.postalCode, a.city, a.countryCode)
}

func invalidAddress(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAddress, reason)
}

func isPostalCode(s string) bool {
	if len(s) != 5 || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
