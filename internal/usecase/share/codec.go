package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/clock"
	"offer-compare/internal/pkg/errs"
	"offer-compare/internal/pkg/metrics"

	"github.com/google/uuid"
)

// MaxTokenLength bounds what Decode is willing to look at.
const MaxTokenLength = 1 << 20

var ErrInvalidToken = errs.New("invalid share token")

// State is what a share token carries.
type State struct {
	Query     offer.Query
	Offers    offer.Collection
	CreatedAt time.Time
}

type Codec struct {
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewCodec(clk clock.Clock, m *metrics.Metrics) *Codec {
	return &Codec{clock: clk, metrics: m}
}

type payload struct {
	Search    *searchPayload  `json:"search"`
	Offers    json.RawMessage `json:"offers"`
	Timestamp *int64          `json:"timestamp"`
}

type searchPayload struct {
	ID          uuid.UUID      `json:"id"`
	Address     addressPayload `json:"address"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

type addressPayload struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// Encode serializes the query and offers with the current time as a URL safe token.
func (c *Codec) Encode(q offer.Query, offers offer.Collection) (string, error) {
	list, err := json.Marshal(offers.Offers())
	if err != nil {
		return "", errs.Wrap(err, "marshal offers")
	}
	addr := q.Address()
	ts := c.clock.Now().UnixMilli()
	raw, err := json.Marshal(payload{
		Search: &searchPayload{
			ID: q.ID(),
			Address: addressPayload{
				Street:      addr.Street(),
				HouseNumber: addr.HouseNumber(),
				PostalCode:  addr.PostalCode(),
				City:        addr.City(),
				CountryCode: addr.CountryCode(),
			},
			SubmittedAt: q.SubmittedAt(),
		},
		Offers:    list,
		Timestamp: &ts,
	})
	if err != nil {
		return "", errs.Wrap(err, "marshal share payload")
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Every failure is marked ErrInvalidToken; no partial state is returned.
func (c *Codec) Decode(token string) (*State, error) {
	st, err := decode(token)
	if err != nil {
		c.metrics.IncShareDecodeFailure()
		return nil, errs.Mark(err, ErrInvalidToken)
	}
	return st, nil
}

func decode(token string) (*State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.New("empty token")
	}
	if len(token) > MaxTokenLength {
		return nil, errs.Newf("token longer than %d bytes", MaxTokenLength)
	}
	raw, err := decodeBase64(token)
	if err != nil {
		return nil, err
	}

	var p payload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, errs.Wrap(err, "decode payload")
	}
	if dec.More() {
		return nil, errs.New("trailing data after payload")
	}

	q, err := p.query()
	if err != nil {
		return nil, err
	}
	offers, err := p.offers()
	if err != nil {
		return nil, err
	}
	if p.Timestamp == nil {
		return nil, errs.New("timestamp is required")
	}
	if *p.Timestamp < 0 {
		return nil, errs.New("timestamp must not be negative")
	}

	return &State{Query: q, Offers: offers, CreatedAt: time.UnixMilli(*p.Timestamp).UTC()}, nil
}

// decodeBase64 accepts the raw URL alphabet tokens are written in and the
// padded and standard alphabets older links used. A '+' that arrived as a
// space through a query string is restored first.
func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		s := token
		if enc == base64.StdEncoding || enc == base64.RawStdEncoding {
			s = strings.ReplaceAll(s, " ", "+")
		}
		raw, err := enc.DecodeString(s)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, errs.Wrap(firstErr, "decode base64")
}

func (p payload) query() (offer.Query, error) {
	if p.Search == nil {
		return offer.Query{}, errs.New("search is required")
	}
	if p.Search.ID == uuid.Nil {
		return offer.Query{}, errs.New("search id is required")
	}
	if p.Search.SubmittedAt.IsZero() {
		return offer.Query{}, errs.New("search submission time is required")
	}
	a := p.Search.Address
	addr, err := offer.NewAddress(a.Street, a.HouseNumber, a.PostalCode, a.City, a.CountryCode)
	if err != nil {
		return offer.Query{}, errs.Wrap(err, "search address")
	}
	return offer.ReconstructQuery(p.Search.ID, addr, p.Search.SubmittedAt), nil
}

func (p payload) offers() (offer.Collection, error) {
	raw := bytes.TrimSpace(p.Offers)
	if len(raw) == 0 || raw[0] != '[' {
		return offer.Collection{}, errs.New("offers must be an array")
	}
	var list []offer.NormalizedOffer
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&list); err != nil {
		return offer.Collection{}, errs.Wrap(err, "decode offers")
	}
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return offer.Collection{}, errs.Wrapf(err, "offer %d", i)
		}
	}
	c, dups := offer.NewCollection(list)
	if len(dups) > 0 {
		return offer.Collection{}, errs.Newf("duplicate offers: %v", dups)
	}
	return c, nil
}
