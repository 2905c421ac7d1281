package queries

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"

	"offer-compare/internal/domain/offer"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// PageCursor resumes a listing after a given offer. It is bound to the query
// and sort key it was issued for.
type PageCursor struct {
	QueryID uuid.UUID
	Sort    SortKey
	After   offer.Key
}

type Page struct {
	Offers []offer.NormalizedOffer
	Next   string
}

func EncodeCursor(c PageCursor) string {
	data := fmt.Sprintf("%s:%s:%s:%s/%s", CursorVersionV1, c.QueryID, c.Sort, c.After.Provider, c.After.OfferID)
	return base64.RawURLEncoding.EncodeToString([]byte(data))
}

func DecodeCursor(cursor string) (PageCursor, error) {
	if cursor == "" {
		return PageCursor{}, fmt.Errorf("%w: cursor cannot be empty", ErrInvalidCursor)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return PageCursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return PageCursor{}, fmt.Errorf("%w: unsupported version", ErrInvalidCursor)
	}

	// offer ids may contain ':' so only the leading fields are split
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		return PageCursor{}, fmt.Errorf("%w: expected '<query>:<sort>:<provider>/<offer>'", ErrInvalidCursor)
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return PageCursor{}, fmt.Errorf("%w: invalid query id: %w", ErrInvalidCursor, err)
	}
	sort, err := ParseSortKey(parts[1])
	if err != nil || parts[1] == "" {
		return PageCursor{}, fmt.Errorf("%w: invalid sort key %q", ErrInvalidCursor, parts[1])
	}
	providerName, offerID, ok := strings.Cut(parts[2], "/")
	if !ok || offerID == "" {
		return PageCursor{}, fmt.Errorf("%w: invalid offer key", ErrInvalidCursor)
	}
	p, err := offer.ParseProvider(providerName)
	if err != nil {
		return PageCursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	return PageCursor{QueryID: id, Sort: sort, After: offer.Key{Provider: p, OfferID: offerID}}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// Paginate slices an already filtered and sorted listing. An empty cursor starts
// at the top; Next is empty on the last page.
func Paginate(offers []offer.NormalizedOffer, queryID uuid.UUID, key SortKey, cursor string, limit int) (Page, error) {
	start := 0
	if cursor != "" {
		c, err := DecodeCursor(cursor)
		if err != nil {
			return Page{}, err
		}
		if c.QueryID != queryID || c.Sort != key {
			return Page{}, fmt.Errorf("%w: issued for another listing", ErrInvalidCursor)
		}
		idx := slices.IndexFunc(offers, func(o offer.NormalizedOffer) bool { return o.Key() == c.After })
		if idx < 0 {
			return Page{}, fmt.Errorf("%w: offer %s is no longer listed", ErrInvalidCursor, c.After)
		}
		start = idx + 1
	}

	end := min(start+ValidateLimit(limit), len(offers))
	page := Page{Offers: offers[start:end]}
	if end < len(offers) {
		page.Next = EncodeCursor(PageCursor{QueryID: queryID, Sort: key, After: offers[end-1].Key()})
	}
	return page, nil
}
