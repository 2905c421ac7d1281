package response

import (
	"log/slog"

	"offer-compare/internal/domain/comparison"
	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/queries"
	"offer-compare/internal/usecase/search"
	"offer-compare/internal/usecase/session"
	"offer-compare/internal/usecase/share"

	"github.com/jinzhu/copier"
)

type AddressResponse struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

type QueryResponse struct {
	ID          string          `json:"id"`
	Address     AddressResponse `json:"address"`
	SubmittedAt int64           `json:"submittedAt"`
}

type SessionResponse struct {
	ID        string         `json:"id"`
	LastQuery *QueryResponse `json:"lastQuery,omitempty"`
}

type SearchAcceptedResponse struct {
	QueryID string `json:"queryId"`
}

type SummaryResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type SnapshotResponse struct {
	Query      *QueryResponse    `json:"query,omitempty"`
	Generation uint64            `json:"generation"`
	Statuses   map[string]string `json:"statuses"`
	Summary    SummaryResponse   `json:"summary"`
	OfferCount int               `json:"offerCount"`
	Duplicates []string          `json:"duplicates,omitempty"`
	Complete   bool              `json:"complete"`
}

type OfferResponse struct {
	offer.NormalizedOffer
	EffectiveMonthlyCents *int64 `json:"effectiveMonthlyCents,omitempty"`
}

type OffersResponse struct {
	Query      *QueryResponse         `json:"query,omitempty"`
	Offers     []OfferResponse        `json:"offers"`
	Total      int                    `json:"total"`
	Shown      int                    `json:"shown"`
	NextCursor string                 `json:"nextCursor,omitempty"`
	Criteria   queries.FilterCriteria `json:"criteria"`
	RangeMode  string                 `json:"rangeMode"`
	AutoRange  queries.PriceRange     `json:"autoRange"`
	Sort       string                 `json:"sort"`
	Statuses   map[string]string      `json:"statuses"`
	Complete   bool                   `json:"complete"`
	Shared     bool                   `json:"shared"`
}

type ComparisonResponse struct {
	Offers   []OfferResponse `json:"offers"`
	Capacity int             `json:"capacity"`
	Full     bool            `json:"full"`
}

type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type SharedStateResponse struct {
	Shared    bool            `json:"shared"`
	Query     *QueryResponse  `json:"query,omitempty"`
	Offers    []OfferResponse `json:"offers,omitempty"`
	CreatedAt int64           `json:"createdAt,omitempty"`
}

func FromAddress(a offer.Address) AddressResponse {
	var res AddressResponse
	// copier reads the getters by field name
	if err := copier.Copy(&res, &a); err != nil {
		slog.Error("failed to map address", "error", err)
		return AddressResponse{
			Street:      a.Street(),
			HouseNumber: a.HouseNumber(),
			PostalCode:  a.PostalCode(),
			City:        a.City(),
			CountryCode: a.CountryCode(),
		}
	}
	return res
}

func FromQuery(q offer.Query) *QueryResponse {
	if q.IsZero() {
		return nil
	}
	return &QueryResponse{
		ID:          q.ID().String(),
		Address:     FromAddress(q.Address()),
		SubmittedAt: q.SubmittedAt().Unix(),
	}
}

func FromSession(id string, last offer.Query, ok bool) *SessionResponse {
	res := &SessionResponse{ID: id}
	if ok {
		res.LastQuery = FromQuery(last)
	}
	return res
}

func FromOffer(o offer.NormalizedOffer) OfferResponse {
	res := OfferResponse{NormalizedOffer: o}
	if cents, ok := o.EffectiveMonthlyCents(); ok {
		res.EffectiveMonthlyCents = &cents
	}
	return res
}

func FromOffers(offers []offer.NormalizedOffer) []OfferResponse {
	res := make([]OfferResponse, len(offers))
	for i, o := range offers {
		res[i] = FromOffer(o)
	}
	return res
}

func fromStatuses(m offer.StatusMap) map[string]string {
	out := make(map[string]string, len(offer.AllProviders()))
	for p, st := range m.Map() {
		out[p.String()] = string(st)
	}
	return out
}

func FromSnapshot(snap search.Snapshot) *SnapshotResponse {
	sum := snap.Summary()
	res := &SnapshotResponse{
		Query:      FromQuery(snap.Query),
		Generation: snap.Generation,
		Statuses:   fromStatuses(snap.Statuses),
		Summary: SummaryResponse{
			Total:     sum.Total,
			Pending:   sum.Pending,
			Succeeded: sum.Succeeded,
			Failed:    sum.Failed,
		},
		OfferCount: snap.Offers.Len(),
		Complete:   snap.Complete,
	}
	for _, k := range snap.Duplicates {
		res.Duplicates = append(res.Duplicates, k.String())
	}
	return res
}

func FromView(v session.View) *OffersResponse {
	return &OffersResponse{
		Query:     FromQuery(v.Query),
		Offers:    FromOffers(v.Offers),
		Total:     v.Total,
		Shown:     len(v.Offers),
		Criteria:  v.Criteria,
		RangeMode: string(v.RangeMode),
		AutoRange: v.AutoRange,
		Sort:      string(v.Sort),
		Statuses:  fromStatuses(v.Statuses),
		Complete:  v.Complete,
		Shared:    v.Shared,
	}
}

// FromViewPage is FromView restricted to one page of the listing.
func FromViewPage(v session.View, p queries.Page) *OffersResponse {
	res := FromView(v)
	res.Offers = FromOffers(p.Offers)
	res.Shown = len(p.Offers)
	res.NextCursor = p.Next
	return res
}

func FromComparison(items []offer.NormalizedOffer) *ComparisonResponse {
	return &ComparisonResponse{
		Offers:   FromOffers(items),
		Capacity: comparison.MaxSize,
		Full:     len(items) >= comparison.MaxSize,
	}
}

func FromSharedState(st *share.State) *SharedStateResponse {
	if st == nil {
		return &SharedStateResponse{Shared: false}
	}
	return &SharedStateResponse{
		Shared:    true,
		Query:     FromQuery(st.Query),
		Offers:    FromOffers(st.Offers.Offers()),
		CreatedAt: st.CreatedAt.Unix(),
	}
}
