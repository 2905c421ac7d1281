package offer

// Collection is an immutable set of offers keyed by (provider, offer id).
// Offers are grouped per provider in the fixed provider order, so the listing
// does not depend on which provider settled first. The zero value is empty.
type Collection struct {
	buckets [len(allProviders)][]NormalizedOffer
	index   map[Key]struct{}
	size    int
}

// NewCollection builds a collection from offers, reporting keys seen more than once.
func NewCollection(offers []NormalizedOffer) (Collection, []Key) {
	return Collection{}.Merge(offers)
}

// Merge returns a new collection containing c plus offers. The first occurrence of
// a key wins; every later occurrence is skipped and returned in duplicates, as is
// any offer whose provider is unknown.
func (c Collection) Merge(offers []NormalizedOffer) (merged Collection, duplicates []Key) {
	merged = Collection{
		index: make(map[Key]struct{}, c.size+len(offers)),
		size:  c.size,
	}
	for k := range c.index {
		merged.index[k] = struct{}{}
	}
	for i := range c.buckets {
		merged.buckets[i] = c.buckets[i][:len(c.buckets[i]):len(c.buckets[i])]
	}

	for _, o := range offers {
		idx := o.Provider.index()
		key := o.Key()
		if _, seen := merged.index[key]; seen || idx < 0 {
			duplicates = append(duplicates, key)
			continue
		}
		merged.index[key] = struct{}{}
		merged.buckets[idx] = append(merged.buckets[idx], o.Clone())
		merged.size++
	}
	return merged, duplicates
}

func (c Collection) Len() int {
	return c.size
}

func (c Collection) Contains(key Key) bool {
	_, ok := c.index[key]
	return ok
}

func (c Collection) Get(key Key) (NormalizedOffer, bool) {
	idx := key.Provider.index()
	if idx < 0 || !c.Contains(key) {
		return NormalizedOffer{}, false
	}
	for _, o := range c.buckets[idx] {
		if o.OfferID == key.OfferID {
			return o.Clone(), true
		}
	}
	return NormalizedOffer{}, false
}

// Offers returns a copy of every offer in listing order.
func (c Collection) Offers() []NormalizedOffer {
	out := make([]NormalizedOffer, 0, c.size)
	for _, bucket := range c.buckets {
		for _, o := range bucket {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (c Collection) ByProvider(p Provider) []NormalizedOffer {
	idx := p.index()
	if idx < 0 {
		return nil
	}
	out := make([]NormalizedOffer, 0, len(c.buckets[idx]))
	for _, o := range c.buckets[idx] {
		out = append(out, o.Clone())
	}
	return out
}

// Providers lists the providers that contributed at least one offer.
func (c Collection) Providers() []Provider {
	var out []Provider
	for i, bucket := range c.buckets {
		if len(bucket) > 0 {
			out = append(out, allProviders[i])
		}
	}
	return out
}
