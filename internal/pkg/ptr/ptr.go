package ptr

func To[T any](v T) *T {
	return &v
}

// Clone copies the pointee so snapshots never share optional fields.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
