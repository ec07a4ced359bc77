package util

// Ptr returns a pointer to the given value.
//
//	req := loginshield.CreateRealmUserRequest{Replace: util.Ptr(true)}
func Ptr[T any](v T) *T {
	return &v
}

// CloneMap returns a shallow copy of m. A nil map clones to an empty,
// non-nil map.
func CloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
