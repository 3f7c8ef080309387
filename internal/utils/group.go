package utils

// GroupBy buckets rows by key. Order inside each bucket follows the input.
func GroupBy[K comparable, T any](rows []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, row := range rows {
		k := key(row)
		groups[k] = append(groups[k], row)
	}
	return groups
}
