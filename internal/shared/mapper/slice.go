// Package mapper holds small generic helpers for converting between
// wire-level tuples, domain objects and output views.
package mapper

// MapSlice converts each element with mapFunc. A nil input yields nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}
	result := make([]R, len(items))
	for i, item := range items {
		result[i] = mapFunc(item)
	}
	return result
}

// MapSliceWithError converts each element with mapFunc, stopping at the
// first failure. A nil input yields nil.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}
	result := make([]R, len(items))
	for i, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, err
		}
		result[i] = mapped
	}
	return result, nil
}
