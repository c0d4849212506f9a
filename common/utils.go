package common

// Coalesce returns the first argument that is not the zero value of T, or the zero value
// when every argument is zero. Arrays compare element-wise, so Coalesce(scale, [3]float32{1, 1, 1})
// fills in an unset scale.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
