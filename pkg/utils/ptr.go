// Package utils holds small helpers shared by the binaries.
package utils //nolint:revive // var-naming: utils is an acceptable package name for shared utilities

// ToPtr returns a pointer to v.
func ToPtr[T any](v T) *T {
	return &v
}

// Deref returns *p, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
