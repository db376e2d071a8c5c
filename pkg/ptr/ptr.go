// Package ptr provides small pointer-taking helpers for building structs
// with optional fields without spelling out a local variable every time.
package ptr

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
