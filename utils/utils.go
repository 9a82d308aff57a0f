// Package utils holds small helpers and platform-wide constants shared by
// every layer: pointer conveniences, UTC time handling, and the session and
// scoring constants.
package utils

// ToPtr returns a pointer to v. Used to fill optional model and DTO fields
// such as IsActive and IsPublic.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether an optional bool flag is present and set.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
