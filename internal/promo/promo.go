// Package promo validates checkout promo codes against gzipped code files.
// Files hold one code per line and are read from the local file system or
// from S3 at startup; validation afterwards is pure in-memory lookup.
package promo

import "context"

// Validator checks promo codes supplied at checkout.
type Validator interface {
	// Validate reports whether the code is accepted. A valid code is 8 to 10
	// characters long and appears in at least MinMatch of the loaded files.
	Validate(ctx context.Context, code string) error

	// Close releases resources held by the validator.
	Close() error
}

// Set is an immutable collection of promo codes.
type Set interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}

// Loader reads one gzipped code file into a Set.
type Loader interface {
	Load(ctx context.Context, path string) (Set, error)
}
