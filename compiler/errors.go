package compiler

import "fmt"

// GenerationError reports a code generation failure. Per the accepted
// grammar this should never fire on parser output; it exists to guard
// against hand-built ASTs that violate the node set's invariants.
type GenerationError struct {
	Message string
}

func (e GenerationError) Error() string {
	return fmt.Sprintf("💥 GenerationError: %s", e.Message)
}

// DeveloperError reports a compiler bug: an invariant the compiler itself
// is supposed to guarantee was violated.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
