// Package interpreter is a tree-walking reference oracle for Mandrill
// programs, evaluated directly from the AST rather than compiled
// bytecode. It exists to cross-check the compiler and VM against an
// independent evaluation path.
package interpreter

import "fmt"

// RuntimeError reports an evaluation failure: an unknown operator, input or
// output kind, or assignment target reaching the interpreter. Reading an
// undeclared variable is not an error; it yields 0.
type RuntimeError struct {
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError: %s", e.Message)
}
