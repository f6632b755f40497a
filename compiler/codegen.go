package compiler

import (
	"mandrill/ast"
)

// Program is the compiled output: the instruction stream and the number
// of global variable slots the VM must allocate.
type Program struct {
	Code     Instructions
	VarCount int
}

// Compiler lowers a parsed AST into a Program, assigning each distinct
// variable name a dense, first-seen-order index.
type Compiler struct {
	code     Instructions
	varIndex map[string]uint32
	varOrder []string
}

// New constructs an empty Compiler.
func New() *Compiler {
	return &Compiler{varIndex: make(map[string]uint32)}
}

// Compile lowers program into a Program, or returns the first
// GenerationError/DeveloperError encountered. Compile never panics on
// well-formed input produced by the parser; a DeveloperError panic raised
// for a malformed (hand-built) AST is recovered and returned as the error,
// following the teacher's defer/recover compile boundary. Any other panic
// propagates.
func Compile(program *ast.Program) (p Program, err error) {
	c := New()
	defer func() {
		if r := recover(); r != nil {
			if devErr, ok := r.(DeveloperError); ok {
				err = devErr
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range program.Statements {
		if err := stmt.Accept(c); err != nil {
			return Program{}, err
		}
	}
	c.code = MakeInstruction(c.code, OpJump, HaltAddress)

	return Program{Code: c.code, VarCount: len(c.varOrder)}, nil
}

func (c *Compiler) resolveVar(name string) uint32 {
	if idx, ok := c.varIndex[name]; ok {
		return idx
	}
	idx := uint32(len(c.varOrder))
	c.varIndex[name] = idx
	c.varOrder = append(c.varOrder, name)
	return idx
}

func (c *Compiler) here() uint32 {
	return uint32(len(c.code))
}

// emitPlaceholderJump appends a DSTORE instruction with a zero operand
// and returns its byte address so the operand can be patched later.
func (c *Compiler) emitPlaceholderJump() uint32 {
	return c.emitPlaceholder(OpDStore)
}

// emitPlaceholder appends an instruction of the given opcode with a zero
// operand and returns its byte address so the operand can be patched later.
func (c *Compiler) emitPlaceholder(opcode Opcode) uint32 {
	addr := c.here()
	c.code = MakeInstruction(c.code, opcode, 0)
	return addr
}

func (c *Compiler) patchJump(addr uint32, target uint32) {
	PatchOperand(c.code, addr, target)
}

// VisitProgram is unused: Compile walks program.Statements directly so
// that a single Program node is never nested inside another compile unit.
func (c *Compiler) VisitProgram(stmt *ast.Program) error {
	for _, s := range stmt.Statements {
		if err := s.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) VisitAssignment(stmt *ast.Assignment) error {
	if err := c.compileExpr(stmt.Value); err != nil {
		return err
	}
	switch target := stmt.Target.(type) {
	case *ast.VarRef:
		idx := c.resolveVar(target.Name)
		c.code = MakeInstruction(c.code, OpDWrite, idx)
	case ast.OutputSink:
		switch target.Kind {
		case "write":
			c.code = MakeInstruction(c.code, OpPutI, 0)
		case "put":
			c.code = MakeInstruction(c.code, OpPutC, 0)
		default:
			panic(DeveloperError{Message: "unknown output sink kind: " + target.Kind})
		}
	default:
		panic(DeveloperError{Message: "unknown assignment target type"})
	}
	return nil
}

// VisitIf lowers a conditional using Mandrill's three-value condition-jump
// convention: two DSTORE placeholders (then-address, else-address) are
// pushed ahead of the condition jump itself, so EVAL COND_JUMP pops
// (bottom-to-top) condition, then-address, else-address.
func (c *Compiler) VisitIf(stmt *ast.If) error {
	if err := c.compileExpr(stmt.Cond); err != nil {
		return err
	}

	thenAddrSlot := c.emitPlaceholderJump()
	elseAddrSlot := c.emitPlaceholderJump()
	c.code = MakeInstruction(c.code, OpEval, uint32(EvalCondJump))

	thenStart := c.here()
	if err := c.compileBlock(stmt.Then); err != nil {
		return err
	}

	if stmt.Else == nil {
		endAddr := c.here()
		c.patchJump(thenAddrSlot, thenStart)
		c.patchJump(elseAddrSlot, endAddr)
		return nil
	}

	endJumpSlot := c.emitPlaceholder(OpJump)

	elseStart := c.here()
	if err := c.compileBlock(stmt.Else); err != nil {
		return err
	}
	endAddr := c.here()

	c.patchJump(thenAddrSlot, thenStart)
	c.patchJump(elseAddrSlot, elseStart)
	c.patchJump(endJumpSlot, endAddr)
	return nil
}

// VisitWhile lowers a pre-tested loop with the same condition-jump
// convention as VisitIf: the then-branch re-enters the loop body, the
// else-branch falls through to the loop's exit.
func (c *Compiler) VisitWhile(stmt *ast.While) error {
	loopStart := c.here()
	if err := c.compileExpr(stmt.Cond); err != nil {
		return err
	}

	thenAddrSlot := c.emitPlaceholderJump()
	elseAddrSlot := c.emitPlaceholderJump()
	c.code = MakeInstruction(c.code, OpEval, uint32(EvalCondJump))

	bodyStart := c.here()
	if err := c.compileBlock(stmt.Body); err != nil {
		return err
	}
	c.code = MakeInstruction(c.code, OpJump, loopStart)

	loopEnd := c.here()
	c.patchJump(thenAddrSlot, bodyStart)
	c.patchJump(elseAddrSlot, loopEnd)
	return nil
}

func (c *Compiler) compileBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := s.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileExpr(expr ast.Expr) error {
	_, err := expr.Accept(exprCompiler{c})
	return err
}

// exprCompiler adapts Compiler to ast.ExprVisitor; expression compilation
// never produces a Go value, only emitted bytecode, so every Visit method
// returns (nil, err).
type exprCompiler struct {
	c *Compiler
}

func (v exprCompiler) VisitBinaryOp(e *ast.BinaryOp) (any, error) {
	if err := v.c.compileExpr(e.Left); err != nil {
		return nil, err
	}
	if err := v.c.compileExpr(e.Right); err != nil {
		return nil, err
	}
	evalOp, ok := binaryOpEval[e.Op]
	if !ok {
		return nil, GenerationError{Message: "unknown binary operator: " + e.Op}
	}
	v.c.code = MakeInstruction(v.c.code, OpEval, uint32(evalOp))
	return nil, nil
}

func (v exprCompiler) VisitVarRef(e *ast.VarRef) (any, error) {
	idx := v.c.resolveVar(e.Name)
	v.c.code = MakeInstruction(v.c.code, OpDLoad, idx)
	return nil, nil
}

func (v exprCompiler) VisitIntLiteral(e *ast.IntLiteral) (any, error) {
	v.c.code = MakeInstruction(v.c.code, OpDStore, uint32(e.Value))
	return nil, nil
}

func (v exprCompiler) VisitInputSource(e *ast.InputSource) (any, error) {
	switch e.Kind {
	case "read":
		v.c.code = MakeInstruction(v.c.code, OpGetI, 0)
	case "get":
		v.c.code = MakeInstruction(v.c.code, OpGetC, 0)
	default:
		return nil, GenerationError{Message: "unknown input source kind: " + e.Kind}
	}
	return nil, nil
}
