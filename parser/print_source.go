package parser

import (
	"fmt"
	"strings"

	"mandrill/ast"
)

// PrintSource renders a Program back into Mandrill source text. Unlike
// PrintJSON (a debug aid), its output is valid Mandrill: re-lexing and
// re-parsing it yields a structurally identical AST, which is what makes
// it useful for round-trip tests of grammar completeness.
func PrintSource(program *ast.Program) string {
	var b strings.Builder
	writeStatements(&b, program.Statements, 0)
	return b.String()
}

func writeStatements(b *strings.Builder, stmts []ast.Stmt, indent int) {
	for _, s := range stmts {
		writeStmt(b, s, indent)
	}
}

func pad(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
}

func writeStmt(b *strings.Builder, stmt ast.Stmt, indent int) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		pad(b, indent)
		writeLvalue(b, s.Target)
		b.WriteString(" = ")
		writeExpr(b, s.Value)
		b.WriteString(";\n")

	case *ast.If:
		pad(b, indent)
		b.WriteString("if (")
		writeExpr(b, s.Cond)
		b.WriteString(") {\n")
		writeStatements(b, s.Then, indent+1)
		pad(b, indent)
		b.WriteString("}")
		if s.Else != nil {
			b.WriteString(" else {\n")
			writeStatements(b, s.Else, indent+1)
			pad(b, indent)
			b.WriteString("}")
		}
		b.WriteString("\n")

	case *ast.While:
		pad(b, indent)
		b.WriteString("while (")
		writeExpr(b, s.Cond)
		b.WriteString(") {\n")
		writeStatements(b, s.Body, indent+1)
		pad(b, indent)
		b.WriteString("}\n")
	}
}

func writeLvalue(b *strings.Builder, l ast.Lvalue) {
	switch v := l.(type) {
	case *ast.VarRef:
		b.WriteString(v.Name)
	case ast.OutputSink:
		b.WriteString(v.Kind)
	}
}

func writeExpr(b *strings.Builder, expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.BinaryOp:
		b.WriteString("(")
		writeExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Op)
		writeExpr(b, e.Right)
		b.WriteString(")")
	case *ast.VarRef:
		b.WriteString(e.Name)
	case *ast.IntLiteral:
		fmt.Fprintf(b, "%d", e.Value)
	case *ast.InputSource:
		b.WriteString(e.Kind)
	}
}
