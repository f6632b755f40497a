package parser

import (
	"encoding/json"

	"mandrill/ast"
)

// astPrinter renders AST nodes as JSON-friendly maps. It is used by the
// repl subcommand and by tests that check grammar round-tripping.
type astPrinter struct{}

func (astPrinter) VisitBinaryOp(e *ast.BinaryOp) (any, error) {
	left, err := e.Left.Accept(astPrinter{})
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Accept(astPrinter{})
	if err != nil {
		return nil, err
	}
	return map[string]any{"node": "BinaryOp", "op": e.Op, "left": left, "right": right}, nil
}

func (astPrinter) VisitVarRef(e *ast.VarRef) (any, error) {
	return map[string]any{"node": "VarRef", "name": e.Name}, nil
}

func (astPrinter) VisitIntLiteral(e *ast.IntLiteral) (any, error) {
	return map[string]any{"node": "IntLiteral", "value": e.Value}, nil
}

func (astPrinter) VisitInputSource(e *ast.InputSource) (any, error) {
	return map[string]any{"node": "InputSource", "kind": e.Kind}, nil
}

func lvalueToMap(l ast.Lvalue) map[string]any {
	switch v := l.(type) {
	case *ast.VarRef:
		return map[string]any{"node": "VarRef", "name": v.Name}
	case ast.OutputSink:
		return map[string]any{"node": "OutputSink", "kind": v.Kind}
	default:
		return map[string]any{"node": "unknown"}
	}
}

func stmtsToMaps(stmts []ast.Stmt) ([]any, error) {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		m, err := printStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func printStmt(s ast.Stmt) (any, error) {
	var result any
	visitor := &stmtPrinter{result: &result}
	if err := s.Accept(visitor); err != nil {
		return nil, err
	}
	return result, nil
}

type stmtPrinter struct {
	result *any
}

func (sp *stmtPrinter) VisitProgram(stmt *ast.Program) error {
	statements, err := stmtsToMaps(stmt.Statements)
	if err != nil {
		return err
	}
	*sp.result = map[string]any{"node": "Program", "statements": statements}
	return nil
}

func (sp *stmtPrinter) VisitAssignment(stmt *ast.Assignment) error {
	value, err := stmt.Value.Accept(astPrinter{})
	if err != nil {
		return err
	}
	*sp.result = map[string]any{
		"node":   "Assignment",
		"target": lvalueToMap(stmt.Target),
		"value":  value,
	}
	return nil
}

func (sp *stmtPrinter) VisitIf(stmt *ast.If) error {
	cond, err := stmt.Cond.Accept(astPrinter{})
	if err != nil {
		return err
	}
	thenBody, err := stmtsToMaps(stmt.Then)
	if err != nil {
		return err
	}
	var elseBody []any
	if stmt.Else != nil {
		elseBody, err = stmtsToMaps(stmt.Else)
		if err != nil {
			return err
		}
	}
	*sp.result = map[string]any{
		"node": "If",
		"cond": cond,
		"then": thenBody,
		"else": elseBody,
	}
	return nil
}

func (sp *stmtPrinter) VisitWhile(stmt *ast.While) error {
	cond, err := stmt.Cond.Accept(astPrinter{})
	if err != nil {
		return err
	}
	body, err := stmtsToMaps(stmt.Body)
	if err != nil {
		return err
	}
	*sp.result = map[string]any{"node": "While", "cond": cond, "body": body}
	return nil
}

// PrintJSON renders a Program as indented JSON.
func PrintJSON(program *ast.Program) (string, error) {
	tree, err := printStmt(program)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
