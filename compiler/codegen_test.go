package compiler

import (
	"testing"

	"mandrill/lexer"
	"mandrill/parser"
)

func compileSource(t *testing.T, src string) Program {
	t.Helper()
	tokens, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lexer.Scan: %v", err)
	}
	program, err := parser.New(tokens).Parse()
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	compiled, err := Compile(program)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return compiled
}

func TestCompileHaltsAtEnd(t *testing.T) {
	compiled := compileSource(t, "x = 1;")
	last := compiled.Code[len(compiled.Code)-InstructionWidth:]
	opcode, operand := DecodeInstruction(last, 0)
	if opcode != OpJump || operand != HaltAddress {
		t.Fatalf("got final instruction (%v, %#x), want (OpJump, HaltAddress)", opcode, operand)
	}
}

func TestCompileAssignsDenseFirstSeenVarIndices(t *testing.T) {
	compiled := compileSource(t, "b = 1; a = 2; b = 3;")
	if compiled.VarCount != 2 {
		t.Fatalf("got VarCount %d, want 2", compiled.VarCount)
	}

	var writes []uint32
	for addr := uint32(0); int(addr) < len(compiled.Code); addr += InstructionWidth {
		opcode, operand := DecodeInstruction(compiled.Code, addr)
		if opcode == OpDWrite {
			writes = append(writes, operand)
		}
	}
	want := []uint32{0, 1, 0}
	if len(writes) != len(want) {
		t.Fatalf("got %d DWRITE instructions, want %d", len(writes), len(want))
	}
	for i := range want {
		if writes[i] != want[i] {
			t.Errorf("DWRITE %d: got index %d, want %d", i, writes[i], want[i])
		}
	}
}

func TestCompileCondJumpTargetsInRange(t *testing.T) {
	compiled := compileSource(t, "x = read; if (x > 0) { write = 1; } else { write = 0; }")
	codeLen := uint32(len(compiled.Code))
	for addr := uint32(0); addr+InstructionWidth <= codeLen; addr += InstructionWidth {
		opcode, operand := DecodeInstruction(compiled.Code, addr)
		if opcode == OpEval && EvalOp(operand) == EvalCondJump {
			_, thenAddr := DecodeInstruction(compiled.Code, addr-2*InstructionWidth)
			_, elseAddr := DecodeInstruction(compiled.Code, addr-InstructionWidth)
			if thenAddr >= codeLen || elseAddr >= codeLen {
				t.Errorf("COND_JUMP at %#x has out-of-range targets then=%#x else=%#x (code len %#x)", addr, thenAddr, elseAddr, codeLen)
			}
		}
	}
}

func TestCompileRejectsWriteAsExpressionAtParseTime(t *testing.T) {
	tokens, err := lexer.New("x = write + 1;").Scan()
	if err != nil {
		t.Fatalf("lexer.Scan: %v", err)
	}
	if _, err := parser.New(tokens).Parse(); err == nil {
		t.Fatal("expected the parser to reject \"write\" in expression position before compilation is reached")
	}
}

func TestCompileEchoSumProgram(t *testing.T) {
	compiled := compileSource(t, "a = read; b = read; write = a + b;")
	if compiled.VarCount != 2 {
		t.Fatalf("got VarCount %d, want 2", compiled.VarCount)
	}
}
