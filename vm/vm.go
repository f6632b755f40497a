package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mandrill/compiler"
)

const (
	int32Min = -2147483648
	int32Max = 2147483647
)

// truncate32 wraps x into the signed 32-bit range using two's-complement
// semantics: ((x + 2^31) mod 2^32) − 2^31.
func truncate32(x int64) int32 {
	const shift = int64(1) << 31
	const mod = int64(1) << 32
	m := (x + shift) % mod
	if m < 0 {
		m += mod
	}
	return int32(m - shift)
}

// floorDiv computes integer division that floors toward negative infinity,
// matching Python's "//" operator.
func floorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod computes a modulus whose sign matches the divisor, matching
// Python's "%" operator (and, for b > 0, guaranteeing a non-negative
// result).
func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// VM is a stack-based bytecode interpreter. Its operand stack holds
// signed 64-bit values (wide enough that ADD and MUL never need to
// truncate mid-expression); its variable slots hold signed 32-bit values.
type VM struct {
	stack     []int64
	variables []int32
	code      compiler.Instructions
	pc        uint32

	out io.Writer

	inputTokens []string
	tokenPos    int
	inputBytes  []byte
	bytePos     int
}

// New constructs a VM over code with varCount global variable slots, all
// zero-initialized. Input for GETI/GETC is preloaded in full from in;
// output is written to out.
func New(code []byte, varCount int, in io.Reader, out io.Writer) (*VM, error) {
	buf, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading VM input: %w", err)
	}

	return &VM{
		variables:   make([]int32, varCount),
		code:        compiler.Instructions(code),
		out:         out,
		inputTokens: strings.Fields(string(buf)),
		inputBytes:  buf,
	}, nil
}

func (m *VM) push(v int64) {
	m.stack = append(m.stack, v)
}

func (m *VM) pop() (int64, error) {
	if len(m.stack) == 0 {
		return 0, RuntimeError{"stack underflow"}
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *VM) nextInt() int64 {
	for m.tokenPos < len(m.inputTokens) {
		tok := m.inputTokens[m.tokenPos]
		m.tokenPos++
		if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return v
		}
	}
	return 0
}

func (m *VM) nextChar() int64 {
	if m.bytePos >= len(m.inputBytes) {
		return 0
	}
	v := int64(m.inputBytes[m.bytePos])
	m.bytePos++
	return v
}

// Run executes the loaded bytecode to completion (a JUMP to
// compiler.HaltAddress) or until a RuntimeError occurs.
func (m *VM) Run() error {
	writer := bufio.NewWriter(m.out)
	defer writer.Flush()

	for {
		if int(m.pc) >= len(m.code) {
			return RuntimeError{fmt.Sprintf("program counter %d out of range (code size %d)", m.pc, len(m.code))}
		}
		if int(m.pc)%compiler.InstructionWidth != 0 {
			return RuntimeError{fmt.Sprintf("program counter %d is not instruction-aligned", m.pc)}
		}

		opcode, operand := compiler.DecodeInstruction(m.code, m.pc)

		halted, err := m.step(opcode, operand, writer)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

func (m *VM) step(opcode compiler.Opcode, operand uint32, writer *bufio.Writer) (halted bool, err error) {
	switch opcode {
	case compiler.OpNop:
		m.pc += compiler.InstructionWidth

	case compiler.OpDStore:
		m.push(int64(operand))
		m.pc += compiler.InstructionWidth

	case compiler.OpDLoad:
		if int(operand) >= len(m.variables) {
			return false, RuntimeError{fmt.Sprintf("variable index %d out of range", operand)}
		}
		m.push(int64(m.variables[operand]))
		m.pc += compiler.InstructionWidth

	case compiler.OpDWrite:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if int(operand) >= len(m.variables) {
			return false, RuntimeError{fmt.Sprintf("variable index %d out of range", operand)}
		}
		m.variables[operand] = truncate32(v)
		m.pc += compiler.InstructionWidth

	case compiler.OpEval:
		newPC, err := m.eval(compiler.EvalOp(operand))
		if err != nil {
			return false, err
		}
		if newPC != nil {
			m.pc = *newPC
		} else {
			m.pc += compiler.InstructionWidth
		}

	case compiler.OpJump:
		if operand == compiler.HaltAddress {
			return true, nil
		}
		if operand%compiler.InstructionWidth != 0 {
			return false, RuntimeError{fmt.Sprintf("jump target %d is not instruction-aligned", operand)}
		}
		m.pc = operand

	case compiler.OpGetI:
		m.push(m.nextInt())
		m.pc += compiler.InstructionWidth

	case compiler.OpGetC:
		m.push(m.nextChar())
		m.pc += compiler.InstructionWidth

	case compiler.OpPutI:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(writer, "%d", truncate32(v))
		m.pc += compiler.InstructionWidth

	case compiler.OpPutC:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		c := truncate32(v)
		if c >= 0 && c <= 127 {
			writer.WriteByte(byte(c))
		}
		m.pc += compiler.InstructionWidth

	default:
		return false, RuntimeError{fmt.Sprintf("unknown opcode 0x%08x", uint32(opcode))}
	}

	return false, nil
}

// eval executes an EVAL sub-operation. For compiler.EvalCondJump it
// returns the new program counter directly (since the jump target comes
// from the stack, not the instruction's operand); for every other
// sub-operation it returns nil and the caller simply advances the PC.
func (m *VM) eval(op compiler.EvalOp) (*uint32, error) {
	if op == compiler.EvalCondJump {
		return m.evalCondJump()
	}

	right, err := m.pop()
	if err != nil {
		return nil, err
	}
	left, err := m.pop()
	if err != nil {
		return nil, err
	}

	switch op {
	case compiler.EvalAdd:
		m.push(left + right)
	case compiler.EvalSub:
		m.push(int64(truncate32(left - right)))
	case compiler.EvalMul:
		m.push(left * right)
	case compiler.EvalDiv:
		if right == 0 {
			return nil, RuntimeError{"division by zero"}
		}
		m.push(int64(truncate32(floorDiv(left, right))))
	case compiler.EvalMod:
		if right == 0 {
			return nil, RuntimeError{"modulus by zero"}
		}
		m.push(int64(truncate32(floorMod(left, right))))
	case compiler.EvalGT:
		m.push(boolToInt(left > right))
	case compiler.EvalLT:
		m.push(boolToInt(left < right))
	case compiler.EvalGE:
		m.push(boolToInt(left >= right))
	case compiler.EvalLE:
		m.push(boolToInt(left <= right))
	case compiler.EvalEQ:
		m.push(boolToInt(left == right))
	case compiler.EvalNE:
		m.push(boolToInt(left != right))
	default:
		return nil, RuntimeError{fmt.Sprintf("unknown EVAL sub-opcode 0x%08x", uint32(op))}
	}
	return nil, nil
}

// evalCondJump pops, bottom-to-top, condition/then-address/else-address
// and returns the target PC selected by the condition.
func (m *VM) evalCondJump() (*uint32, error) {
	if len(m.stack) < 3 {
		return nil, RuntimeError{"stack underflow in COND_JUMP"}
	}
	n := len(m.stack)
	elseAddr := m.stack[n-1]
	thenAddr := m.stack[n-2]
	cond := m.stack[n-3]
	m.stack = m.stack[:n-3]

	target := elseAddr
	if cond != 0 {
		target = thenAddr
	}
	pc := uint32(target)
	return &pc, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
