package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"mandrill/bytecode"
	"mandrill/compiler"
	"mandrill/lexer"
	"mandrill/parser"
)

type compileCmd struct {
	disasm bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile Mandrill source read from stdin to a bytecode container written to stdout" }
func (*compileCmd) Usage() string {
	return "compile [-disasm] < source.mdr > program.mdrbc\n"
}
func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.disasm, "disasm", false, "write a disassembly of the compiled instructions to stderr")
}

func (c *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	program, err := compileSource(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.disasm {
		fmt.Fprint(os.Stderr, compiler.Disassemble(program.Code))
	}

	container := bytecode.Container{VarCount: program.VarCount, Code: program.Code}
	if err := bytecode.Write(os.Stdout, container); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// compileSource runs the full lex/parse/compile pipeline over Mandrill
// source text, shared by the compile and check subcommands.
func compileSource(source string) (compiler.Program, error) {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return compiler.Program{}, err
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		return compiler.Program{}, err
	}

	return compiler.Compile(program)
}
