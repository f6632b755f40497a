package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"mandrill/interpreter"
	"mandrill/lexer"
	"mandrill/parser"
	"mandrill/token"
)

// replCmd is an interactive oracle shell: it tree-walks each statement
// through the interpreter package as soon as a complete block is typed,
// rather than compiling to bytecode. It exists to let a user poke at
// Mandrill semantics without a separate compile/execute round trip.
type replCmd struct {
	printAST bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "interactive Mandrill shell, backed by the tree-walking oracle" }
func (*replCmd) Usage() string {
	return "repl [-ast]\n"
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.printAST, "ast", false, "print each statement's AST before evaluating it")
}

func (r *replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	rl, err := readline.New("mandrill> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	interp := interpreter.New(os.Stdout)
	var buffer strings.Builder

	for {
		prompt := "mandrill> "
		if buffer.Len() > 0 {
			prompt = "       -> "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buffer.Len() == 0 {
				continue
			}
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		tokens, lexErr := lexer.New(buffer.String()).Scan()
		if lexErr != nil {
			fmt.Fprintln(os.Stderr, lexErr)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		program, parseErr := parser.New(tokens).Parse()
		if parseErr != nil {
			if allParseErrorsAtEOF(parseErr, tokens) {
				continue
			}
			fmt.Fprintln(os.Stderr, parseErr)
			buffer.Reset()
			continue
		}

		if r.printAST {
			if rendered, err := parser.PrintJSON(program); err == nil {
				fmt.Println(rendered)
			}
		}

		if err := interp.Interpret(program); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Println()

		buffer.Reset()
	}
}

// isInputReady reports whether the braces seen so far are balanced,
// meaning the buffered text isn't in the middle of an if/while body.
func isInputReady(tokens []token.Token) bool {
	depth := 0
	for _, t := range tokens {
		switch {
		case t.IsOperator("{"):
			depth++
		case t.IsOperator("}"):
			depth--
		}
	}
	return depth <= 0
}

// allParseErrorsAtEOF reports whether a parse failure points at the
// token stream's EOF position, which usually means the statement is just
// incomplete rather than genuinely malformed.
func allParseErrorsAtEOF(err error, tokens []token.Token) bool {
	syntaxErr, ok := err.(parser.SyntaxError)
	if !ok || len(tokens) == 0 {
		return false
	}
	eof := tokens[len(tokens)-1]
	return syntaxErr.Line == eof.Line && syntaxErr.Column == eof.Column
}
