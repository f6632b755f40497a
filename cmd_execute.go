package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"mandrill/bytecode"
	"mandrill/vm"
)

type executeCmd struct{}

func (*executeCmd) Name() string     { return "execute" }
func (*executeCmd) Synopsis() string { return "run a compiled bytecode container, reading read/get input from stdin" }
func (*executeCmd) Usage() string {
	return "execute <program.mdrbc>\n"
}
func (*executeCmd) SetFlags(*flag.FlagSet) {}

func (*executeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "execute: expected exactly one bytecode file argument")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	container, err := bytecode.Load(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	machine, err := vm.New(container.Code, container.VarCount, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
