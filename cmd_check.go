package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check Mandrill source read from stdin, printing PASS or ERROR" }
func (*checkCmd) Usage() string {
	return "check < source.mdr\n"
}
func (*checkCmd) SetFlags(*flag.FlagSet) {}

// Execute always exits 0: check reports its verdict on stdout rather than
// through the process exit status.
func (*checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Println("ERROR")
		return subcommands.ExitSuccess
	}

	if _, err := compileSource(string(source)); err != nil {
		fmt.Println("ERROR")
		return subcommands.ExitSuccess
	}

	fmt.Println("PASS")
	return subcommands.ExitSuccess
}
