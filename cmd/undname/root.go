package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/skdltmxn/undname-go/demangle"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	output     io.Writer

	spacey bool
	strict bool

	errColor = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "undname [symbol...]",
	Short: "Demangle Microsoft C++ symbol names",
	Long: `undname decodes symbol names produced by the Microsoft C++
compiler back into readable declarations.

Symbols can be passed as arguments:

  undname "??0klass@@QEAA@XZ"

With no arguments, undname reads lines from standard input and rewrites
every mangled symbol it finds, leaving the rest of each line untouched.
This makes it usable as a filter over linker maps or stack traces:

  dumpbin /symbols app.obj | undname`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
	SilenceUsage: true,
	RunE:         runDemangle,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.Flags().BoolVarP(&spacey, "spacey", "s", false, "pad the output the way undname.exe does")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "fail on the first symbol that cannot be demangled")
}

func whitespaceMode() demangle.WhitespaceMode {
	if spacey {
		return demangle.LotsOfWhitespace
	}
	return demangle.LessWhitespace
}

func runDemangle(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return filterStdin()
	}

	mode := whitespaceMode()
	failed := 0
	for _, sym := range args {
		out, err := demangle.Demangle(sym, mode)
		if err != nil {
			if strict {
				return fmt.Errorf("%s: %w", sym, err)
			}
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", errColor.Sprint("error:"), sym, err)
			failed++
			continue
		}
		fmt.Fprintln(output, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d symbol(s) could not be demangled", failed)
	}
	return nil
}

func filterStdin() error {
	mode := whitespaceMode()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(output, demangle.Filter(scanner.Text(), mode))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
