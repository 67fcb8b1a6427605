package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdv-framework/sdvidlc/internal/compiler"
)

var (
	outputDir     string
	noProxyStub   bool
	psCMakeTarget string
	includeDirs   []string
)

var compileCmd = &cobra.Command{
	Use:   "compile <file...>",
	Short: "Compile one or more IDL files",
	Long: `Compile reads each IDL file, builds its semantic entity graph, and
generates the definition header (G1), proxy/stub sources (G2), serdes
header (G3), and merged CMakeLists.txt (G4) for it.

Examples:
  # Compile a single IDL file next to its sources
  sdvidlc compile api/foo.idl

  # Compile into a separate output tree, skipping proxy/stub generation
  sdvidlc compile --output-dir build/gen --no-proxy-stub api/foo.idl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&outputDir, "output-dir", "", "override output base directory (default: each input file's own directory)")
	compileCmd.Flags().BoolVar(&noProxyStub, "no-proxy-stub", false, "skip proxy/stub and build-descriptor generation")
	compileCmd.Flags().StringVar(&psCMakeTarget, "ps-cmake-target", "", "shared library target name used in the generated CMakeLists.txt (default: the input file's stem)")
	compileCmd.Flags().StringArrayVar(&includeDirs, "include", nil, "search path for #include resolution (repeatable)")
}

func runCompile(_ *cobra.Command, args []string) error {
	opts := compiler.Options{
		OutputDir:     outputDir,
		NoProxyStub:   noProxyStub,
		PSCMakeTarget: psCMakeTarget,
		IncludeDirs:   includeDirs,
		Verbose:       verbose,
		Quiet:         quiet,
	}

	report := func(file string, phase compiler.Phase) {
		if verbose {
			fmt.Fprintf(os.Stderr, "%s: %s\n", file, phase)
		}
	}

	results := compiler.CompileFiles(args, opts, report)

	failed := false
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		failed = true
		if quiet {
			continue
		}
		if r.Diagnostics != nil && r.Diagnostics.HasErrors() {
			fmt.Fprint(os.Stderr, r.Diagnostics.Format(verbose, false))
		}
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
		}
	}

	if failed {
		return fmt.Errorf("compilation failed")
	}
	return nil
}
