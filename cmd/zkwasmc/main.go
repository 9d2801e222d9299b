// Command zkwasmc compiles a WebAssembly module's function body to zkASM
// text, per spec.md §6's external CLI contract.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aborg-dev/zkwasm/internal/compiler"
	"github.com/aborg-dev/zkwasm/internal/logging"
	"github.com/aborg-dev/zkwasm/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFile  string
	debug       bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "zkwasmc compile [file.wasm]",
	Short: "zkwasmc " + version.GetVersion(),
	Long: `zkwasmc compiles a straight-line WebAssembly function body into
zkASM text targeting a register+stack zero-knowledge virtual machine.

EXAMPLES:
  zkwasmc compile add.wasm          # writes add.zkasm next to it
  zkwasmc compile add.wasm -o out.zkasm
  zkwasmc compile add.wasm -d       # verbose logging`,
}

var compileCmd = &cobra.Command{
	Use:   "compile [file.wasm]",
	Short: "Compile a Wasm module to zkASM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(version.GetFullVersion())
			return nil
		}
		if debug {
			logging.SetLogger(zap.NewExample())
		}
		return runCompile(args[0])
	},
}

func init() {
	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output .zkasm file (default: input path with its extension replaced)")
	compileCmd.Flags().BoolVarP(&debug, "debug", "d", false, "show verbose compilation logging")
	compileCmd.Flags().BoolVar(&showVersion, "version", false, "print version information")
	rootCmd.AddCommand(compileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCompile implements `zkwasmc compile PATH.wasm`: read, compile, write
// PATH.zkasm, matching spec.md §6 exactly. Kept separate from the cobra
// RunE closure so it can be unit-tested without going through cobra.
func runCompile(inputPath string) error {
	out := outputFile
	if out == "" {
		out = replaceExt(inputPath, ".zkasm")
	}

	logging.L().Debug("reading wasm module", zap.String("path", inputPath))
	wasmBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	program, err := compiler.Compile(wasmBytes)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", inputPath, err)
	}

	if err := os.WriteFile(out, []byte(program), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	logging.L().Debug("wrote zkasm", zap.String("path", out))
	return nil
}

func replaceExt(path, newExt string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i] + newExt
	}
	return path + newExt
}
