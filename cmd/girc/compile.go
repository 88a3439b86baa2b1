package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gircomp/gircomp/internal/parser"
	"github.com/gircomp/gircomp/pkg/compile"
)

var (
	compileIncludeDirs []string
	compileOutput      string
	compileEmitC       bool
	compileNoInit      bool
)

func init() {
	cmd := newCompileCmd()
	cmd.Flags().StringSliceVarP(&compileIncludeDirs, "includedir", "I", nil, "Directory to search for <include> documents")
	cmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Output typelib path (default: <namespace>-<version>.typelib)")
	cmd.Flags().BoolVar(&compileEmitC, "emit-c", false, "Also render a C source embedding the typelib")
	cmd.Flags().BoolVar(&compileNoInit, "no-init", false, "Suppress the constructor-registration stub in --emit-c output")
	rootCmd.AddCommand(cmd)
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file.gir>",
		Short: "Compile a GIR XML document into a binary typelib",
		Long: `The compile command parses a GIR XML document, resolves its includes,
lays out every aggregate, and serializes the result into a binary typelib
image.

Example:
  girc compile Foo-1.0.gir
  girc compile Foo-1.0.gir -I /usr/share/gir-1.0 -o Foo-1.0.typelib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args)
		},
	}
}

func runCompile(args []string) error {
	girPath := args[0]
	printVerbose("Parsing %s\n", girPath)

	opts := parser.DefaultOptions()
	opts.IncludeDirs = compileIncludeDirs
	p := parser.New(opts)
	m, err := p.ParseFile(girPath)
	if err != nil {
		printError("parse failed: %v\n", err)
		return err
	}

	printVerbose("Compiling namespace %s-%s\n", m.Name, m.Version)
	cOpts := compile.DefaultOptions()
	cOpts.EmitC = compileEmitC
	cOpts.NoInit = compileNoInit
	res, err := compile.Compile(m, cOpts)
	if err != nil {
		printError("compile failed: %v\n", err)
		return err
	}

	outPath := compileOutput
	if outPath == "" {
		outPath = m.Name + "-" + m.Version + ".typelib"
	}
	if err := os.WriteFile(outPath, res.Image, 0o644); err != nil {
		return err
	}
	printInfo("Wrote %s (%d bytes)\n", outPath, len(res.Image))

	if compileEmitC {
		cPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".c"
		if err := os.WriteFile(cPath, []byte(res.C), 0o644); err != nil {
			return err
		}
		printInfo("Wrote %s\n", cPath)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"namespace": m.Name,
			"version":   m.Version,
			"output":    outPath,
			"size":      len(res.Image),
		})
	}
	return nil
}
