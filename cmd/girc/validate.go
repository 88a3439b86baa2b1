package main

import (
	"github.com/spf13/cobra"

	"github.com/gircomp/gircomp/internal/mmfile"
	"github.com/gircomp/gircomp/pkg/validate"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.typelib>",
		Short: "Validate the structural invariants of a compiled typelib",
		Long: `The validate command maps a compiled typelib file and checks its
header, directory, attribute table, and every blob's invariants, reporting
the first violation found with a context path.

Example:
  girc validate Foo-1.0.typelib
  girc validate Foo-1.0.typelib --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
}

func runValidate(args []string) error {
	path := args[0]
	printVerbose("Validating %s\n", path)

	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return err
	}
	defer cleanup()

	verr := validate.Validate(data)

	if jsonOut {
		result := map[string]interface{}{
			"file":  path,
			"valid": verr == nil,
		}
		if verr != nil {
			result["error"] = verr.Error()
		}
		return printJSON(result)
	}

	printInfo("Validating %s...\n\n", path)
	if verr != nil {
		printInfo("  invalid: %v\n", verr)
		return verr
	}
	printInfo("  valid\n")
	return nil
}
