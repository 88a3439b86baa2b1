package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/internal/mmfile"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.typelib>",
		Short: "Print a typelib's directory",
		Long: `The dump command maps a compiled typelib file and lists its namespace,
version, and every directory entry's name, blob kind, and local/cross-
reference status, without checking any structural invariant.

Example:
  girc dump Foo-1.0.typelib
  girc dump Foo-1.0.typelib --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

type dumpEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Local bool   `json:"local"`
}

func runDump(args []string) error {
	path := args[0]
	printVerbose("Mapping %s\n", path)

	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return err
	}
	defer cleanup()

	h, err := format.DecodeHeader(data)
	if err != nil {
		printError("%v\n", err)
		return err
	}
	namespace, err := format.CString(data, h.NamespaceStringOffset)
	if err != nil {
		return err
	}
	version, err := format.CString(data, h.NSVersionStringOffset)
	if err != nil {
		return err
	}

	entries := make([]dumpEntry, 0, h.NEntries)
	for i := 0; i < int(h.NEntries); i++ {
		de, err := format.DirEntryAt(data, h.DirectoryOffset, i)
		if err != nil {
			printError("%v\n", err)
			return err
		}
		name, err := format.CString(data, de.NameStringOffset)
		if err != nil {
			return err
		}
		kind := "xref"
		if de.Local {
			kind = de.BlobType.String()
		}
		entries = append(entries, dumpEntry{Index: i, Name: name, Kind: kind, Local: de.Local})
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"namespace": namespace,
			"version":   version,
			"entries":   entries,
		})
	}

	printInfo("%s-%s  (%d entries, %d local)\n\n", namespace, version, h.NEntries, h.NLocalEntries)
	for _, e := range entries {
		status := "xref"
		if e.Local {
			status = "local"
		}
		fmt.Printf("  %4d  %-8s %-6s %s\n", e.Index, e.Kind, status, e.Name)
	}
	return nil
}
