package parser

// Options configures a Parser, mirroring hivekit's Options/DefaultOptions
// pattern (hive/builder/options.go).
type Options struct {
	// IncludeDirs are searched, in order, before the parser's own built-in
	// system data directories, for "<Name>-<Version>.gir" files referenced
	// by <include> (spec §4.1).
	IncludeDirs []string

	// SystemDataDirs is consulted after IncludeDirs. Populated from
	// XDG_DATA_DIRS-style locations by callers; empty by default so tests
	// are hermetic.
	SystemDataDirs []string

	// MaxIncludeDepth guards against a pathological include chain, mirroring
	// hivekit's pkg/ast guard-rail constants.
	MaxIncludeDepth int
}

// DefaultOptions returns an Options with a conservative include-depth cap
// and no search directories configured.
func DefaultOptions() Options {
	return Options{MaxIncludeDepth: 64}
}
