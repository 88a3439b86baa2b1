// Package compile serializes a laid-out IR module into a typelib binary
// image (spec §4.3, §6). It runs the layout engine itself so callers only
// need a parsed module.
package compile

// Options configures a single compilation (spec §4 supplemented feature 6
// adds EmitC; the rest mirrors gtypelib.c:g_ir_module_build_typelib's single
// entry point, which took no user-configurable knobs).
type Options struct {
	// EmitC, when true, also renders a C source file that embeds the
	// binary image as a byte array (spec §4 supplemented feature 6).
	EmitC bool

	// NoInit suppresses the constructor-registration stub that EmitC would
	// otherwise append, mirroring compiler.c's --no-init flag.
	NoInit bool
}

// DefaultOptions returns the zero-value Options (no C emission).
func DefaultOptions() Options { return Options{} }

// Result is everything a successful Compile call produces.
type Result struct {
	Image []byte
	C     string // rendered C source; empty unless Options.EmitC
}
