// Package format pins down the wire layout of a compiled typelib image:
// header, directory, and the fixed portion of every blob kind (spec §6).
// Nothing here touches the IR or walks a module; it is the shared contract
// between pkg/compile (which writes these shapes) and pkg/validate (which
// reads them back and checks every invariant the writer relied upon).
package format
