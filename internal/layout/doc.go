// Package layout computes byte size, alignment, and field offsets for every
// aggregate in a module and its include modules (spec §4.2). It is the one
// package besides pkg/ir's ResolveEntry that understands how interface
// references resolve across namespaces; the serializer and validator both
// treat its output (Struct.Size/Alignment, Field.Offset, ...) as already
// correct and never recompute it.
package layout
