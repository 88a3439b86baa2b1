// Package validate implements the structural validator of spec §4.4: given
// a byte buffer claimed to be a typelib image, it re-derives every invariant
// the serializer (pkg/compile) relied upon — header shape, directory
// bounds, per-blob-kind field ranges, string and type-slot offsets, cross
// references — and reports the first violation found, annotated with the
// context path (an aggregate/member name trail) that localizes it.
//
// Validate borrows its input immutably (spec §3.7): it never copies the
// buffer and never retains it past the call. A successful Validate call is
// the other half of the round-trip property in spec §8: for every
// well-formed IR M, Validate(Compile(M)) succeeds.
package validate
