// Package ir defines the intermediate object graph that the parser builds,
// the layout engine measures, and the serializer walks: namespace modules,
// their entries (functions, callbacks, aggregates, enums, error domains,
// constants, and cross-reference stubs), and the members and type
// descriptors each entry carries (spec §3).
//
// Every entry kind is its own concrete struct rather than a single
// open-coded record, so that adding a member array to the serializer or the
// validator without also touching this package simply fails to compile —
// the rewrite's tagged-sum-type preference over the original's open-coded
// switches (spec §9 "Dynamic dispatch over blob kinds").
package ir
