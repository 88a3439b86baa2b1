// Package parser implements the two-pass XML-to-IR parser (spec §4.1): a
// first pass over <alias> and <record> start tags to build the alias and
// disguised-record tables a type reference needs before it is seen, and a
// full second pass that builds the pkg/ir.Module graph, expanding <include>
// into sibling modules. A post-filter then drops varargs-dependent nodes
// (spec §4.1's closing paragraph).
package parser
