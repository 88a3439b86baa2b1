package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gircomp/gircomp/pkg/ir"
)

// Parser turns GIR documents into pkg/ir.Module graphs. A Parser instance
// caches previously parsed modules so that repeated includes within one run
// are O(1) (spec §5 "Shared resources"); the cache is owned by the Parser
// and discarded with it.
type Parser struct {
	opts  Options
	cache map[string]*ir.Module // keyed by "Name-Version"
	depth int
}

// New returns a Parser configured by opts.
func New(opts Options) *Parser {
	return &Parser{opts: opts, cache: map[string]*ir.Module{}}
}

// ParseFile parses the GIR document at path into a Module.
func (p *Parser) ParseFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ir.NewError(ir.ErrKindInputSyntax, fmt.Sprintf("reading %s", path), err)
	}
	return p.parseDocument(path, data)
}

// ParseBytes parses an in-memory GIR document. name is used only for
// diagnostics and to derive the expected namespace name when it looks like
// a "<Name>-<Version>.gir" path.
func (p *Parser) ParseBytes(name string, data []byte) (*ir.Module, error) {
	return p.parseDocument(name, data)
}

func (p *Parser) parseDocument(path string, data []byte) (*ir.Module, error) {
	expectedName, _ := logicalNameVersion(path)

	aliases, disguised, err := firstPass(data)
	if err != nil {
		return nil, err
	}

	m, err := p.secondPass(data, expectedName, aliases, disguised)
	if err != nil {
		return nil, err
	}
	p.cache[m.Name+"-"+m.Version] = m
	return m, nil
}

// logicalNameVersion derives "Name", "Version" from a path whose base name
// is "Name-Version.gir" (spec §4.1 "namespace ... N must equal the
// document's logical name, derived from its filename minus version and
// suffix"). If path does not match that shape, name is empty and the
// namespace check is skipped (used for in-memory test documents).
func logicalNameVersion(path string) (name, version string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gir")
	i := strings.LastIndex(base, "-")
	if i < 0 {
		return "", ""
	}
	return base[:i], base[i+1:]
}

// resolveInclude locates "Name-Version.gir" on the search path: explicit
// IncludeDirs first, then SystemDataDirs (spec §4.1).
func (p *Parser) resolveInclude(name, version string) (string, error) {
	fname := name + "-" + version + ".gir"
	for _, dir := range p.opts.IncludeDirs {
		cand := filepath.Join(dir, fname)
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	for _, dir := range p.opts.SystemDataDirs {
		cand := filepath.Join(dir, "gir-1.0", fname)
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", ir.NewError(ir.ErrKindInputSyntax, fmt.Sprintf("cannot locate include %s", fname), nil)
}

// loadInclude parses (or returns from cache) the module for name-version,
// enforcing the include-depth guard (spec §4.1, ambient MaxIncludeDepth).
func (p *Parser) loadInclude(name, version string) (*ir.Module, error) {
	key := name + "-" + version
	if m, ok := p.cache[key]; ok {
		return m, nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxIncludeDepth {
		return nil, ir.NewError(ir.ErrKindInputSyntax, "include depth exceeded", nil)
	}
	path, err := p.resolveInclude(name, version)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}
