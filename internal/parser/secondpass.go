package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/gircomp/gircomp/pkg/ir"
)

func (p *Parser) secondPass(data []byte, expectedName string, aliases map[string]string, disguised map[string]bool) (*ir.Module, error) {
	dec := xml.NewDecoder(bytesReader(data))
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "repository" {
			return nil, ir.NewError(ir.ErrKindInputSyntax, "expected <repository> as document root", nil)
		}
		if v := attrsOf(se).get("version"); v != "" && v != "1.0" {
			return nil, ir.NewError(ir.ErrKindInputSyntax, fmt.Sprintf("unsupported repository version %q", v), nil)
		}
		return p.parseRepositoryBody(dec, se, expectedName, aliases, disguised)
	}
}

func (p *Parser) parseRepositoryBody(dec *xml.Decoder, root xml.StartElement, expectedName string, aliases map[string]string, disguised map[string]bool) (*ir.Module, error) {
	var mod *ir.Module
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "include":
				if mod == nil {
					return nil, ir.NewError(ir.ErrKindInputSyntax, "<include> before <namespace>", nil)
				}
				a := attrsOf(t)
				name, version := a.get("name"), a.get("version")
				inc, err := p.loadInclude(name, version)
				if err != nil {
					return nil, err
				}
				mod.Includes = append(mod.Includes, inc)
				mod.Dependencies = append(mod.Dependencies, name+"-"+version)
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			case "namespace":
				if mod != nil {
					return nil, ir.NewError(ir.ErrKindInputSyntax, "document has more than one <namespace>", nil)
				}
				a := attrsOf(t)
				name, version := a.get("name"), a.get("version")
				if expectedName != "" && name != expectedName {
					return nil, ir.NewError(ir.ErrKindInputSyntax,
						fmt.Sprintf("namespace name %q does not match filename-derived name %q", name, expectedName), nil)
				}
				mod = ir.NewModule(name, version)
				mod.CPrefix = a.get("c:prefix")
				if lib := a.get("shared-library"); lib != "" {
					mod.SharedLibraries = splitComma(lib)
				}
				rewriteAliasesAndDisguised(mod, aliases, disguised, name)
				if err := p.parseNamespaceBody(dec, mod); err != nil {
					return nil, err
				}
			default:
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if mod == nil {
				return nil, ir.NewError(ir.ErrKindInputSyntax, "document has no <namespace>", nil)
			}
			if err := postFilterVarargs(mod); err != nil {
				return nil, err
			}
			return mod, nil
		}
	}
}

// rewriteAliasesAndDisguised moves the first-pass tables — which were
// keyed before the namespace name was known in the general (in-memory)
// case — onto the module (spec §4.1 "Move alias and disguised sets into
// the new module"). Entries already qualified with ns pass through as-is;
// bare keys are qualified now.
func rewriteAliasesAndDisguised(mod *ir.Module, aliases map[string]string, disguised map[string]bool, ns string) {
	for k, v := range aliases {
		mod.Aliases[qualifyFP(ns, stripNS(k, ns))] = v
	}
	for k := range disguised {
		mod.Disguised[qualifyFP(ns, stripNS(k, ns))] = true
	}
}

func stripNS(qualified, ns string) string {
	prefix := ns + "."
	if len(qualified) > len(prefix) && qualified[:len(prefix)] == prefix {
		return qualified[len(prefix):]
	}
	return qualified
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func (p *Parser) parseNamespaceBody(dec *xml.Decoder, mod *ir.Module) error {
	tc := typeContext{mod: mod}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var entry ir.Entry
			var perr error
			switch t.Name.Local {
			case "class":
				entry, perr = parseObject(dec, t, tc)
			case "interface":
				entry, perr = parseInterface(dec, t, tc)
			case "record":
				entry, perr = parseStruct(dec, t, tc, false)
			case "boxed": // <glib:boxed>; Name.Local drops the prefix
				entry, perr = parseStruct(dec, t, tc, true)
			case "union":
				entry, perr = parseUnion(dec, t, tc)
			case "enumeration":
				entry, perr = parseEnum(dec, t, tc, false)
			case "bitfield":
				entry, perr = parseEnum(dec, t, tc, true)
			case "errordomain":
				entry, perr = parseErrorDomain(dec, t)
			case "constant":
				entry, perr = parseConstant(dec, t, tc)
			case "function":
				entry, perr = parseFunction(dec, t, tc, false, false)
			case "callback":
				entry, perr = parseCallback(dec, t, tc)
			default:
				perr = skipElement(dec, t)
			}
			if perr != nil {
				return perr
			}
			if entry != nil {
				if err := checkName(entry.EntryName()); err != nil {
					return err
				}
				if err := mod.AddEntry(entry); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// checkName enforces spec §3.3 "names containing `.` are forbidden".
func checkName(name string) error {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return ir.NewError(ir.ErrKindInputSyntax, fmt.Sprintf("entry name %q contains '.'", name), nil)
		}
	}
	return nil
}

func parseFunction(dec *xml.Decoder, se xml.StartElement, tc typeContext, isMethod, isConstructor bool) (*ir.Function, error) {
	a := attrsOf(se)
	fn := &ir.Function{
		NodeBase: ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		Symbol:   a.get("c:identifier"),
		IsMethod: isMethod,
	}
	if isConstructor {
		fn.Role = ir.RoleConstructor
		fn.IsMethod = true
	}
	sig, err := readSignatureBody(dec, tc, &fn.Attrs)
	if err != nil {
		return nil, err
	}
	sig.Throws = a.bool("throws")
	fn.Signature = sig
	return fn, nil
}

func parseCallback(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Callback, error) {
	a := attrsOf(se)
	cb := &ir.Callback{NodeBase: ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")}}
	sig, err := readSignatureBody(dec, tc, &cb.Attrs)
	if err != nil {
		return nil, err
	}
	sig.Throws = a.bool("throws")
	cb.Signature = sig
	return cb, nil
}

func parseErrorDomain(dec *xml.Decoder, se xml.StartElement) (*ir.ErrorDomain, error) {
	a := attrsOf(se)
	ed := &ir.ErrorDomain{
		NodeBase:  ir.NodeBase{Name: a.get("name")},
		GetQuark:  a.get("get-quark"),
		CodesName: a.get("codes"),
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "attribute" {
				mergeAttribute(&ed.Attrs, t)
			}
			if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return ed, nil
		}
	}
}

func parseConstant(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Constant, error) {
	a := attrsOf(se)
	c := &ir.Constant{NodeBase: ir.NodeBase{Name: a.get("name")}, Literal: a.get("value")}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "attribute" {
				mergeAttribute(&c.Attrs, t)
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
				continue
			}
			if c.Type == nil {
				c.Type, err = parseType(dec, t, tc)
				if err != nil {
					return nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return c, nil
		}
	}
}

func bytesReader(data []byte) *bytes.Reader { return bytes.NewReader(data) }
