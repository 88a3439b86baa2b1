package parser

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/gircomp/gircomp/pkg/ir"
)

// firstPass implements spec §4.1's "First pass": traverse only <alias> and
// <record> start tags, recording every alias (namespace-qualified name ->
// namespace-qualified target) and every disguised record
// (namespace-qualified name) before the full traversal needs them.
func firstPass(data []byte) (aliases map[string]string, disguised map[string]bool, err error) {
	aliases = map[string]string{}
	disguised = map[string]bool{}

	dec := xml.NewDecoder(bytes.NewReader(data))
	ns := ""
	for {
		tok, terr := dec.Token()
		if terr == io.EOF {
			break
		}
		if terr != nil {
			return nil, nil, ir.NewError(ir.ErrKindInputSyntax, "XML error in first pass", terr)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "namespace":
			ns = attr(se, "name")
		case "alias":
			name := attr(se, "name")
			target := attr(se, "target")
			if target == "" {
				// Fall back to a nested <type name="..."/> child, the shape
				// real GIR documents actually use.
				target, err = firstChildTypeName(dec)
				if err != nil {
					return nil, nil, err
				}
			}
			if name == "" || target == "" {
				continue
			}
			target = requalify(ns, target)
			aliases[qualifyFP(ns, name)] = target
		case "record":
			if attr(se, "disguised") == "1" {
				name := attr(se, "name")
				if name != "" {
					disguised[qualifyFP(ns, name)] = true
				}
			}
		}
	}
	return aliases, disguised, nil
}

// firstChildTypeName scans forward from just after an opening tag for the
// first <type name="..."/> child, stopping at the enclosing end tag.
func firstChildTypeName(dec *xml.Decoder) (string, error) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", ir.NewError(ir.ErrKindInputSyntax, "XML error scanning alias target", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "type" {
				return attr(t, "name"), nil
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				return "", nil
			}
			depth--
		}
	}
}

// attr returns the value of se's attribute named local. A prefixed name such
// as "c:identifier" matches the attribute written with that prefix, whether
// the document leaves the prefix undeclared or binds it to the GIR c/glib
// namespace URI.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		name := a.Name.Local
		switch a.Name.Space {
		case "":
		case "http://www.gtk.org/introspection/c/1.0":
			name = "c:" + name
		case "http://www.gtk.org/introspection/glib/1.0":
			name = "glib:" + name
		default:
			name = a.Name.Space + ":" + name
		}
		if name == local {
			return a.Value
		}
	}
	return ""
}

func qualifyFP(ns, bare string) string {
	if ns == "" {
		return bare
	}
	return ns + "." + bare
}

// requalify implements spec §4.1's "possibly requalified to the current
// namespace if the target is an unqualified non-basic identifier".
func requalify(ns, target string) string {
	if target == "" {
		return target
	}
	for i := 0; i < len(target); i++ {
		if target[i] == '.' {
			return target // already qualified
		}
	}
	if isBasicTagName(target) {
		return target
	}
	return qualifyFP(ns, target)
}

func isBasicTagName(name string) bool {
	switch name {
	case "none", "gboolean", "gint8", "guint8", "gint16", "guint16", "gint32", "guint32",
		"gint64", "guint64", "gint", "guint", "glong", "gulong", "gssize", "gsize",
		"gfloat", "gdouble", "gunichar", "utf8", "filename", "gpointer":
		return true
	default:
		return false
	}
}
