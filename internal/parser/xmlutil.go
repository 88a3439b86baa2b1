package parser

import (
	"encoding/xml"

	"github.com/gircomp/gircomp/pkg/ir"
)

// attrs is a convenience view over a StartElement's attribute list.
type attrs struct{ se xml.StartElement }

func attrsOf(se xml.StartElement) attrs { return attrs{se} }

func (a attrs) get(local string) string { return attr(a.se, local) }

func (a attrs) bool(local string) bool {
	v := a.get(local)
	return v == "1" || v == "true"
}

func (a attrs) boolDefault(local string, def bool) bool {
	v := a.get(local)
	if v == "" {
		return def
	}
	return v == "1" || v == "true"
}

// skipElement consumes tokens up to and including the EndElement matching
// the StartElement already read (se), for elements this parser does not
// model (spec §4.1 only names the elements it cares about; anything else is
// "unknown" state, silently skipped rather than erroring, since spec §4.1's
// failure list does not include "unrecognized element").
func skipElement(dec *xml.Decoder, se xml.StartElement) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return ir.NewError(ir.ErrKindInputSyntax, "XML error skipping "+se.Name.Local, err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// mergeAttribute records a `<attribute name=K value=V/>` child into dst,
// lazily allocating the map (spec §2 item 2 "a per-node attribute map";
// spec §4 supplemented feature 5 "Annotations table").
func mergeAttribute(dst *map[string]string, t xml.StartElement) {
	a := attrsOf(t)
	k, v := a.get("name"), a.get("value")
	if k == "" {
		return
	}
	if *dst == nil {
		*dst = map[string]string{}
	}
	(*dst)[k] = v
}

// nextToken reads the next token, wrapping decode errors as InputSyntax.
func nextToken(dec *xml.Decoder) (xml.Token, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, ir.NewError(ir.ErrKindInputSyntax, "XML error", err)
	}
	return tok, nil
}

// expectEnd reads tokens until the EndElement named local at depth 0,
// erroring per spec §4.1 "End tags pop the corresponding state; the state
// machine validates that the closing tag matches the expected one" if a
// different end tag is found at depth 0 first — which cannot happen with a
// well-formed xml.Decoder stream, but mismatched virtual nesting from a
// caller bug would surface here instead of silently desyncing.
func expectEnd(dec *xml.Decoder, local string) error {
	depth := 0
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				if t.Name.Local != local {
					return ir.NewError(ir.ErrKindInputSyntax,
						"mismatched end tag: expected </"+local+">, got </"+t.Name.Local+">", nil)
				}
				return nil
			}
			depth--
		}
	}
}
