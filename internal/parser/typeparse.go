package parser

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

// typeContext carries what parseType needs to resolve pointer depth and
// namespace qualification without threading a dozen parameters through
// every recursive call (spec §4.1 "Pointer depth is derived from the
// c:type attribute's trailing `*` count, with one `*` stripped for
// out-parameters; 'disguised' interface references add one implicit
// pointer").
type typeContext struct {
	mod      *ir.Module
	outParam bool
}

// parseType consumes a <type> or <array> element (whose StartElement has
// already been read as se) and everything up to its matching end tag,
// returning the ir.Type it describes (spec §4.1, §3.2).
func parseType(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Type, error) {
	switch se.Name.Local {
	case "array":
		return parseArrayType(dec, se, tc)
	case "type":
		return parseNamedType(dec, se, tc)
	default:
		if err := skipElement(dec, se); err != nil {
			return nil, err
		}
		return ir.NewSimpleType(tag.Void, true), nil
	}
}

func parseArrayType(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Type, error) {
	a := attrsOf(se)
	var elem *ir.Type
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if elem == nil {
				elem, err = parseType(dec, t, tc)
				if err != nil {
					return nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if elem == nil {
				elem = ir.NewSimpleType(tag.Void, true)
			}
			arr := ir.NewArrayType(elem)
			if v := a.get("fixed-size"); v != "" {
				n, _ := strconv.Atoi(v)
				arr.HasFixedSize, arr.FixedSize, arr.ZeroTerminated = true, n, false
				arr.LengthParamIndex = -1
			} else if v := a.get("length"); v != "" {
				n, _ := strconv.Atoi(v)
				arr.HasLength, arr.LengthParamIndex, arr.ZeroTerminated = true, n, false
			} else if v := a.get("zero-terminated"); v != "" {
				arr.ZeroTerminated = v == "1" || v == "true"
			}
			return arr, nil
		}
	}
}

func parseNamedType(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Type, error) {
	a := attrsOf(se)
	name := a.get("name")
	ctype := a.get("c:type")

	switch name {
	case "GLib.List", "GLib.SList":
		elem, err := readSingleNestedType(dec, tc)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			elem = ir.NewSimpleType(tag.Void, true)
		}
		return ir.NewListType(name == "GLib.SList", elem), nil
	case "GLib.HashTable":
		key, value, err := readUpToTwoNestedTypes(dec, tc)
		if err != nil {
			return nil, err
		}
		return ir.NewHashTableType(key, value), nil
	case "GLib.Error":
		if err := skipNestedTypes(dec); err != nil {
			return nil, err
		}
		domains := a.get("domains")
		var list []string
		if domains != "" {
			list = strings.Split(domains, ",")
		}
		return ir.NewErrorType(list), nil
	}

	// Consume any (unexpected) nested elements so the cursor lands past the
	// matching end tag regardless of shape.
	if err := skipNestedTypes(dec); err != nil {
		return nil, err
	}

	if name == "Type" && tc.mod != nil && tc.mod.Name == "GObject" {
		name = "GLib.Type" // spec §4.1 name-resolution rule (c)
	}

	pointer := trailingStars(ctype) > 0
	if tc.outParam && pointer {
		pointer = trailingStars(ctype) > 1
	}

	if basicTag, ok := tag.Lookup(name); ok {
		return ir.NewSimpleType(basicTag, pointer), nil
	}

	t := ir.NewInterfaceRefType(name, pointer)
	if tc.mod != nil && ir.IsDisguised(tc.mod, name) {
		t.Pointer = true
	}
	return t, nil
}

func readSingleNestedType(dec *xml.Decoder, tc typeContext) (*ir.Type, error) {
	var elem *ir.Type
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if elem == nil {
				elem, err = parseType(dec, t, tc)
				if err != nil {
					return nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return elem, nil
		}
	}
}

func readUpToTwoNestedTypes(dec *xml.Decoder, tc typeContext) (key, value *ir.Type, err error) {
	var types []*ir.Type
	for {
		tok, terr := nextToken(dec)
		if terr != nil {
			return nil, nil, terr
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ty, e := parseType(dec, t, tc)
			if e != nil {
				return nil, nil, e
			}
			types = append(types, ty)
		case xml.EndElement:
			if len(types) >= 2 {
				return types[0], types[1], nil
			}
			if len(types) == 1 {
				return types[0], nil, nil
			}
			return nil, nil, nil
		}
	}
}

func skipNestedTypes(dec *xml.Decoder) error {
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := skipElement(dec, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// trailingStars counts the trailing '*' characters in a c:type string.
func trailingStars(ctype string) int {
	n := 0
	for i := len(ctype) - 1; i >= 0 && ctype[i] == '*'; i-- {
		n++
	}
	return n
}
