package parser

import (
	"encoding/xml"

	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

// readSignatureBody consumes the children of an already-open callable
// element (function/method/constructor/callback/glib:signal/virtual-method)
// up to its end tag, building the Signature spec §3.4/§4.1 describes:
// <parameters>/<parameter> (plus an optional <varargs/> among them) and
// <return-value>.
func readSignatureBody(dec *xml.Decoder, tc typeContext, attrsOut *map[string]string) (*ir.Signature, error) {
	sig := &ir.Signature{Return: &ir.Param{Retval: true, Type: ir.NewSimpleType(tag.Void, false)}}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "parameters":
				if err := readParameterList(dec, tc, sig); err != nil {
					return nil, err
				}
			case "return-value":
				rv, err := parseReturnValue(dec, t, tc)
				if err != nil {
					return nil, err
				}
				sig.Return = rv
			case "attribute":
				if attrsOut != nil {
					mergeAttribute(attrsOut, t)
				}
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			default:
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return sig, nil
		}
	}
}

func readParameterList(dec *xml.Decoder, tc typeContext, sig *ir.Signature) error {
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "varargs":
				sig.Varargs = true
				if err := skipElement(dec, t); err != nil {
					return err
				}
			case "parameter", "instance-parameter":
				p, err := parseParameter(dec, t, tc)
				if err != nil {
					return err
				}
				sig.Params = append(sig.Params, p)
			default:
				if err := skipElement(dec, t); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func parseParameter(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Param, error) {
	a := attrsOf(se)
	p := &ir.Param{
		Name:            a.get("name"),
		CallerAllocates: a.bool("dipper"),
		Optional:        a.bool("optional"),
		AllowNone:       a.bool("allow-none"),
		Retval:          a.bool("retval"),
		ClosureIndex:    -1,
		DestroyIndex:    -1,
	}
	switch a.get("direction") {
	case "out":
		p.Direction = ir.DirOut
		tc.outParam = true
	case "inout":
		p.Direction = ir.DirInOut
		tc.outParam = true
	default:
		p.Direction = ir.DirIn
	}
	p.Transfer = parseTransfer(a.get("transfer-ownership"))
	p.Scope = parseScope(a.get("scope"))
	if v, ok := atoiOK(a.get("closure")); ok {
		p.ClosureIndex = v
	}
	if v, ok := atoiOK(a.get("destroy")); ok {
		p.DestroyIndex = v
	}

	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if p.Type == nil {
				p.Type, err = parseType(dec, t, tc)
				if err != nil {
					return nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if p.Type == nil {
				p.Type = ir.NewSimpleType(tag.Void, true)
			}
			return p, nil
		}
	}
}

func parseReturnValue(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Param, error) {
	a := attrsOf(se)
	p := &ir.Param{Retval: true, Transfer: parseTransfer(a.get("transfer-ownership")), AllowNone: a.bool("allow-none")}
	tc.outParam = true
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if p.Type == nil {
				p.Type, err = parseType(dec, t, tc)
				if err != nil {
					return nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if p.Type == nil {
				p.Type = ir.NewSimpleType(tag.Void, false)
			}
			return p, nil
		}
	}
}

func parseTransfer(v string) ir.Transfer {
	switch v {
	case "container":
		return ir.TransferContainer
	case "full":
		return ir.TransferFull
	default:
		return ir.TransferNone
	}
}

func parseScope(v string) ir.Scope {
	switch v {
	case "call":
		return ir.ScopeCall
	case "async":
		return ir.ScopeAsync
	case "notified":
		return ir.ScopeNotified
	default:
		return ir.ScopeInvalid
	}
}

func atoiOK(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
