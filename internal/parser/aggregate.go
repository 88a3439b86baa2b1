package parser

import (
	"encoding/xml"

	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

// parseStruct consumes a <record> or <glib:boxed> element (spec §4.1
// "Aggregate start tags ... push a new node and switch state"), grounded on
// original_source/girparser.c:start_struct.
func parseStruct(dec *xml.Decoder, se xml.StartElement, tc typeContext, boxed bool) (*ir.Struct, error) {
	a := attrsOf(se)
	s := &ir.Struct{
		NodeBase:       ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		GTypeName:      a.get("glib:type-name"),
		GTypeInit:      a.get("glib:get-type"),
		Disguised:      a.bool("disguised"),
		IsBoxed:        boxed,
		ClassStructFor: a.get("glib:is-gtype-struct-for"),
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := dispatchAggregateMember(dec, t, tc, &aggregateSink{fields: &s.Fields, methods: &s.Methods, attrs: &s.Attrs}); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return s, nil
		}
	}
}

// parseUnion consumes a <union> element (spec §4.1), grounded on
// girparser.c:start_union/start_discriminator.
func parseUnion(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Union, error) {
	a := attrsOf(se)
	u := &ir.Union{
		NodeBase:  ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		GTypeName: a.get("glib:type-name"),
		GTypeInit: a.get("glib:get-type"),
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "discriminator" {
				da := attrsOf(t)
				u.Discriminated = true
				u.DiscriminatorType = discriminatorType(da.get("type"))
				u.DiscriminatorOffset, _ = atoiOK(da.get("offset"))
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
				continue
			}
			if t.Name.Local == "field" {
				f, v, err := parseField(dec, t, tc)
				if err != nil {
					return nil, err
				}
				u.Fields = append(u.Fields, f)
				if v != nil {
					u.DiscriminatorValues = append(u.DiscriminatorValues, v)
				}
				continue
			}
			if err := dispatchAggregateMember(dec, t, tc, &aggregateSink{fields: &u.Fields, methods: &u.Methods, attrs: &u.Attrs}); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return u, nil
		}
	}
}

// discriminatorType resolves a <discriminator type="..."> attribute to a
// basic type, defaulting to int32 when the name is not a recognized
// primitive (spec §4.1's own §3.5 says only "a type", and real documents
// always name a primitive here).
func discriminatorType(name string) *ir.Type {
	if t, ok := tag.Lookup(name); ok {
		return ir.NewSimpleType(t, false)
	}
	return ir.NewSimpleType(tag.Int32, false)
}

// parseEnum consumes an <enumeration> or <bitfield> element (spec §4.1),
// grounded on girparser.c:start_enum.
func parseEnum(dec *xml.Decoder, se xml.StartElement, tc typeContext, flags bool) (*ir.Enum, error) {
	a := attrsOf(se)
	e := &ir.Enum{
		NodeBase:  ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		GTypeName: a.get("glib:type-name"),
		GTypeInit: a.get("glib:get-type"),
		IsFlags:   flags,
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "member" {
				v, err := parseValue(dec, t)
				if err != nil {
					return nil, err
				}
				e.Values = append(e.Values, v)
			} else if err := skipElement(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return e, nil
		}
	}
}

// parseValue consumes an enum/flags <member> element (spec §3.6 Value,
// §4.1 "accepting decimal, 0x…, and a << b shift expressions").
func parseValue(dec *xml.Decoder, se xml.StartElement) (*ir.Value, error) {
	a := attrsOf(se)
	v := &ir.Value{Name: a.get("name"), Deprecated: a.bool("deprecated")}
	n, err := parseIntLiteral(a.get("value"))
	if err != nil {
		return nil, err
	}
	v.Value = n
	if err := skipElement(dec, se); err != nil {
		return nil, err
	}
	return v, nil
}

// parseObject consumes a <class> element (spec §4.1), grounded on
// girparser.c's class handling (glib:type-name/glib:get-type/parent/
// glib:type-struct/abstract attributes).
func parseObject(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Object, error) {
	a := attrsOf(se)
	o := &ir.Object{
		NodeBase:        ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		GTypeName:       a.get("glib:type-name"),
		GTypeInit:       a.get("glib:get-type"),
		ParentName:      a.get("parent"),
		ClassStructName: a.get("glib:type-struct"),
		Abstract:        a.bool("abstract"),
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "implements":
				o.Interfaces = append(o.Interfaces, attrsOf(t).get("name"))
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			default:
				if err := dispatchInterfaceMember(dec, t, tc, &interfaceSink{
					fields: &o.Fields, properties: &o.Properties, methods: &o.Methods,
					signals: &o.Signals, vfuncs: &o.VFuncs, constants: &o.Constants,
					attrs: &o.Attrs,
				}); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return o, nil
		}
	}
}

// parseInterface consumes an <interface> element (spec §4.1).
func parseInterface(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Interface, error) {
	a := attrsOf(se)
	i := &ir.Interface{
		NodeBase:        ir.NodeBase{Name: a.get("name"), Deprecated: a.bool("deprecated")},
		GTypeName:       a.get("glib:type-name"),
		GTypeInit:       a.get("glib:get-type"),
		ClassStructName: a.get("glib:type-struct"),
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "prerequisite":
				i.Prerequisites = append(i.Prerequisites, attrsOf(t).get("name"))
				if err := skipElement(dec, t); err != nil {
					return nil, err
				}
			default:
				if err := dispatchInterfaceMember(dec, t, tc, &interfaceSink{
					fields: nil, properties: &i.Properties, methods: &i.Methods,
					signals: &i.Signals, vfuncs: &i.VFuncs, constants: &i.Constants,
					attrs: &i.Attrs,
				}); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return i, nil
		}
	}
}

// aggregateSink collects the member kinds a struct/union/boxed may hold.
type aggregateSink struct {
	fields  *[]*ir.Field
	methods *[]*ir.Function
	attrs   *map[string]string // the owning entry's own annotation attrs
}

// dispatchAggregateMember handles the member elements legal inside a
// record/union/boxed body (spec §3.5 Struct/Union: fields and methods).
func dispatchAggregateMember(dec *xml.Decoder, t xml.StartElement, tc typeContext, sink *aggregateSink) error {
	switch t.Name.Local {
	case "field":
		f, _, err := parseField(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.fields = append(*sink.fields, f)
	case "method", "constructor":
		fn, err := parseFunction(dec, t, tc, true, t.Name.Local == "constructor")
		if err != nil {
			return err
		}
		*sink.methods = append(*sink.methods, fn)
	case "union":
		// Anonymous nested union inside a struct: parse and discard its
		// shape is out of this specification's scope; consume it whole.
		return skipElement(dec, t)
	case "attribute":
		if sink.attrs != nil {
			mergeAttribute(sink.attrs, t)
		}
		return skipElement(dec, t)
	default:
		return skipElement(dec, t)
	}
	return nil
}

// interfaceSink collects the member kinds an object/interface may hold
// (spec §3.5 Object/Interface).
type interfaceSink struct {
	fields     *[]*ir.Field
	properties *[]*ir.Property
	methods    *[]*ir.Function
	signals    *[]*ir.Signal
	vfuncs     *[]*ir.VFunc
	constants  *[]*ir.Constant
	attrs      *map[string]string // the owning entry's own annotation attrs
}

func dispatchInterfaceMember(dec *xml.Decoder, t xml.StartElement, tc typeContext, sink *interfaceSink) error {
	switch t.Name.Local {
	case "field":
		if sink.fields == nil {
			return skipElement(dec, t)
		}
		f, _, err := parseField(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.fields = append(*sink.fields, f)
	case "property":
		p, err := parseProperty(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.properties = append(*sink.properties, p)
	case "method", "constructor":
		fn, err := parseFunction(dec, t, tc, true, t.Name.Local == "constructor")
		if err != nil {
			return err
		}
		*sink.methods = append(*sink.methods, fn)
	case "signal": // <glib:signal>; Name.Local drops the prefix
		sg, err := parseSignal(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.signals = append(*sink.signals, sg)
	case "virtual-method":
		vf, err := parseVFunc(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.vfuncs = append(*sink.vfuncs, vf)
	case "constant":
		c, err := parseConstant(dec, t, tc)
		if err != nil {
			return err
		}
		*sink.constants = append(*sink.constants, c)
	case "attribute":
		if sink.attrs != nil {
			mergeAttribute(sink.attrs, t)
		}
		return skipElement(dec, t)
	default:
		return skipElement(dec, t)
	}
	return nil
}

// parseField consumes a <field> element (spec §3.6 Field, §4.1). When the
// field's single child is a <callback>, it is modeled as an inline
// callback-typed member (spec §4.1 "<callback> ... inside an aggregate it is
// a member typed field"); otherwise the child is the field's <type>. The
// second return value is non-nil when the field carries a "branch"
// attribute — a union discriminator constant sharing the field's name
// (grounded on girparser.c:start_field's union branch handling).
func parseField(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Field, *ir.Value, error) {
	a := attrsOf(se)
	f := ir.NewField(a.get("name"))
	f.Readable = a.boolDefault("readable", true)
	f.Writable = a.bool("writable")
	if bits, ok := atoiOK(a.get("bits")); ok {
		f.BitWidth = bits
	}
	var branchValue *ir.Value
	if branch := a.get("branch"); branch != "" {
		n, err := parseIntLiteral(branch)
		if err != nil {
			return nil, nil, err
		}
		branchValue = &ir.Value{Name: f.Name, Value: n}
	}
	for {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "callback" {
				cb, err := parseCallback(dec, t, tc)
				if err != nil {
					return nil, nil, err
				}
				f.CallbackSignature = cb.Signature
				f.Type = ir.NewSimpleType(tag.Void, true)
				continue
			}
			if f.Type == nil {
				f.Type, err = parseType(dec, t, tc)
				if err != nil {
					return nil, nil, err
				}
			} else if err := skipElement(dec, t); err != nil {
				return nil, nil, err
			}
		case xml.EndElement:
			if f.Type == nil {
				f.Type = ir.NewSimpleType(tag.Void, true)
			}
			return f, branchValue, nil
		}
	}
}

// parseProperty consumes a <property> element (spec §3.6 Property, §4.1),
// grounded on girparser.c:start_property (readable defaults true, the rest
// default false).
func parseProperty(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Property, error) {
	a := attrsOf(se)
	p := &ir.Property{
		Name:          a.get("name"),
		Readable:      a.boolDefault("readable", true),
		Writable:      a.bool("writable"),
		Construct:     a.bool("construct"),
		ConstructOnly: a.bool("construct-only"),
		Deprecated:    a.bool("deprecated"),
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

// parseSignal consumes a <glib:signal> element (spec §3.6 Signal, §4.1),
// grounded on girparser.c:start_glib_signal. "when" defaults to "LAST" when
// absent or unrecognized, matching run_last's fallback branch.
func parseSignal(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.Signal, error) {
	a := attrsOf(se)
	sg := &ir.Signal{
		Name:              a.get("name"),
		Detailed:          a.bool("detailed"),
		NoRecurse:         a.bool("no-recurse"),
		Action:            a.bool("action"),
		NoHooks:           a.bool("no-hooks"),
		ClassClosureIndex: -1,
	}
	switch a.get("when") {
	case "FIRST":
		sg.RunPhase = ir.RunFirst
	case "CLEANUP":
		sg.RunPhase = ir.RunCleanup
	default:
		sg.RunPhase = ir.RunLast
	}
	if a.bool("has-class-closure") {
		sg.ClassClosureIndex = 0
	}
	sig, err := readSignatureBody(dec, tc, nil)
	if err != nil {
		return nil, err
	}
	sg.Signature = sig
	return sg, nil
}

// parseVFunc consumes a <virtual-method> element (spec §3.6 Vfunc, §4.1),
// grounded on girparser.c:start_vfunc. "override" maps to must-be-implemented
// (always)/must-not-be-implemented (never).
func parseVFunc(dec *xml.Decoder, se xml.StartElement, tc typeContext) (*ir.VFunc, error) {
	a := attrsOf(se)
	vf := &ir.VFunc{
		Name:           a.get("name"),
		MustChainUp:    a.bool("must-chain-up"),
		IsClassClosure: a.bool("is-class-closure"),
		InvokerName:    a.get("invoker"),
	}
	switch a.get("override") {
	case "always":
		vf.MustBeImplemented = true
	case "never":
		vf.MustNotBeImplemented = true
	}
	if off, ok := atoiOK(a.get("offset")); ok {
		vf.ClassOffset = off
	}
	sig, err := readSignatureBody(dec, tc, nil)
	if err != nil {
		return nil, err
	}
	vf.Signature = sig
	return vf, nil
}

// parseIntLiteral implements spec §4.1's integer-literal grammar for
// <member value="...">: decimal, "0x...", "TRUE"/"FALSE", and "a << b" shift
// expressions.
func parseIntLiteral(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if s == "TRUE" {
		return 1, nil
	}
	if s == "FALSE" {
		return 0, nil
	}
	if i := indexOf(s, "<<"); i >= 0 {
		lhs, err := parseIntLiteral(trimSpace(s[:i]))
		if err != nil {
			return 0, err
		}
		rhs, err := parseIntLiteral(trimSpace(s[i+2:]))
		if err != nil {
			return 0, err
		}
		return lhs << uint(rhs), nil
	}
	if len(s) > 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		var n int64
		for _, c := range s[2:] {
			n *= 16
			switch {
			case c >= '0' && c <= '9':
				n += int64(c - '0')
			case c >= 'a' && c <= 'f':
				n += int64(c-'a') + 10
			case c >= 'A' && c <= 'F':
				n += int64(c-'A') + 10
			default:
				return 0, ir.NewError(ir.ErrKindInputSyntax, "invalid hex member value "+s, nil)
			}
		}
		return n, nil
	}
	n, ok := atoiOK(s)
	if !ok {
		return 0, ir.NewError(ir.ErrKindInputSyntax, "invalid member value "+s, nil)
	}
	return int64(n), nil
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
