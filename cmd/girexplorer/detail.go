package main

import (
	"fmt"
	"strings"

	"github.com/gircomp/gircomp/internal/format"
)

// renderDetail decodes row's blob body (if local) and formats a human
// readable summary for the detail pane. Non-local (cross-reference) entries
// have no body of their own; body_offset instead holds the owning
// namespace's string offset (spec §6.1 item 2).
func renderDetail(data []byte, row dirRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name:  %s\n", row.name)
	fmt.Fprintf(&b, "kind:  %s\n", row.kind)
	fmt.Fprintf(&b, "index: %d\n\n", row.index)

	if !row.de.Local {
		ns, err := format.CString(data, row.de.BodyOffset)
		if err != nil {
			fmt.Fprintf(&b, "cross-reference (namespace offset unreadable: %v)\n", err)
			return b.String()
		}
		fmt.Fprintf(&b, "cross-reference into namespace %q\n", ns)
		return b.String()
	}

	body := data[row.de.BodyOffset:]
	switch row.de.BlobType {
	case format.BlobFunction:
		fb, err := format.DecodeFunctionBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		symbol, _ := format.CString(data, fb.Symbol)
		fmt.Fprintf(&b, "symbol:        %s\n", symbol)
		fmt.Fprintf(&b, "is_method:     %v\n", fb.Flags&format.FuncFlagIsMethod != 0)
		fmt.Fprintf(&b, "constructor:   %v\n", fb.Flags&format.FuncFlagConstructor != 0)
		fmt.Fprintf(&b, "throws:        %v\n", fb.Flags&format.FuncFlagThrows != 0)
		fmt.Fprintf(&b, "signature_off: %d\n", fb.SignatureOff)

	case format.BlobCallback:
		cb, err := format.DecodeCallbackBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "signature_off: %d\n", cb.SignatureOff)

	case format.BlobStruct, format.BlobBoxed:
		sb, err := format.DecodeStructBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "size:      %d bytes\n", sb.Size)
		fmt.Fprintf(&b, "alignment: %d\n", sb.Alignment)
		fmt.Fprintf(&b, "fields:    %d\n", sb.NFields)
		fmt.Fprintf(&b, "methods:   %d\n", sb.NMethods)
		fmt.Fprintf(&b, "disguised: %v\n", sb.Flags&format.StructFlagDisguised != 0)

	case format.BlobUnion:
		ub, err := format.DecodeUnionBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "size:          %d bytes\n", ub.Size)
		fmt.Fprintf(&b, "alignment:     %d\n", ub.Alignment)
		fmt.Fprintf(&b, "fields:        %d\n", ub.NFields)
		fmt.Fprintf(&b, "functions:     %d\n", ub.NFunctions)
		fmt.Fprintf(&b, "discriminated: %v\n", ub.Flags&format.UnionFlagDiscriminated != 0)

	case format.BlobEnum, format.BlobFlags:
		eb, err := format.DecodeEnumBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "storage_tag: %d\n", eb.StorageTag)
		fmt.Fprintf(&b, "values:      %d\n", eb.NValues)

	case format.BlobObject:
		ob, err := format.DecodeObjectBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "abstract:    %v\n", ob.Flags&format.ObjectFlagAbstract != 0)
		fmt.Fprintf(&b, "parent:      %s\n", dirRef(uint32(ob.Parent)))
		fmt.Fprintf(&b, "interfaces:  %d\n", ob.NInterfaces)
		fmt.Fprintf(&b, "fields:      %d\n", ob.NFields)
		fmt.Fprintf(&b, "properties:  %d\n", ob.NProperties)
		fmt.Fprintf(&b, "methods:     %d\n", ob.NMethods)
		fmt.Fprintf(&b, "signals:     %d\n", ob.NSignals)
		fmt.Fprintf(&b, "vfuncs:      %d\n", ob.NVFuncs)
		fmt.Fprintf(&b, "constants:   %d\n", ob.NConstants)

	case format.BlobInterface:
		ib, err := format.DecodeInterfaceBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "prerequisites: %d\n", ib.NPrerequisites)
		fmt.Fprintf(&b, "properties:    %d\n", ib.NProperties)
		fmt.Fprintf(&b, "methods:       %d\n", ib.NMethods)
		fmt.Fprintf(&b, "signals:       %d\n", ib.NSignals)
		fmt.Fprintf(&b, "vfuncs:        %d\n", ib.NVFuncs)
		fmt.Fprintf(&b, "constants:     %d\n", ib.NConstants)

	case format.BlobConstant:
		cb, err := format.DecodeConstantBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		fmt.Fprintf(&b, "size:      %d bytes\n", cb.Size)
		fmt.Fprintf(&b, "value_off: %d\n", cb.ValueOff)

	case format.BlobErrorDomain:
		eb, err := format.DecodeErrorDomainBlob(body)
		if err != nil {
			fmt.Fprintf(&b, "decode error: %v\n", err)
			break
		}
		quark, _ := format.CString(data, eb.GetQuark)
		fmt.Fprintf(&b, "get_quark:   %s\n", quark)
		fmt.Fprintf(&b, "error_codes: %s\n", dirRef(eb.ErrorCodes))

	default:
		fmt.Fprintf(&b, "(no detail renderer for blob type %d)\n", row.de.BlobType)
	}

	return b.String()
}

// dirRef formats a 1-based directory index the way a context path would, or
// "none" for the 0 sentinel.
func dirRef(idx uint32) string {
	if idx == 0 {
		return "none"
	}
	return fmt.Sprintf("#%d", idx)
}

// canonicalName is what Copy (c) yanks to the clipboard: the namespace-
// qualified entry name.
func canonicalName(namespace string, row dirRow) string {
	return namespace + "." + row.name
}
