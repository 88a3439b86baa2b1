package layout

import (
	"fmt"

	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

// Engine computes size/alignment/offsets for a module's aggregates and
// those of its include modules, memoizing by the aggregate's own
// Alignment field (spec §4.2 "Memoization"). A zero Engine is not usable;
// use New.
type Engine struct {
	visiting map[any]bool
}

// New returns an Engine ready to lay out m and anything it transitively
// references through m.Includes.
func New() *Engine {
	return &Engine{visiting: map[any]bool{}}
}

// ComputeModule lays out every local aggregate (struct, boxed, union, enum,
// flags) in m. Include modules are laid out lazily, on first reference, by
// the same Engine instance so their memoization is shared (spec §4.2).
func (e *Engine) ComputeModule(m *ir.Module) error {
	for _, entry := range m.Entries {
		if err := e.computeEntry(entry, m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) computeEntry(entry ir.Entry, owner *ir.Module) error {
	switch v := entry.(type) {
	case *ir.Struct:
		return e.computeStruct(v, owner)
	case *ir.Union:
		return e.computeUnion(v, owner)
	case *ir.Enum:
		return e.computeEnum(v)
	default:
		return nil
	}
}

func (e *Engine) computeEnum(en *ir.Enum) error {
	if en.Alignment != 0 {
		return nil // already computed
	}
	if !en.StorageTagSet {
		var min, max int64
		for i, v := range en.Values {
			if i == 0 || v.Value < min {
				min = v.Value
			}
			if i == 0 || v.Value > max {
				max = v.Value
			}
		}
		en.StorageTag = int(InferEnumStorage(min, max))
		en.StorageTagSet = true
	}
	lo, ok := tag.BasicLayout(tag.Tag(en.StorageTag))
	if !ok {
		return ir.NewContextError(ir.ErrKindLayoutError, fmt.Sprintf("enum %q", en.Name),
			"unsupported enum storage width", nil)
	}
	en.Size, en.Alignment = lo.Size, lo.Alignment
	return nil
}

func (e *Engine) computeStruct(s *ir.Struct, owner *ir.Module) error {
	if s.Alignment != 0 {
		return nil
	}
	if e.visiting[s] {
		return ir.NewContextError(ir.ErrKindLayoutError, fmt.Sprintf("struct %q", s.Name),
			"cyclic non-pointer field layout", nil)
	}
	e.visiting[s] = true
	defer delete(e.visiting, s)

	running := 0
	maxAlign := 1
	for _, f := range s.Fields {
		if f.CallbackSignature != nil {
			// Inline callback-typed members use pointer width and
			// contribute no field offset (spec §4.2).
			ptr := tag.PointerLayout
			running = buf.Align(running, ptr.Alignment) + ptr.Size
			if ptr.Alignment > maxAlign {
				maxAlign = ptr.Alignment
			}
			continue
		}
		size, align, err := e.fieldSizeAlignment(f.Type, owner)
		if err != nil {
			return fieldErr(s.Name, f.Name, err)
		}
		running = buf.Align(running, align)
		f.Offset = running
		running += size
		if align > maxAlign {
			maxAlign = align
		}
	}
	s.Alignment = maxAlign
	s.Size = buf.Align(running, maxAlign)
	return nil
}

func (e *Engine) computeUnion(u *ir.Union, owner *ir.Module) error {
	if u.Alignment != 0 {
		return nil
	}
	if e.visiting[u] {
		return ir.NewContextError(ir.ErrKindLayoutError, fmt.Sprintf("union %q", u.Name),
			"cyclic non-pointer field layout", nil)
	}
	e.visiting[u] = true
	defer delete(e.visiting, u)

	maxSize, maxAlign := 0, 1
	for _, f := range u.Fields {
		f.Offset = 0
		if f.CallbackSignature != nil {
			ptr := tag.PointerLayout
			if ptr.Size > maxSize {
				maxSize = ptr.Size
			}
			if ptr.Alignment > maxAlign {
				maxAlign = ptr.Alignment
			}
			continue
		}
		size, align, err := e.fieldSizeAlignment(f.Type, owner)
		if err != nil {
			return fieldErr(u.Name, f.Name, err)
		}
		if size > maxSize {
			maxSize = size
		}
		if align > maxAlign {
			maxAlign = align
		}
	}
	u.Alignment = maxAlign
	u.Size = buf.Align(maxSize, maxAlign)
	return nil
}

func fieldErr(aggName, fieldName string, cause error) error {
	return ir.NewContextError(ir.ErrKindLayoutError,
		fmt.Sprintf("struct %q/field %q", aggName, fieldName), "invalid field type", cause)
}

// fieldSizeAlignment implements spec §4.2 "Field size": pointer types use
// pointer width; basic non-pointer types use the primitive table (void
// forbidden); non-pointer interface-refs delegate to interfaceRefSizeAlignment;
// anything else non-pointer is a LayoutError.
func (e *Engine) fieldSizeAlignment(t *ir.Type, owner *ir.Module) (size, align int, err error) {
	if t.Pointer {
		return tag.PointerLayout.Size, tag.PointerLayout.Alignment, nil
	}
	switch t.Variant {
	case ir.TypeSimple:
		if t.IsVoid() {
			return 0, 0, ir.NewError(ir.ErrKindLayoutError, "void-typed field is forbidden", nil)
		}
		lo, ok := tag.BasicLayout(t.Tag)
		if !ok {
			return 0, 0, ir.NewError(ir.ErrKindLayoutError, fmt.Sprintf("no native layout for tag %q", t.Tag), nil)
		}
		return lo.Size, lo.Alignment, nil
	case ir.TypeInterfaceRef:
		return e.interfaceRefSizeAlignment(t.InterfaceName, owner)
	default:
		return 0, 0, ir.NewError(ir.ErrKindLayoutError,
			fmt.Sprintf("non-pointer compound type %q has no defined inline layout", t.Canonical(nil)), nil)
	}
}

// interfaceRefSizeAlignment implements spec §4.2 "Interface-ref size".
func (e *Engine) interfaceRefSizeAlignment(name string, owner *ir.Module) (size, align int, err error) {
	entry, entryMod, ok := ir.ResolveEntry(owner, name)
	if !ok {
		return 0, 0, ir.NewError(ir.ErrKindSemanticResolution,
			fmt.Sprintf("cannot resolve interface-ref %q for layout", name), nil)
	}
	switch v := entry.(type) {
	case *ir.Struct:
		if err := e.computeStruct(v, entryMod); err != nil {
			return 0, 0, err
		}
		return v.Size, v.Alignment, nil
	case *ir.Union:
		if err := e.computeUnion(v, entryMod); err != nil {
			return 0, 0, err
		}
		return v.Size, v.Alignment, nil
	case *ir.Enum:
		if err := e.computeEnum(v); err != nil {
			return 0, 0, err
		}
		return v.Size, v.Alignment, nil
	case *ir.Callback:
		return tag.PointerLayout.Size, tag.PointerLayout.Alignment, nil
	default:
		return 0, 0, ir.NewError(ir.ErrKindLayoutError,
			fmt.Sprintf("interface-ref %q resolves to a kind with no inline layout", name), nil)
	}
}
