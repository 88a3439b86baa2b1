package compile

import (
	"fmt"
	"io"
)

// EmitC renders typelib as a C translation unit embedding it as a byte array
// (spec §4 supplemented feature 6), grounded on
// girepository/tools/compiler.c:format_output. Unless noInit is set, it also
// emits a constructor-attribute function that registers the typelib with
// g_irepository_load_typelib at process startup.
func EmitC(w io.Writer, typelib []byte, noInit bool) error {
	if _, err := io.WriteString(w, "#include <stdlib.h>\n#include <girepository.h>\n\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "const unsigned char _G_TYPELIB[] = \n{"); err != nil {
		return err
	}
	for i, b := range typelib {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if i%10 == 0 {
			if _, err := io.WriteString(w, "\n\t"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "0x%.2x", b); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n};\n\nconst size_t _G_TYPELIB_SIZE = %d;\n\n", len(typelib)); err != nil {
		return err
	}
	if noInit {
		return nil
	}
	_, err := io.WriteString(w, "__attribute__((constructor)) void register_typelib(void);\n\n"+
		"__attribute__((constructor)) void\nregister_typelib(void)\n{\n"+
		"\tGTypelib *typelib;\n"+
		"\ttypelib = g_typelib_new_from_const_memory(_G_TYPELIB, _G_TYPELIB_SIZE);\n"+
		"\tg_irepository_load_typelib(NULL, typelib, G_IREPOSITORY_LOAD_FLAG_LAZY, NULL);\n"+
		"}\n\n")
	return err
}
