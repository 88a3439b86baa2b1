package validate

import (
	"fmt"
	"strings"

	"github.com/gircomp/gircomp/pkg/ir"
)

// pathStack accumulates the "In struct 'Frobber'/method 'Fizz'/argument 'x'"
// context a failing check is qualified with (spec §4.4's closing paragraph).
type pathStack struct {
	segments []string
}

func (p *pathStack) push(format string, args ...interface{}) func() {
	p.segments = append(p.segments, fmt.Sprintf(format, args...))
	n := len(p.segments)
	return func() { p.segments = p.segments[:n-1] }
}

func (p *pathStack) String() string { return strings.Join(p.segments, "/") }

func (p *pathStack) errorf(kind ir.ErrKind, format string, args ...interface{}) error {
	return ir.NewContextError(kind, p.String(), fmt.Sprintf(format, args...), nil)
}
