package assets

import (
	"errors"
	"fmt"
	"slices"
)

// Stack tries its sources in order. A source without the style defers to
// the next one; any other error ends the lookup.
type Stack []Source

// Open returns the sources preview styles resolve against: the styles of
// dir, when set, ahead of the built-in ones.
func Open(dir string) (Stack, error) {
	if dir == "" {
		return Stack{Builtin{}}, nil
	}
	d, err := OpenDir(dir)
	if err != nil {
		return nil, err
	}
	return Stack{d, Builtin{}}, nil
}

// Style returns the stylesheet of the first source that has name.
func (s Stack) Style(name string) (string, error) {
	err := fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	for _, src := range s {
		css, serr := src.Style(name)
		if serr == nil {
			return css, nil
		}
		if !errors.Is(serr, ErrStyleNotFound) {
			return "", serr
		}
		err = serr
	}
	return "", err
}

// Names lists the styles of every source that can list them, sorted and
// without duplicates.
func (s Stack) Names() []string {
	var names []string
	for _, src := range s {
		if l, ok := src.(interface{ Names() []string }); ok {
			names = append(names, l.Names()...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Compile-time interface checks.
var (
	_ Source = Builtin{}
	_ Source = (*Dir)(nil)
	_ Source = Stack(nil)
)
