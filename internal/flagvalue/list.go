// Package flagvalue provides flag.Value implementations.
package flagvalue

import (
	"flag"
	"fmt"
	"strings"

	"braces.dev/errtrace"
)

// Getter is a constraint satisfied by pointers to types
// which implement flag.Getter.
type Getter[T any] interface {
	*T
	flag.Getter
}

// List is a flag.Getter that collects values
// from repeated instances of a flag.
//
// Each argument may hold several comma-separated values.
// This allows a list to be set from a single environment variable.
type List[T any, PT Getter[T]] []T

// ListOf wraps a slice so that it accepts values
// from repeated or comma-separated flag arguments.
//
//	flag.Var(flagvalue.ListOf(&classes), "word-class", ...)
func ListOf[T any, PT Getter[T]](vs *[]T) *List[T, PT] {
	return (*List[T, PT])(vs)
}

// Get returns the collected values as a []T.
func (lv *List[T, PT]) Get() any { return []T(*lv) }

// String returns the values in the same comma-separated form
// that Set accepts.
func (lv *List[T, PT]) String() string {
	if lv == nil {
		return ""
	}
	parts := make([]string, len(*lv))
	for i, v := range *lv {
		parts[i] = fmt.Sprint(PT(&v))
	}
	return strings.Join(parts, ",")
}

// Set adds the values in a single flag argument to the list.
// Empty items between commas are ignored.
func (lv *List[T, PT]) Set(s string) error {
	for item := range strings.SplitSeq(s, ",") {
		if len(strings.TrimSpace(item)) == 0 {
			continue
		}

		var v T
		if err := PT(&v).Set(item); err != nil {
			return errtrace.Wrap(fmt.Errorf("%q: %w", item, err))
		}
		*lv = append(*lv, v)
	}
	return nil
}
