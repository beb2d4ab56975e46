// Package protocol parses the pipe-delimited replies agents request from the
// model. The grammar is
//
//	reply  = field *( "|" field )
//	field  = <any text without "|">
//
// Fields are whitespace-trimmed. Typed accessors convert single fields into
// integers, percentages, comma-separated lists and yes/no flags. Every
// failure is reported as an error wrapping one of ErrSentinel, ErrArity or
// ErrNumeric so callers can fall back to defaults with a single check.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/supportmesh/completion"
)

const (
	// FieldSeparator separates top-level fields.
	FieldSeparator = "|"
	// ListSeparator separates items of list-valued fields.
	ListSeparator = ","
)

var (
	// ErrSentinel reports a completion client error reply.
	ErrSentinel = errors.New("completion error reply")
	// ErrArity reports a field count different from the expected one.
	ErrArity = errors.New("unexpected field count")
	// ErrNumeric reports a field that is not an integer.
	ErrNumeric = errors.New("non-numeric field")
)

// Fields is a parsed reply.
type Fields []string

// Parse splits reply into exactly arity fields.
func Parse(reply string, arity int) (Fields, error) {
	reply = strings.TrimSpace(reply)
	if completion.IsError(reply) {
		return nil, fmt.Errorf("%w: %s", ErrSentinel, reply)
	}
	parts := strings.Split(reply, FieldSeparator)
	if len(parts) != arity {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArity, len(parts), arity)
	}
	fields := make(Fields, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields, nil
}

// Text returns field i.
func (f Fields) Text(i int) string { return f[i] }

// Int parses field i as a base-10 integer.
func (f Fields) Int(i int) (int, error) {
	n, err := strconv.Atoi(f[i])
	if err != nil {
		return 0, fmt.Errorf("%w: field %d %q", ErrNumeric, i, f[i])
	}
	return n, nil
}

// Percent parses field i as an integer after removing a trailing "%".
func (f Fields) Percent(i int) (int, error) {
	v := strings.TrimSpace(strings.TrimSuffix(f[i], "%"))
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: field %d %q", ErrNumeric, i, f[i])
	}
	return n, nil
}

// List splits field i on commas, trimming items and dropping empty ones.
// The result is never nil.
func (f Fields) List(i int) []string {
	return SplitList(f[i])
}

// Bool reports whether field i is "yes" (case-insensitive).
func (f Fields) Bool(i int) bool {
	return strings.EqualFold(f[i], "yes")
}

// SplitList splits s on commas, trimming items and dropping empty ones.
func SplitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
