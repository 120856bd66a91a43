package fantasy

import (
	"sort"
	"strings"
)

// PathPlaceholder is returned by PathBuilder.String when the builder holds
// no renderable path. It is for diagnostics only and must never be sent
// upstream.
const PathPlaceholder = "<unrenderable path>"

// SegmentKind distinguishes keyed resources from collections.
type SegmentKind int

const (
	// ResourceSegment is a single resource, optionally keyed ("league/423.l.1").
	ResourceSegment SegmentKind = iota
	// CollectionSegment is an unkeyed collection ("teams").
	CollectionSegment
)

type pathParam struct {
	name   string
	values []string
}

// PathSegment is one node in a resource path. Parameters render in insertion
// order as a ";name=v1,v2" suffix.
type PathSegment struct {
	kind   SegmentKind
	name   string
	key    string
	params []pathParam
}

func (s *PathSegment) render(sb *strings.Builder) {
	sb.WriteString(s.name)

	if s.kind == ResourceSegment && s.key != "" {
		sb.WriteByte('/')
		sb.WriteString(s.key)
	}

	for _, p := range s.params {
		sb.WriteByte(';')
		sb.WriteString(p.name)
		sb.WriteByte('=')
		sb.WriteString(strings.Join(p.values, ","))
	}
}

// PathBuilder assembles hierarchical resource paths in the upstream's
// semicolon-parameter dialect. Methods chain; errors from misuse are
// deferred and surfaced by Render.
//
//	NewPathBuilder().
//		AddResource("league", "423.l.12345").
//		Out("settings", "standings").
//		Render()
//	// "/league/423.l.12345;out=settings,standings"
//
// A PathBuilder is not safe for concurrent use.
type PathBuilder struct {
	segments []*PathSegment
	err      error
}

// NewPathBuilder creates an empty path builder.
func NewPathBuilder() *PathBuilder {
	return &PathBuilder{}
}

// AddResource appends a resource segment. At most one key may be given; a
// keyed resource renders as "name/key".
func (b *PathBuilder) AddResource(name string, key ...string) *PathBuilder {
	segment := &PathSegment{kind: ResourceSegment, name: name}
	if len(key) > 0 {
		segment.key = key[0]
	}

	b.segments = append(b.segments, segment)

	return b
}

// AddCollection appends an unkeyed collection segment.
func (b *PathBuilder) AddCollection(name string) *PathBuilder {
	b.segments = append(b.segments, &PathSegment{kind: CollectionSegment, name: name})

	return b
}

// SetParameter attaches a parameter to the most recently appended segment.
// Parameters render in the order they were set. Calling it before any
// segment exists is a ValidationError, reported by Render.
func (b *PathBuilder) SetParameter(name string, values ...string) *PathBuilder {
	if len(b.segments) == 0 {
		if b.err == nil {
			b.err = &ValidationError{Detail: "no active segment to attach parameter " + name}
		}

		return b
	}

	segment := b.segments[len(b.segments)-1]
	segment.params = append(segment.params, pathParam{name: name, values: values})

	return b
}

// SetParameters attaches each entry of params via SetParameter. Names are
// applied in sorted order because map iteration order is not stable.
func (b *PathBuilder) SetParameters(params map[string][]string) *PathBuilder {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		b.SetParameter(name, params[name]...)
	}

	return b
}

// Out is shorthand for SetParameter("out", names...), the upstream's
// sub-resource expansion parameter.
func (b *PathBuilder) Out(names ...string) *PathBuilder {
	return b.SetParameter("out", names...)
}

// Render produces the final path string, or a ValidationError when the
// builder is empty or was misused.
func (b *PathBuilder) Render() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	if len(b.segments) == 0 {
		return "", &ValidationError{Detail: "cannot render a path with no segments"}
	}

	var sb strings.Builder
	for _, segment := range b.segments {
		sb.WriteByte('/')
		segment.render(&sb)
	}

	return sb.String(), nil
}

// Reset clears all segments and any deferred error so the builder can be
// reused.
func (b *PathBuilder) Reset() *PathBuilder {
	b.segments = nil
	b.err = nil

	return b
}

// String returns the rendered path, or PathPlaceholder when rendering would
// fail. Intended for diagnostics and logging only.
func (b *PathBuilder) String() string {
	path, err := b.Render()
	if err != nil {
		return PathPlaceholder
	}

	return path
}
