package enzyme

import "strings"

// TagAll disables tag filtering.
const TagAll = "all"

// StructureFilter selects records by presence of an experimental structure.
type StructureFilter string

const (
	StructureAll     StructureFilter = "all"
	WithStructure    StructureFilter = "with_structure"
	WithoutStructure StructureFilter = "without_structure"
)

// ParseStructureFilter maps s to a StructureFilter. Unknown values mean StructureAll.
func ParseStructureFilter(s string) StructureFilter {
	switch f := StructureFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case WithStructure, WithoutStructure:
		return f
	default:
		return StructureAll
	}
}

// Filter is the predicate pushed down to a candidate source.
type Filter struct {
	// Tag restricts results to records carrying this substrate tag.
	// Empty or TagAll means any.
	Tag       string
	Structure StructureFilter
}

// AnyTag reports whether the filter ignores tags.
func (f Filter) AnyTag() bool {
	t := strings.TrimSpace(f.Tag)
	return t == "" || strings.EqualFold(t, TagAll)
}

// Matches evaluates the filter against r in memory.
func (f Filter) Matches(r Record) bool {
	if r.Sequence == "" {
		return false
	}
	if !f.AnyTag() && !r.HasTag(strings.TrimSpace(f.Tag)) {
		return false
	}
	switch f.Structure {
	case WithStructure:
		return r.HasStructure
	case WithoutStructure:
		return !r.HasStructure
	}
	return true
}
