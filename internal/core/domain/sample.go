package domain

import "strings"

// GroupKeySeparator joins merge-key column values into a GroupKey.
const GroupKeySeparator = "_"

// SampleRecord is one row of the sample table: column name -> value.
type SampleRecord map[string]string

// GroupKey identifies the set of sample records that are processed together.
// It is derived by joining the merge-key column values in declaration order.
type GroupKey string

// NewGroupKey derives the group key for a record. The merge-key column order
// is fixed and significant, so identical records always derive the same key.
func NewGroupKey(values []string) GroupKey {
	return GroupKey(strings.Join(values, GroupKeySeparator))
}

// RoleSpec maps an input role (e.g. first-mate reads) to its sample table column.
type RoleSpec struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// SampleSpec describes how the sample table is read and grouped.
type SampleSpec struct {
	Path      string     `yaml:"path"`
	Delimiter string     `yaml:"delimiter"`
	MergeBy   []string   `yaml:"mergeBy"`
	Roles     []RoleSpec `yaml:"roles"`
	// Uniform lists columns whose value must agree across all records of a
	// group, e.g. the reference genome path.
	Uniform []string `yaml:"uniform"`
}

// SampleInput is one grouped input file with its role tag.
type SampleInput struct {
	Role string
	Path InternedString
}

// Groups is the output of the sample grouper: group keys in first-appearance
// order and the ordered role-tagged input files per group.
type Groups struct {
	Keys  []GroupKey
	Files map[GroupKey][]SampleInput
}

// Paths returns the paths of the group's inputs carrying the given role,
// preserving sample table row order.
func (g Groups) Paths(key GroupKey, role string) []string {
	var paths []string
	for _, in := range g.Files[key] {
		if in.Role == role {
			paths = append(paths, in.Path.String())
		}
	}
	return paths
}
