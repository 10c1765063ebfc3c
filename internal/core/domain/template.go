package domain

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// placeholderRegex matches {name} and {name.arg} template placeholders.
var placeholderRegex = regexp.MustCompile(`\{([a-z]+)(?:\.([A-Za-z0-9_]+))?\}`)

const (
	phGroup   = "group"
	phThreads = "threads"
	phIn      = "in"
	phOut     = "out"
	phParams  = "params"
)

// segment is one parsed piece of a template: either a literal or a placeholder.
type segment struct {
	literal string
	kind    string
	arg     string
	index   int
}

// PathTemplate is a typed path expression resolved per group at graph-build
// time. Only the {group} placeholder is permitted.
type PathTemplate struct {
	raw      string
	segments []segment
}

// NewPathTemplate parses and validates a path template.
func NewPathTemplate(raw string) (PathTemplate, error) {
	if raw == "" {
		return PathTemplate{}, zerr.With(ErrInvalidTemplate, "template", raw)
	}

	segments, err := parseSegments(raw)
	if err != nil {
		return PathTemplate{}, err
	}

	for _, s := range segments {
		if s.literal == "" && (s.kind != phGroup || s.arg != "") {
			return PathTemplate{}, zerr.With(zerr.With(ErrUnknownPlaceholder, "template", raw), "placeholder", s.kind)
		}
	}

	return PathTemplate{raw: raw, segments: segments}, nil
}

// HasGroup reports whether the template contains a {group} placeholder.
func (t PathTemplate) HasGroup() bool {
	for _, s := range t.segments {
		if s.literal == "" && s.kind == phGroup {
			return true
		}
	}
	return false
}

// Render substitutes the group key into the template.
func (t PathTemplate) Render(group GroupKey) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.literal != "" {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(string(group))
	}
	return b.String()
}

// String returns the unparsed template text.
func (t PathTemplate) String() string {
	return t.raw
}

// CommandScope carries the concrete values a command template is rendered
// against. Inputs holds one path list per declared input slot; a slot bound to
// a sample role may resolve to several files.
type CommandScope struct {
	Group   GroupKey
	Threads int
	Inputs  [][]string
	Outputs []string
	Params  map[string]string
}

// CommandTemplate is a typed command-line expression. Placeholders:
// {group}, {threads}, {in.N}, {out.N} and {params.NAME}. Input and output
// indices and parameter names are validated at catalog-load time, never at
// run time.
type CommandTemplate struct {
	raw      string
	segments []segment
}

// NewCommandTemplate parses a command template and validates every
// placeholder against the stage's declared inputs, outputs and the pipeline
// parameter set.
func NewCommandTemplate(raw string, inputs, outputs int, params map[string]string) (CommandTemplate, error) {
	if strings.TrimSpace(raw) == "" {
		return CommandTemplate{}, zerr.With(ErrInvalidTemplate, "template", raw)
	}

	segments, err := parseSegments(raw)
	if err != nil {
		return CommandTemplate{}, err
	}

	for i := range segments {
		s := &segments[i]
		if s.literal != "" {
			continue
		}

		switch s.kind {
		case phGroup, phThreads:
			if s.arg != "" {
				return CommandTemplate{}, zerr.With(zerr.With(ErrUnknownPlaceholder,
					"template", raw),
					"placeholder", s.kind+"."+s.arg,
				)
			}
		case phIn, phOut:
			idx, err := strconv.Atoi(s.arg)
			limit := inputs
			if s.kind == phOut {
				limit = outputs
			}
			if err != nil || idx < 0 || idx >= limit {
				return CommandTemplate{}, zerr.With(zerr.With(ErrUnknownPlaceholder,
					"template", raw),
					"placeholder", s.kind+"."+s.arg,
				)
			}
			s.index = idx
		case phParams:
			if _, ok := params[s.arg]; !ok {
				return CommandTemplate{}, zerr.With(zerr.With(ErrUnknownPlaceholder,
					"template", raw),
					"placeholder", "params."+s.arg,
				)
			}
		default:
			return CommandTemplate{}, zerr.With(zerr.With(ErrUnknownPlaceholder, "template", raw), "placeholder", s.kind)
		}
	}

	return CommandTemplate{raw: raw, segments: segments}, nil
}

// Render produces the concrete command line for one task. Input slots with
// multiple files expand to space-separated paths.
func (t CommandTemplate) Render(scope CommandScope) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.literal != "" {
			b.WriteString(s.literal)
			continue
		}

		switch s.kind {
		case phGroup:
			b.WriteString(string(scope.Group))
		case phThreads:
			b.WriteString(strconv.Itoa(scope.Threads))
		case phIn:
			b.WriteString(strings.Join(scope.Inputs[s.index], " "))
		case phOut:
			b.WriteString(scope.Outputs[s.index])
		case phParams:
			b.WriteString(scope.Params[s.arg])
		}
	}
	return b.String()
}

// String returns the unparsed template text.
func (t CommandTemplate) String() string {
	return t.raw
}

func parseSegments(raw string) ([]segment, error) {
	var segments []segment
	last := 0

	for _, loc := range placeholderRegex.FindAllStringSubmatchIndex(raw, -1) {
		if loc[0] > last {
			segments = append(segments, segment{literal: raw[last:loc[0]]})
		}

		seg := segment{kind: raw[loc[2]:loc[3]]}
		if loc[4] >= 0 {
			seg.arg = raw[loc[4]:loc[5]]
		}
		segments = append(segments, seg)
		last = loc[1]
	}

	if last < len(raw) {
		segments = append(segments, segment{literal: raw[last:]})
	}

	// A stray brace almost always means a typo in a placeholder name.
	for _, s := range segments {
		if s.literal != "" && strings.ContainsAny(s.literal, "{}") {
			return nil, zerr.With(ErrInvalidTemplate, "template", raw)
		}
	}

	return segments, nil
}
