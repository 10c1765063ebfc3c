package samples

import (
	"github.com/EricSDavis/MicroC/internal/core/domain"
	"go.trai.ch/zerr"
)

// Group derives the group key for every record and collects the role-tagged
// input files per group. Keys appear in first-appearance order; files within
// a group keep sample table row order, with roles interleaved per record in
// the spec's role order.
//
// Group fails with a configuration error when a merge-key or role column is
// absent from a record, or when two records of the same group disagree on a
// column listed as uniform.
func Group(records []domain.SampleRecord, spec domain.SampleSpec) (domain.Groups, error) {
	if len(spec.MergeBy) == 0 {
		return domain.Groups{}, zerr.With(domain.ErrConfig, "reason", "no merge-key columns configured")
	}
	if len(spec.Roles) == 0 {
		return domain.Groups{}, zerr.With(domain.ErrConfig, "reason", "no input roles configured")
	}

	groups := domain.Groups{Files: make(map[domain.GroupKey][]domain.SampleInput)}
	uniform := make(map[domain.GroupKey]map[string]string)

	for i, record := range records {
		key, err := deriveKey(record, spec, i)
		if err != nil {
			return domain.Groups{}, err
		}

		if _, seen := groups.Files[key]; !seen {
			groups.Keys = append(groups.Keys, key)
			uniform[key] = make(map[string]string)
		}

		if err := checkUniform(record, spec, key, uniform[key], i); err != nil {
			return domain.Groups{}, err
		}

		for _, role := range spec.Roles {
			path, ok := record[role.Column]
			if !ok || path == "" {
				return domain.Groups{}, zerr.With(zerr.With(zerr.With(domain.ErrConfig,
					"row", i+1),
					"column", role.Column),
					"reason", "missing read path",
				)
			}
			groups.Files[key] = append(groups.Files[key], domain.SampleInput{
				Role: role.Name,
				Path: domain.NewInternedString(path),
			})
		}
	}

	return groups, nil
}

func deriveKey(record domain.SampleRecord, spec domain.SampleSpec, row int) (domain.GroupKey, error) {
	values := make([]string, len(spec.MergeBy))
	for i, col := range spec.MergeBy {
		v, ok := record[col]
		if !ok || v == "" {
			return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrConfig, "missing merge-key value"),
				"row", row+1),
				"column", col,
			)
		}
		values[i] = v
	}
	return domain.NewGroupKey(values), nil
}

func checkUniform(
	record domain.SampleRecord,
	spec domain.SampleSpec,
	key domain.GroupKey,
	seen map[string]string,
	row int,
) error {
	for _, col := range spec.Uniform {
		v := record[col]
		prev, ok := seen[col]
		if !ok {
			seen[col] = v
			continue
		}
		if prev != v {
			return zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrConfig, "records in the same group disagree on a group-uniform column"),
				"row", row+1),
				"group", string(key)),
				"column", col,
			)
		}
	}
	return nil
}
