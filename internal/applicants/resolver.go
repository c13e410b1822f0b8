// Package applicants turns repeated (name, grade components) observations into
// a roster of distinct applicants. The registry exposes no applicant id, so an
// observation is attributed to an earlier identity with the same name when at
// least MatchThreshold of their grade components agree.
package applicants

import (
	"cmp"
	"slices"

	"edbo-scraper/internal/model"
)

// MatchThreshold is the number of approximately equal grade components two
// observations under the same name need to be considered the same person.
const MatchThreshold = 2

// Resolver is not safe for concurrent use.
type Resolver struct {
	nextID int64
	byName map[string][]*model.Applicant
	all    []*model.Applicant
}

func NewResolver() *Resolver {
	return &Resolver{
		nextID: 1,
		byName: make(map[string][]*model.Applicant),
	}
}

// countMatches counts identity components that have an approximately equal,
// not yet matched counterpart among comps.
func countMatches(identity, comps []model.GradeComponent) int {
	matched := make([]bool, len(comps))
	count := 0
	for _, have := range identity {
		for j, c := range comps {
			if matched[j] || !have.Equal(c) {
				continue
			}
			matched[j] = true
			count++
			break
		}
	}
	return count
}

// union appends the components of comps not already present in identity.
func union(identity, comps []model.GradeComponent) []model.GradeComponent {
	for _, c := range comps {
		seen := false
		for _, have := range identity {
			if have.Equal(c) {
				seen = true
				break
			}
		}
		if !seen {
			identity = append(identity, c)
		}
	}
	return identity
}

// Resolve returns the id of the applicant the observation belongs to, creating
// a new applicant when no identity under the same name matches. The first
// matching identity in creation order wins.
func (r *Resolver) Resolve(name string, comps []model.GradeComponent) int64 {
	for _, identity := range r.byName[name] {
		if countMatches(identity.GradeComponents, comps) >= MatchThreshold {
			identity.GradeComponents = union(identity.GradeComponents, comps)
			return identity.ID
		}
	}

	applicant := &model.Applicant{
		ID:              r.nextID,
		Name:            name,
		GradeComponents: slices.Clone(comps),
	}
	r.nextID++
	r.byName[name] = append(r.byName[name], applicant)
	r.all = append(r.all, applicant)
	return applicant.ID
}

// Applicants returns a snapshot of every identity ordered by id.
func (r *Resolver) Applicants() []model.Applicant {
	out := make([]model.Applicant, len(r.all))
	for i, a := range r.all {
		out[i] = model.Applicant{
			ID:              a.ID,
			Name:            a.Name,
			GradeComponents: slices.Clone(a.GradeComponents),
		}
	}
	slices.SortFunc(out, func(a, b model.Applicant) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r *Resolver) Len() int {
	return len(r.all)
}
