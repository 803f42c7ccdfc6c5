package extract

import (
	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Coverage summarizes how much of a record set the library structures.
type Coverage struct {
	Items           int                          `json:"items"`
	WithRelations   int                          `json:"with_relations"`
	WithConstraints int                          `json:"with_constraints"`
	WithBoth        int                          `json:"with_both"`
	WithNeither     int                          `json:"with_neither"`
	Relations       int                          `json:"relations"`
	Constraints     int                          `json:"constraints"`
	RelationKinds   map[model.RelationKind]int   `json:"relation_kinds"`
	ConstraintKinds map[model.ConstraintKind]int `json:"constraint_kinds"`
	Description     LengthStats                  `json:"description_length"`
}

// LengthStats describes description lengths in bytes. Empty descriptions
// are counted separately and excluded from the other figures.
type LengthStats struct {
	Empty int     `json:"empty"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
}

// Analyze extracts facts from every record and tallies the results.
func (l *Library) Analyze(recs []model.Record) Coverage {
	cov := Coverage{
		Items:           len(recs),
		RelationKinds:   map[model.RelationKind]int{},
		ConstraintKinds: map[model.ConstraintKind]int{},
	}

	var total, described int
	for _, rec := range recs {
		rels, cons := l.Extract(rec)
		cov.Relations += len(rels)
		cov.Constraints += len(cons)
		for _, r := range rels {
			cov.RelationKinds[r.Kind]++
		}
		for _, c := range cons {
			cov.ConstraintKinds[c.Kind]++
		}

		switch {
		case len(rels) > 0 && len(cons) > 0:
			cov.WithBoth++
			cov.WithRelations++
			cov.WithConstraints++
		case len(rels) > 0:
			cov.WithRelations++
		case len(cons) > 0:
			cov.WithConstraints++
		default:
			cov.WithNeither++
		}

		n := len(rec.Description)
		if n == 0 {
			cov.Description.Empty++
			continue
		}
		if described == 0 || n < cov.Description.Min {
			cov.Description.Min = n
		}
		if n > cov.Description.Max {
			cov.Description.Max = n
		}
		total += n
		described++
	}
	if described > 0 {
		cov.Description.Mean = float64(total) / float64(described)
	}
	return cov
}
