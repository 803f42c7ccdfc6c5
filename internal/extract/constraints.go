package extract

import (
	"strings"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Constraints runs every constraint pattern over rec's description, in
// library order and then match order. Facts are not deduplicated.
func (l *Library) Constraints(rec model.Record) []model.Constraint {
	text := rec.Description
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []model.Constraint
	for _, p := range l.constraints {
		n := -1
		if p.Once {
			n = 1
		}
		for _, m := range p.match.find(text, n) {
			v, ok := p.value(m)
			if !ok {
				continue
			}
			out = append(out, model.Constraint{ItemNum: rec.ItemNum, Kind: p.Kind, Value: v})
		}
	}
	return out
}

// Extract runs both extractors over rec.
func (l *Library) Extract(rec model.Record) ([]model.Relation, []model.Constraint) {
	return l.Relations(rec), l.Constraints(rec)
}
