package extract

import (
	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Relations runs every relation pattern over rec, in library order and then
// match order. A reference back to rec itself is dropped. Facts are not
// deduplicated.
func (l *Library) Relations(rec model.Record) []model.Relation {
	var out []model.Relation
	for _, p := range l.relations {
		text := rec.Description
		if p.Source == FromDerivedFee {
			text = rec.DerivedFee
		}
		if text == "" {
			continue
		}
		out = p.apply(rec.ItemNum, text, out)
	}
	return out
}

func (p RelationPattern) apply(source, text string, out []model.Relation) []model.Relation {
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		detail := collapseSpace(m[0])
		if p.items < 0 || m[p.items] == "" {
			out = append(out, model.Relation{ItemNum: source, Kind: p.Kind, Detail: detail})
			continue
		}
		for _, target := range expandItems(m[p.items]) {
			if target == source {
				continue
			}
			out = append(out, model.Relation{
				ItemNum: source,
				Kind:    p.Kind,
				Target:  model.StringPtr(target),
				Detail:  detail,
			})
		}
	}
	return out
}

// expandItems splits a captured item list into identifiers, keeping first
// occurrences in order.
func expandItems(list string) []string {
	nums := itemNumRe.FindAllString(list, -1)
	seen := make(map[string]bool, len(nums))
	out := nums[:0]
	for _, n := range nums {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
