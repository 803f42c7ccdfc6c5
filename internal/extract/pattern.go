package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Source selects which record text a pattern reads.
type Source int

const (
	FromDescription Source = iota
	FromDerivedFee
)

// itemNum matches one schedule identifier; itemList captures a run such as
// "item 106" or "items 106, 109, 125 or 16401" into the "items" group.
const (
	itemNum  = `\d{1,5}\b`
	itemSep  = `(?:\s*,\s*(?:(?:or|and)\s+)?|\s+or\s+|\s+and\s+)`
	itemList = `items?\s+(?P<items>` + itemNum + `(?:` + itemSep + itemNum + `)*)`
)

var itemNumRe = regexp.MustCompile(`\d{1,5}\b`)

// RelationPattern recognizes one relation shape. When the expression has an
// "items" group, each identifier in the captured list becomes a target;
// otherwise every match yields one relation with no target.
type RelationPattern struct {
	Name   string
	Kind   model.RelationKind
	Source Source
	re     *regexp.Regexp
	items  int
}

func relation(kind model.RelationKind, src Source, name, expr string) RelationPattern {
	re := regexp.MustCompile(`(?i)` + expr)
	return RelationPattern{Name: name, Kind: kind, Source: src, re: re, items: re.SubexpIndex("items")}
}

// matcher finds up to n matches (n < 0 for all) as submatch slices.
type matcher interface {
	find(text string, n int) [][]string
}

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) find(text string, n int) [][]string {
	return m.re.FindAllStringSubmatch(text, n)
}

// valueFunc maps one match onto a constraint value. ok=false drops the match.
type valueFunc func(groups []string) (value string, ok bool)

// ConstraintPattern recognizes one constraint shape. Once patterns are flags
// and contribute at most one fact per text; all others contribute one fact
// per non-overlapping match.
type ConstraintPattern struct {
	Name  string
	Kind  model.ConstraintKind
	Once  bool
	match matcher
	value valueFunc
}

func constraint(kind model.ConstraintKind, name, expr string, v valueFunc) ConstraintPattern {
	return ConstraintPattern{
		Name:  name,
		Kind:  kind,
		match: regexMatcher{re: regexp.MustCompile(`(?i)` + expr)},
		value: v,
	}
}

func flag(kind model.ConstraintKind, name, expr, value string) ConstraintPattern {
	p := constraint(kind, name, expr, literal(value))
	p.Once = true
	return p
}

func phrase(kind model.ConstraintKind, text string) ConstraintPattern {
	return flag(kind, string(kind)+":"+text, `\b`+regexp.QuoteMeta(text)+`\b`, text)
}

func literal(v string) valueFunc {
	return func([]string) (string, bool) { return v, true }
}

func group(i int) valueFunc {
	return func(g []string) (string, bool) {
		if i >= len(g) || g[i] == "" {
			return "", false
		}
		return g[i], true
	}
}

// firstGroup takes the first non-empty group, for alternations that capture
// the same quantity in different positions.
func firstGroup() valueFunc {
	return func(g []string) (string, bool) {
		for _, s := range g[1:] {
			if s != "" {
				return s, true
			}
		}
		return "", false
	}
}

func hoursAsMinutes(i int) valueFunc {
	return func(g []string) (string, bool) {
		n, err := strconv.Atoi(g[i])
		if err != nil {
			return "", false
		}
		return strconv.Itoa(n * 60), true
	}
}

func lowerGroup(i int) valueFunc {
	return func(g []string) (string, bool) {
		return strings.ToLower(g[i]), g[i] != ""
	}
}

// perUnit renders "count/unit", e.g. "2/month".
func perUnit(count, unit int) valueFunc {
	return func(g []string) (string, bool) {
		return g[count] + "/" + strings.ToLower(g[unit]), true
	}
}

func onePer(unit int) valueFunc {
	return func(g []string) (string, bool) {
		return "1/" + strings.ToLower(g[unit]), true
	}
}

func perMonths(count, months int) valueFunc {
	return func(g []string) (string, bool) {
		return fmt.Sprintf("%s/%smonths", g[count], g[months]), true
	}
}

func whenGroupEquals(i int, want string, v valueFunc) valueFunc {
	return func(g []string) (string, bool) {
		if g[i] != want {
			return "", false
		}
		return v(g)
	}
}

// everyPeriod renders "every N units" as a one-per-window frequency. Only
// 7 and 14 days are rewritten as weeks.
func everyPeriod(count, unit int) valueFunc {
	return func(g []string) (string, bool) {
		n, err := strconv.Atoi(g[count])
		if err != nil || n <= 0 {
			return "", false
		}
		u := strings.ToLower(g[unit])
		switch {
		case n == 1:
			return "1/" + u, true
		case u == "day" && n == 7:
			return "1/week", true
		case u == "day" && n == 14:
			return "1/2weeks", true
		}
		return fmt.Sprintf("1/%d%ss", n, u), true
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
