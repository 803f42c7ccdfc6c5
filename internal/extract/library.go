// Package extract derives relation and constraint facts from schedule item
// text. A Library is an ordered, immutable set of patterns; extraction runs
// every pattern against one record's text and never consults other records.
package extract

import (
	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Library is the compiled pattern set. It is safe for concurrent use and is
// never modified after construction.
type Library struct {
	relations   []RelationPattern
	constraints []ConstraintPattern
}

var defaultLibrary = NewLibrary(DefaultVocabulary())

// Default returns the library built from the built-in vocabulary.
func Default() *Library {
	return defaultLibrary
}

// NewLibrary compiles the pattern set with the given vocabulary.
func NewLibrary(v Vocabulary) *Library {
	l := &Library{
		relations:   relationPatterns(),
		constraints: constraintPatterns(),
	}
	for _, loc := range v.Locations {
		l.constraints = append(l.constraints, phrase(model.Location, loc))
	}
	for _, prov := range v.Providers {
		l.constraints = append(l.constraints, phrase(model.Provider, prov))
	}
	l.constraints = append(l.constraints, trailingConstraintPatterns()...)
	return l
}

// RelationPatterns returns the relation patterns in evaluation order.
func (l *Library) RelationPatterns() []RelationPattern {
	return append([]RelationPattern(nil), l.relations...)
}

// ConstraintPatterns returns the constraint patterns in evaluation order.
func (l *Library) ConstraintPatterns() []ConstraintPattern {
	return append([]ConstraintPattern(nil), l.constraints...)
}

func relationPatterns() []RelationPattern {
	d := FromDescription
	return []RelationPattern{
		relation(model.Excludes, d, "other than a service to which item", `\bother than (?:a )?service to which\s+`+itemList),
		relation(model.Excludes, d, "not being a service to which item", `\bnot being a service to which\s+`+itemList),
		relation(model.Excludes, d, "not in association with item", `\bnot (?:claimable )?in association with\s+(?:a service to which\s+)?`+itemList),
		relation(model.Excludes, d, "not claimable with item", `\bnot claimable with\s+`+itemList),

		relation(model.GenericExcludes, d, "other than a service to which another item applies",
			`\bother than (?:a )?service to which another item(?:\s+in\s+(?:the|this)\s+(?:table|group|subgroup|schedule))?\s+applies\b`),

		relation(model.SameDayExcludes, d, "not on the same day as item",
			`\b(?:must not be performed|not be claimed|not)\s+on the same day as\s+(?:a service to which\s+)?`+itemList),

		relation(model.AllowsSameDay, d, "may be claimed on the same day as item",
			`\b(?:may be claimed|may be performed|can be performed)\s+on the same day as\s+(?:a service to which\s+)?`+itemList),

		relation(model.Prerequisite, d, "requires a service to which item", `\brequires?\s+(?:a\s+)?(?:prior\s+)?service to which\s+`+itemList),
		relation(model.Prerequisite, d, "preceded by a service to which item", `\bpreceded by (?:a )?service to which\s+`+itemList),
		relation(model.Prerequisite, d, "after the initial attendance", `\bafter the initial attendance\b`),
		relation(model.Prerequisite, d, "following referral", `\bfollowing referral\b`),

		relation(model.DerivedFeeRef, FromDerivedFee, "derived fee", `\b`+itemList),
	}
}

const (
	minutes = `\s+minutes?\b`
	units   = `(day|week|month|year)`
	cadence = `(?:per|a|in a|in any|each)`
	atMost  = `(?:no more than|not more than|maximum of)`
	times   = `\s+(?:times?|services?|attendances?)`
)

func cooldown(kind model.ConstraintKind, unit string) ConstraintPattern {
	return constraint(kind, string(kind), `\b(?:not within|within|preceding|after)\s+(\d+)\s+`+unit+`s?\b`, group(1))
}

// constraintPatterns are evaluated before the vocabulary phrases.
func constraintPatterns() []ConstraintPattern {
	rangeExpr := `\b(\d+)\s*(?:to|-|–)\s*(\d+)` + minutes
	frequency := `\b` + atMost + `\s+(\d+)` + times + `\s+` + cadence + `\s+` + units + `\b`
	monthsWindow := `\b` + atMost + `\s+(\d+)` + times + `\s+in\s+(?:a\s+|any\s+|the\s+)?(?:period of\s+|preceding\s+)?(\d+)\s+months?\b`
	oncePer := `\bonce ` + cadence + `\s+` + units + `\b`

	return []ConstraintPattern{
		// duration
		constraint(model.DurationMinMinutes, "duration range min", rangeExpr, group(1)),
		constraint(model.DurationMaxMinutes, "duration range max", rangeExpr, group(2)),
		constraint(model.DurationMinMinutes, "at least N minutes", `\bat least\s+(\d+)`+minutes, group(1)),
		constraint(model.DurationMinMinutes, "at least N hours", `\bat least\s+(\d+)\s+hours?\b`, hoursAsMinutes(1)),
		constraint(model.DurationMinMinutes, "approximately N minutes", `\b(?:approximately|about)\s+(\d+)`+minutes, group(1)),
		constraint(model.DurationMinMinutes, "N minutes or more", `\b(\d+)\s+minutes?\s+or\s+more\b`, group(1)),
		constraint(model.DurationMaxMinutes, "less than N minutes", `\b(?:less than|up to|no more than|not more than)\s+(\d+)`+minutes, group(1)),
		constraint(model.DurationMaxMinutes, "N minutes or less", `\b(\d+)\s+minutes?\s+or\s+less\b`, group(1)),

		// frequency
		constraint(model.MaxPerWindow, "N times per unit", frequency, perUnit(1, 2)),
		constraint(model.MaxPerWindow, "N times in M months", monthsWindow, perMonths(1, 2)),
		constraint(model.MaxPer12Months, "N times in 12 months", monthsWindow, whenGroupEquals(2, "12", group(1))),
		constraint(model.OncePerWindow, "once per unit", oncePer, lowerGroup(1)),
		constraint(model.MaxPerWindow, "once per unit", oncePer, onePer(1)),
		constraint(model.MaxPerWindow, "every N units", `\bevery\s+(\d+)\s+`+units+`s?\b`, everyPeriod(1, 2)),
		flag(model.OncePerLifetime, "once per lifetime", `\bonce (?:per|in a) lifetime\b`, "true"),

		// cooldown
		cooldown(model.CooldownDays, "day"),
		cooldown(model.CooldownWeeks, "week"),
		cooldown(model.CooldownMonths, "month"),
		cooldown(model.CooldownYears, "year"),

		// age
		constraint(model.AgeMinYears, "minimum age",
			`\bat least\s+(\d+)\s+years?\b|\baged\s+(\d+)\s+years?\s+(?:or|and)\s+(?:older|over)\b`, firstGroup()),
		constraint(model.AgeMaxYears, "maximum age",
			`\bunder\s+(\d+)\s+years?\b|\baged\s+(\d+)\s+years?\s+or\s+(?:younger|under)\b`, firstGroup()),

		// occasion
		flag(model.SameDayOnly, "on the same day", `\bon the same day\b`, "true"),
		flag(model.SameOccasion, "same occasion", `\bsame (?:occasion|visit)\b`, "true"),
		flag(model.Telehealth, "telehealth", `\b(?:telehealth|video attendance)\b`, "true"),
	}
}

// trailingConstraintPatterns are evaluated after the vocabulary phrases.
func trailingConstraintPatterns() []ConstraintPattern {
	return []ConstraintPattern{
		{Name: "lettered clause", Kind: model.Requirement, match: clauseMatcher{}, value: group(2)},
		flag(model.Requirement, "treatment plan", `\b(?:treatment|management) plan\b`, "treatment plan required"),

		flag(model.RequiresReferral, "referral", `\b(?:referral|referred)\b`, "true"),
		flag(model.RequiresReferral, "specialist referral",
			`\b(?:referral required from (?:a )?specialist|specialist referral|referral to (?:a )?specialist|referred by a specialist)\b`, "specialist"),
		flag(model.RequiresReferral, "gp referral",
			`\b(?:gp referral|referral from (?:a |the )?gp|general practitioner referral|referred (?:from|by) (?:a |the )?(?:gp|general practitioner))\b`, "gp"),

		flag(model.InitialAttendance, "initial attendance", `\b(?:initial attendance|first attendance|first visit|initial visit)\b`, "true"),
		flag(model.SubsequentAttendance, "subsequent attendance", `\b(?:subsequent attendance|follow[- ]?up)\b`, "true"),
		flag(model.SingleCourse, "single course of treatment", `\bsingle course of treatment\b`, "true"),
		flag(model.ContinuingTreatment, "continuing treatment", `\b(?:continuing|ongoing) treatment\b`, "true"),
	}
}
