package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func item(num, desc string) model.Record {
	return model.Record{ItemNum: num, Description: desc}
}

func values(cs []model.Constraint, kind model.ConstraintKind) []string {
	var out []string
	for _, c := range cs {
		if c.Kind == kind {
			out = append(out, c.Value)
		}
	}
	return out
}

func targets(rs []model.Relation, kind model.RelationKind) []string {
	var out []string
	for _, r := range rs {
		if r.Kind != kind {
			continue
		}
		if r.Target == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, *r.Target)
	}
	return out
}

func TestLetteredClauses(t *testing.T) {
	cs := Default().Constraints(item("23", "(a) history (b) examination"))
	assert.Equal(t, []string{"history", "examination"}, values(cs, model.Requirement))
}

func TestLetteredClausesStopAtSemicolon(t *testing.T) {
	desc := "Attendance including any of the following: (a) taking a patient history; (b) performing a clinical examination, and (c) arranging tests. Other text"
	cs := Default().Constraints(item("36", desc))
	assert.Equal(t, []string{
		"taking a patient history",
		"performing a clinical examination",
		"arranging tests",
	}, values(cs, model.Requirement))
}

func TestLetteredClausesStopAtSentenceBreak(t *testing.T) {
	desc := "(a) history. Other text applies (b) examination of the patient. Not claimable with item 23"
	cs := Default().Constraints(item("36", desc))
	assert.Equal(t, []string{"history", "examination of the patient"}, values(cs, model.Requirement))

	cs = Default().Constraints(item("36", "(a) review of approx. two tests"))
	assert.Equal(t, []string{"review of approx. two tests"}, values(cs, model.Requirement))
}

func TestClauseMarkerInsideWord(t *testing.T) {
	cs := Default().Constraints(item("1", "one or more service(s) provided"))
	assert.Empty(t, values(cs, model.Requirement))
}

func TestDurations(t *testing.T) {
	tests := []struct {
		desc string
		min  []string
		max  []string
	}{
		{desc: "Professional attendance lasting at least 40 minutes", min: []string{"40"}},
		{desc: "Professional attendance lasting less than 20 minutes", max: []string{"20"}},
		{desc: "An attendance of 20 to 40 minutes", min: []string{"20"}, max: []string{"40"}},
		{desc: "A session of at least 2 hours", min: []string{"120"}},
		{desc: "Lasting 45 minutes or more", min: []string{"45"}},
		{desc: "Lasting 10 minutes or less", max: []string{"10"}},
		{desc: "Brief consultation by a general practitioner", min: nil, max: nil},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cs := Default().Constraints(item("100", tt.desc))
			assert.Equal(t, tt.min, values(cs, model.DurationMinMinutes))
			assert.Equal(t, tt.max, values(cs, model.DurationMaxMinutes))
		})
	}
}

func TestExcludesSingleItem(t *testing.T) {
	rs := Default().Relations(item("104", "Attendance other than a service to which item 106 applies"))
	require.Len(t, rs, 1)
	assert.Equal(t, model.Excludes, rs[0].Kind)
	require.NotNil(t, rs[0].Target)
	assert.Equal(t, "106", *rs[0].Target)
	assert.Equal(t, "104", rs[0].ItemNum)
	assert.Equal(t, "other than a service to which item 106", rs[0].Detail)
}

func TestExcludesItemList(t *testing.T) {
	rs := Default().Relations(item("104", "other than a service to which item 106, 109, 125 or 16401 applies"))
	assert.Equal(t, []string{"106", "109", "125", "16401"}, targets(rs, model.Excludes))
}

func TestExcludesItemListSerialComma(t *testing.T) {
	rs := Default().Relations(item("104", "other than a service to which item 106, 109, or 125 applies"))
	assert.Equal(t, []string{"106", "109", "125"}, targets(rs, model.Excludes))

	rs = Default().Relations(item("104", "other than a service to which items 106, 109, and 125 apply"))
	assert.Equal(t, []string{"106", "109", "125"}, targets(rs, model.Excludes))
}

func TestExcludesSkipsSelfAndRepeats(t *testing.T) {
	rs := Default().Relations(item("106", "other than a service to which item 106, 109 or 109 applies"))
	assert.Equal(t, []string{"109"}, targets(rs, model.Excludes))
}

func TestGenericExcludes(t *testing.T) {
	for _, desc := range []string{
		"other than a service to which another item in this group applies",
		"other than a service to which another item in the table applies",
	} {
		t.Run(desc, func(t *testing.T) {
			rs := Default().Relations(item("110", desc))
			require.Len(t, rs, 1)
			assert.Equal(t, model.GenericExcludes, rs[0].Kind)
			assert.Nil(t, rs[0].Target)
		})
	}
}

func TestSameDayRelations(t *testing.T) {
	rs := Default().Relations(item("30", "Must not be performed on the same day as item 23"))
	assert.Equal(t, []string{"23"}, targets(rs, model.SameDayExcludes))
	assert.Empty(t, targets(rs, model.AllowsSameDay))

	rs = Default().Relations(item("30", "May be claimed on the same day as item 104 or 105"))
	assert.Equal(t, []string{"104", "105"}, targets(rs, model.AllowsSameDay))
	assert.Empty(t, targets(rs, model.SameDayExcludes))
}

func TestPrerequisites(t *testing.T) {
	rs := Default().Relations(item("105", "Subsequent attendance, after the initial attendance, following referral"))
	assert.Equal(t, []string{"<nil>", "<nil>"}, targets(rs, model.Prerequisite))

	rs = Default().Relations(item("2", "Requires a prior service to which item 1 applies"))
	assert.Equal(t, []string{"1"}, targets(rs, model.Prerequisite))
}

func TestDerivedFeeReference(t *testing.T) {
	rec := model.Record{ItemNum: "30002", DerivedFee: "The fee for item 30001 plus 50% of the fee for item 30002"}
	rs := Default().Relations(rec)
	require.Len(t, rs, 1)
	assert.Equal(t, model.DerivedFeeRef, rs[0].Kind)
	assert.Equal(t, "30001", *rs[0].Target)
}

func TestDerivedFeePatternIgnoresDescription(t *testing.T) {
	rs := Default().Relations(item("1", "see item 23 for details"))
	assert.Empty(t, targets(rs, model.DerivedFeeRef))
}

func TestVocabularyPhrases(t *testing.T) {
	cs := Default().Constraints(item("5", "Attendance at a HOSPITAL by a General Practitioner, or in hospital again"))
	assert.Equal(t, []string{"hospital"}, values(cs, model.Location))
	assert.Equal(t, []string{"general practitioner"}, values(cs, model.Provider))
}

func TestVocabularyWordBoundary(t *testing.T) {
	cs := Default().Constraints(item("5", "provided at homestead sites"))
	assert.Empty(t, values(cs, model.Location))
}

func TestCustomVocabulary(t *testing.T) {
	lib := NewLibrary(Vocabulary{Locations: []string{"mobile unit"}, Providers: []string{"paramedic"}})
	cs := lib.Constraints(item("9", "Service by a paramedic in a mobile unit or hospital"))
	assert.Equal(t, []string{"mobile unit"}, values(cs, model.Location))
	assert.Equal(t, []string{"paramedic"}, values(cs, model.Provider))
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		desc string
		kind model.ConstraintKind
		want []string
	}{
		{"No more than 2 services per month", model.MaxPerWindow, []string{"2/month"}},
		{"Maximum of 3 attendances in a 12 month period", model.MaxPerWindow, []string{"3/12months"}},
		{"Maximum of 3 attendances in a 12 month period", model.MaxPer12Months, []string{"3"}},
		{"Not more than 4 services in any 6 months", model.MaxPer12Months, nil},
		{"Applicable once per week", model.OncePerWindow, []string{"week"}},
		{"Applicable once per week", model.MaxPerWindow, []string{"1/week"}},
		{"Performed every 14 days", model.MaxPerWindow, []string{"1/2weeks"}},
		{"Performed every 7 days", model.MaxPerWindow, []string{"1/week"}},
		{"Performed every 21 days", model.MaxPerWindow, []string{"1/21days"}},
		{"Performed every 28 days", model.MaxPerWindow, []string{"1/28days"}},
		{"Performed every 3 weeks", model.MaxPerWindow, []string{"1/3weeks"}},
		{"Performed every 3 months", model.MaxPerWindow, []string{"1/3months"}},
		{"Claimable once in a lifetime", model.OncePerLifetime, []string{"true"}},
	}
	for _, tt := range tests {
		t.Run(tt.desc+"/"+string(tt.kind), func(t *testing.T) {
			cs := Default().Constraints(item("700", tt.desc))
			assert.Equal(t, tt.want, values(cs, tt.kind))
		})
	}
}

func TestCooldown(t *testing.T) {
	cs := Default().Constraints(item("721", "Not within 28 days of a service to which this item applies, or within 12 months"))
	assert.Equal(t, []string{"28"}, values(cs, model.CooldownDays))
	assert.Equal(t, []string{"12"}, values(cs, model.CooldownMonths))
	assert.Empty(t, values(cs, model.CooldownWeeks))
}

func TestAge(t *testing.T) {
	cs := Default().Constraints(item("701", "Health assessment for a patient aged 75 years or older"))
	assert.Equal(t, []string{"75"}, values(cs, model.AgeMinYears))

	cs = Default().Constraints(item("702", "For a patient under 16 years"))
	assert.Equal(t, []string{"16"}, values(cs, model.AgeMaxYears))
}

func TestFlags(t *testing.T) {
	desc := "Initial attendance by telehealth on the same day, following referral from a GP, as part of a single course of treatment. Same occasion."
	cs := Default().Constraints(item("91", desc))
	assert.Equal(t, []string{"true"}, values(cs, model.InitialAttendance))
	assert.Equal(t, []string{"true"}, values(cs, model.Telehealth))
	assert.Equal(t, []string{"true"}, values(cs, model.SameDayOnly))
	assert.Equal(t, []string{"true"}, values(cs, model.SameOccasion))
	assert.Equal(t, []string{"true"}, values(cs, model.SingleCourse))
	assert.Equal(t, []string{"true", "gp"}, values(cs, model.RequiresReferral))
}

func TestEmptyDescription(t *testing.T) {
	rs, cs := Default().Extract(item("1", ""))
	assert.Nil(t, rs)
	assert.Nil(t, cs)

	rs, cs = Default().Extract(item("1", "   "))
	assert.Nil(t, rs)
	assert.Nil(t, cs)
}

func TestFactsCarrySourceItem(t *testing.T) {
	rs, cs := Default().Extract(item("2713", "Lasting at least 20 minutes, other than a service to which item 2700 applies"))
	require.NotEmpty(t, rs)
	require.NotEmpty(t, cs)
	for _, r := range rs {
		assert.Equal(t, "2713", r.ItemNum)
		assert.True(t, model.ValidRelationKinds[r.Kind])
	}
	for _, c := range cs {
		assert.Equal(t, "2713", c.ItemNum)
	}
}

func TestDeterministic(t *testing.T) {
	rec := item("44", "(a) history; (b) examination. Lasting at least 40 minutes at a hospital by a specialist, other than a service to which item 23 or 36 applies, no more than 2 services per month")
	rs1, cs1 := Default().Extract(rec)
	rs2, cs2 := NewLibrary(DefaultVocabulary()).Extract(rec)
	assert.Equal(t, rs1, rs2)
	assert.Equal(t, cs1, cs2)
}

func TestPatternAccessorsReturnCopies(t *testing.T) {
	lib := NewLibrary(DefaultVocabulary())
	ps := lib.ConstraintPatterns()
	require.NotEmpty(t, ps)
	ps[0].Name = "changed"
	assert.NotEqual(t, "changed", lib.ConstraintPatterns()[0].Name)
	assert.NotEmpty(t, lib.RelationPatterns())
}
