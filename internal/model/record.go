// Package model defines the canonical schedule data types.
package model

import "time"

// Record is one schedule item after normalization. Empty strings stand for
// absent source values and are persisted as NULL.
type Record struct {
	ItemNum         string   `json:"item_num"`
	Category        string   `json:"category"`
	GroupCode       string   `json:"group_code"`
	ScheduleFee     *float64 `json:"schedule_fee"`
	Description     string   `json:"description"`
	DerivedFee      string   `json:"derived_fee"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	ProviderType    string   `json:"provider_type"`
	EMSNDescription string   `json:"emsn_description"`
}

// RelationKind enumerates directed record-to-record facts.
type RelationKind string

const (
	Excludes        RelationKind = "excludes"
	GenericExcludes RelationKind = "generic_excludes"
	SameDayExcludes RelationKind = "same_day_excludes"
	AllowsSameDay   RelationKind = "allows_same_day"
	Prerequisite    RelationKind = "prerequisite"
	DerivedFeeRef   RelationKind = "derived_fee_ref"
)

// Relation is a directed fact from one record to another. Target is nil when
// the text names no concrete item.
type Relation struct {
	ItemNum string       `json:"item_num"`
	Kind    RelationKind `json:"relation_type"`
	Target  *string      `json:"target_item_num"`
	Detail  string       `json:"detail,omitempty"`
}

// ConstraintKind enumerates attribute facts about a record.
type ConstraintKind string

const (
	DurationMinMinutes   ConstraintKind = "duration_min_minutes"
	DurationMaxMinutes   ConstraintKind = "duration_max_minutes"
	MaxPerWindow         ConstraintKind = "max_per_window" // value like "2/month"
	MaxPer12Months       ConstraintKind = "max_per_12_months"
	OncePerWindow        ConstraintKind = "once_per_window"
	OncePerLifetime      ConstraintKind = "once_per_lifetime"
	CooldownDays         ConstraintKind = "cooldown_days"
	CooldownWeeks        ConstraintKind = "cooldown_weeks"
	CooldownMonths       ConstraintKind = "cooldown_months"
	CooldownYears        ConstraintKind = "cooldown_years"
	SameDayOnly          ConstraintKind = "same_day_only"
	SameOccasion         ConstraintKind = "same_occasion"
	Location             ConstraintKind = "location"
	Provider             ConstraintKind = "provider"
	AgeMinYears          ConstraintKind = "age_min_years"
	AgeMaxYears          ConstraintKind = "age_max_years"
	Telehealth           ConstraintKind = "telehealth"
	Requirement          ConstraintKind = "requirement"
	RequiresReferral     ConstraintKind = "requires_referral"
	InitialAttendance    ConstraintKind = "initial_attendance"
	SubsequentAttendance ConstraintKind = "subsequent_attendance"
	SingleCourse         ConstraintKind = "single_course_of_treatment"
	ContinuingTreatment  ConstraintKind = "continuing_treatment"
)

// Constraint is an attribute-value fact about one record.
type Constraint struct {
	ItemNum string         `json:"item_num"`
	Kind    ConstraintKind `json:"constraint_type"`
	Value   string         `json:"value"`
}

// LoadMeta summarizes one completed load.
type LoadMeta struct {
	ID          string    `json:"load_id"`
	SourcePath  string    `json:"source_path"`
	Format      string    `json:"format"`
	SHA256      string    `json:"sha256"`
	Records     int       `json:"records"`
	Relations   int       `json:"relations"`
	Constraints int       `json:"constraints"`
	SkippedRows int       `json:"skipped_rows"`
	ElapsedMS   int64     `json:"elapsed_ms"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Batch is everything one load writes to the store.
type Batch struct {
	Records     []Record
	Relations   []Relation
	Constraints []Constraint
	Meta        LoadMeta
}

// ItemAggregate joins a record with its extracted facts.
type ItemAggregate struct {
	Item        Record       `json:"item"`
	Relations   []Relation   `json:"relations"`
	Constraints []Constraint `json:"constraints"`
}

// ValidRelationKinds are the allowed relation kinds.
var ValidRelationKinds = map[RelationKind]bool{
	Excludes:        true,
	GenericExcludes: true,
	SameDayExcludes: true,
	AllowsSameDay:   true,
	Prerequisite:    true,
	DerivedFeeRef:   true,
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
