package ingest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// Field is a canonical record field name.
type Field string

const (
	FieldItemNum         Field = "item_num"
	FieldCategory        Field = "category"
	FieldGroupCode       Field = "group_code"
	FieldScheduleFee     Field = "schedule_fee"
	FieldDescription     Field = "description"
	FieldDerivedFee      Field = "derived_fee"
	FieldStartDate       Field = "start_date"
	FieldEndDate         Field = "end_date"
	FieldProviderType    Field = "provider_type"
	FieldEMSNDescription Field = "emsn_description"
)

// fieldAliases lists the accepted source names for each canonical field,
// most preferred first. Matching ignores case, spaces, underscores and
// hyphens, so "Item Number", "item_num" and "ItemNum" are all covered by a
// single spelling here. New aliases are appended; nothing else changes.
var fieldAliases = map[Field][]string{
	FieldItemNum:         {"ItemNum", "ItemNumber", "Item", "Number"},
	FieldCategory:        {"Category"},
	FieldGroupCode:       {"Group", "GroupCode"},
	FieldScheduleFee:     {"ScheduleFee", "Fee"},
	FieldDescription:     {"Description", "ItemDescriptor", "ItemDescription", "ItemText"},
	FieldDerivedFee:      {"DerivedFee"},
	FieldStartDate:       {"ItemStartDate", "StartDate", "EffectiveFrom"},
	FieldEndDate:         {"ItemEndDate", "EndDate", "EffectiveTo"},
	FieldProviderType:    {"ProviderType", "Provider", "ProviderClass"},
	FieldEMSNDescription: {"EMSNDescription"},
}

type aliasTarget struct {
	field Field
	rank  int
}

var aliasIndex = buildAliasIndex(fieldAliases)

func buildAliasIndex(aliases map[Field][]string) map[string]aliasTarget {
	idx := make(map[string]aliasTarget)
	for field, names := range aliases {
		for rank, name := range names {
			idx[aliasKey(name)] = aliasTarget{field: field, rank: rank}
		}
	}
	return idx
}

func aliasKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CanonicalField resolves a source column or tag name.
func CanonicalField(name string) (Field, bool) {
	t, ok := aliasIndex[aliasKey(name)]
	return t.field, ok
}

// IsIdentifierField reports whether name is an accepted identifier alias.
func IsIdentifierField(name string) bool {
	f, ok := CanonicalField(name)
	return ok && f == FieldItemNum
}

var (
	// ErrMissingIdentifier marks a row with no usable identifier.
	ErrMissingIdentifier = errors.New("missing identifier")
	// ErrDuplicateIdentifier marks a row whose identifier was already seen in the same source.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// RowError describes one rejected row. It is reported alongside the
// accepted records and never aborts a load.
type RowError struct {
	Row     int
	ItemNum string
	Err     error
}

func (e RowError) Error() string {
	if e.ItemNum != "" {
		return fmt.Sprintf("row %d (item %s): %v", e.Row, e.ItemNum, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Normalize maps one raw row onto a canonical record. Every canonical field
// is set; absent values are empty and an unparseable fee is nil.
func Normalize(row RawRow) (model.Record, error) {
	values := make(map[Field]string)
	ranks := make(map[Field]int)
	names := make([]string, 0, len(row.Fields))
	for name := range row.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := row.Fields[name]
		t, ok := aliasIndex[aliasKey(name)]
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if r, seen := ranks[t.field]; seen && r <= t.rank {
			continue
		}
		values[t.field] = v
		ranks[t.field] = t.rank
	}

	id := values[FieldItemNum]
	if id == "" {
		return model.Record{}, RowError{Row: row.Index, Err: ErrMissingIdentifier}
	}

	return model.Record{
		ItemNum:         id,
		Category:        values[FieldCategory],
		GroupCode:       values[FieldGroupCode],
		ScheduleFee:     ParseFee(values[FieldScheduleFee]),
		Description:     values[FieldDescription],
		DerivedFee:      values[FieldDerivedFee],
		StartDate:       values[FieldStartDate],
		EndDate:         values[FieldEndDate],
		ProviderType:    values[FieldProviderType],
		EMSNDescription: values[FieldEMSNDescription],
	}, nil
}

// NormalizeAll normalizes rows in order. Rejected rows, including repeats of
// an identifier already accepted, are returned separately.
func NormalizeAll(rows []RawRow) ([]model.Record, []RowError) {
	records := make([]model.Record, 0, len(rows))
	var rejected []RowError
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		rec, err := Normalize(row)
		if err != nil {
			var re RowError
			if !errors.As(err, &re) {
				re = RowError{Row: row.Index, Err: err}
			}
			rejected = append(rejected, re)
			continue
		}
		if seen[rec.ItemNum] {
			rejected = append(rejected, RowError{Row: row.Index, ItemNum: rec.ItemNum, Err: ErrDuplicateIdentifier})
			continue
		}
		seen[rec.ItemNum] = true
		records = append(records, rec)
	}
	return records, rejected
}

// ParseFee parses a fee amount such as "39.75" or "$1,234.50". Anything
// else, including an empty string, yields nil.
func ParseFee(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
