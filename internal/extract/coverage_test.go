package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func TestAnalyze(t *testing.T) {
	recs := []model.Record{
		item("1", "Lasting at least 40 minutes, other than a service to which item 2 applies"),
		item("2", "Lasting at least 20 minutes"),
		item("3", "Plain text"),
		item("4", ""),
		{ItemNum: "5", Description: "Plain", DerivedFee: "item 1"},
	}

	cov := Default().Analyze(recs)
	assert.Equal(t, 5, cov.Items)
	assert.Equal(t, 1, cov.WithBoth)
	assert.Equal(t, 2, cov.WithRelations)
	assert.Equal(t, 2, cov.WithConstraints)
	assert.Equal(t, 2, cov.WithNeither)
	assert.Equal(t, 2, cov.Relations)
	assert.Equal(t, 2, cov.ConstraintKinds[model.DurationMinMinutes])
	assert.Equal(t, 1, cov.RelationKinds[model.Excludes])
	assert.Equal(t, 1, cov.RelationKinds[model.DerivedFeeRef])

	assert.Equal(t, 1, cov.Description.Empty)
	assert.Equal(t, len("Plain"), cov.Description.Min)
	assert.Equal(t, len(recs[0].Description), cov.Description.Max)
}

func TestAnalyzeEmpty(t *testing.T) {
	cov := Default().Analyze(nil)
	assert.Zero(t, cov.Items)
	assert.Zero(t, cov.Description.Mean)
	assert.NotNil(t, cov.RelationKinds)
}
