package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAssessment(t *testing.T) {
	before := testutil.ToFloat64(Assessments.WithLabelValues(EngineRules, "low"))
	RecordAssessment(EngineRules, "low")
	RecordAssessment(EngineRules, "low")
	assert.Equal(t, before+2, testutil.ToFloat64(Assessments.WithLabelValues(EngineRules, "low")))
}
