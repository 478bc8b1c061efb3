package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ProjectCreated("FULL_LENGTH_VIDEO")
	m.ProjectCreated("FULL_LENGTH_VIDEO")
	m.ScheduleCreated()
	m.ScheduleConflict()
	m.ScheduleUpdated()
	m.AssetValidated("warnings")

	if got := testutil.ToFloat64(m.ProjectsCreated.WithLabelValues("FULL_LENGTH_VIDEO")); got != 2 {
		t.Fatalf("projects created = %v", got)
	}
	if got := testutil.ToFloat64(m.SchedulesCreated); got != 1 {
		t.Fatalf("schedules created = %v", got)
	}
	if got := testutil.ToFloat64(m.ScheduleCreateConflicts); got != 1 {
		t.Fatalf("conflicts = %v", got)
	}
	if got := testutil.ToFloat64(m.AssetValidations.WithLabelValues("warnings")); got != 1 {
		t.Fatalf("validations = %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ProjectCreated("x")
	m.ScheduleCreated()
	m.ScheduleConflict()
	m.ScheduleUpdated()
	m.AssetValidated("clean")
}

func TestSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
