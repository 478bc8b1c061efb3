package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for frameline. All methods are safe
// on a nil receiver so callers never need to check whether metrics are wired.
//
// Metrics:
//   - frameline_projects_created_total{project_type}
//   - frameline_schedules_created_total
//   - frameline_schedule_create_conflicts_total
//   - frameline_schedule_updates_total
//   - frameline_asset_validations_total{outcome} - "clean", "warnings" or "failed"
type Metrics struct {
	ProjectsCreated         *prometheus.CounterVec
	SchedulesCreated        prometheus.Counter
	ScheduleCreateConflicts prometheus.Counter
	ScheduleUpdates         prometheus.Counter
	AssetValidations        *prometheus.CounterVec
}

// New registers the collectors on reg. Pass a fresh prometheus.NewRegistry()
// per process or test to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProjectsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "frameline_projects_created_total",
			Help: "Total number of projects created",
		}, []string{"project_type"}),
		SchedulesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "frameline_schedules_created_total",
			Help: "Total number of schedules created by this process",
		}),
		ScheduleCreateConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "frameline_schedule_create_conflicts_total",
			Help: "Schedule creations that lost a race to a concurrent creator",
		}),
		ScheduleUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "frameline_schedule_updates_total",
			Help: "Total number of schedule bucket replacements",
		}),
		AssetValidations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "frameline_asset_validations_total",
			Help: "Asset metadata validations by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ProjectCreated(projectType string) {
	if m == nil {
		return
	}
	m.ProjectsCreated.WithLabelValues(projectType).Inc()
}

func (m *Metrics) ScheduleCreated() {
	if m == nil {
		return
	}
	m.SchedulesCreated.Inc()
}

func (m *Metrics) ScheduleConflict() {
	if m == nil {
		return
	}
	m.ScheduleCreateConflicts.Inc()
}

func (m *Metrics) ScheduleUpdated() {
	if m == nil {
		return
	}
	m.ScheduleUpdates.Inc()
}

func (m *Metrics) AssetValidated(outcome string) {
	if m == nil {
		return
	}
	m.AssetValidations.WithLabelValues(outcome).Inc()
}
