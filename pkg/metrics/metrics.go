package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Phases a command can be applied in
const (
	PhaseExecute = "execute"
	PhaseUndo    = "undo"
	PhaseRedo    = "redo"
)

// Recorder collects command and association metrics in its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	commands     *prometheus.CounterVec
	associations *prometheus.CounterVec
	undoDepth    prometheus.Gauge
	redoDepth    prometheus.Gauge
}

// NewRecorder creates a recorder with all metrics registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "volunteer_tracker_commands_total",
			Help: "Commands applied to a repository, by record type, action and phase",
		}, []string{"record", "action", "phase"}),
		associations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "volunteer_tracker_association_changes_total",
			Help: "Volunteer/event association changes, by operation",
		}, []string{"op"}),
		undoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "volunteer_tracker_undo_depth",
			Help: "Number of commands that can be undone",
		}),
		redoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "volunteer_tracker_redo_depth",
			Help: "Number of commands that can be redone",
		}),
	}

	r.registry.MustRegister(r.commands, r.associations, r.undoDepth, r.redoDepth)
	return r
}

// CommandApplied counts a command that changed a repository
func (r *Recorder) CommandApplied(record, action, phase string) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(record, action, phase).Inc()
}

// AssociationChanged counts an association add or remove
func (r *Recorder) AssociationChanged(op string) {
	if r == nil {
		return
	}
	r.associations.WithLabelValues(op).Inc()
}

// StackDepths records the current undo and redo stack sizes
func (r *Recorder) StackDepths(undo, redo int) {
	if r == nil {
		return
	}
	r.undoDepth.Set(float64(undo))
	r.redoDepth.Set(float64(redo))
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the Prometheus text format, for the
// node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
