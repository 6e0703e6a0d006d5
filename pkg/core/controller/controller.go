package controller

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/core/commands"
	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/db"
	"github.com/jakechorley/volunteer-tracker/pkg/metrics"
)

// Association operations, used as metric labels
const (
	AssociationAdd    = "add"
	AssociationRemove = "remove"
)

// HistoryEntry describes a command on the undo stack
type HistoryEntry struct {
	ID          string
	Description string
	ExecutedAt  time.Time
}

type stackEntry struct {
	id         string
	cmd        commands.Command
	executedAt time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithMetrics records command activity on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = r
	}
}

// Controller owns the volunteer and event repositories and the undo/redo stacks.
// Every mutation of a record goes through a command so it can be undone, except
// volunteer/event associations which are applied directly.
// Controller is not safe for concurrent use.
type Controller struct {
	volunteers db.Repository[model.Volunteer]
	events     db.Repository[model.Event]
	undoStack  []stackEntry
	redoStack  []stackEntry
	logger     *zap.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
}

// New creates a controller. Either repository may be nil, including a typed nil
// pointer, in which case the operations on it are logged no-ops and its queries
// return nothing.
func New(volunteers db.Repository[model.Volunteer], events db.Repository[model.Event], logger *zap.Logger, opts ...Option) *Controller {
	if isNil(volunteers) {
		volunteers = nil
	}
	if isNil(events) {
		events = nil
	}

	c := &Controller{
		volunteers: volunteers,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if volunteers == nil {
		logger.Warn("Volunteer repository not available")
	}
	if events == nil {
		logger.Warn("Event repository not available")
	}
	return c
}

// AddVolunteer adds v through an undoable command
func (c *Controller) AddVolunteer(v model.Volunteer) bool {
	if !c.volunteersAvailable() {
		return false
	}
	return c.run(commands.NewAddVolunteerCommand(c.volunteers, v))
}

// RemoveVolunteer removes the volunteer with the given id through an undoable command
func (c *Controller) RemoveVolunteer(id int) bool {
	if !c.volunteersAvailable() {
		return false
	}

	existing, ok := find(c.volunteers.GetAll(), id)
	if !ok {
		c.logger.Warn("Volunteer not found, nothing removed", zap.Int("id", id))
		return false
	}
	return c.run(commands.NewRemoveVolunteerCommand(c.volunteers, existing))
}

// UpdateVolunteer replaces the volunteer stored under oldID with v.
// The record keeps oldID.
func (c *Controller) UpdateVolunteer(oldID int, v model.Volunteer) bool {
	if !c.volunteersAvailable() {
		return false
	}

	existing, ok := find(c.volunteers.GetAll(), oldID)
	if !ok {
		c.logger.Warn("Volunteer not found, nothing updated", zap.Int("id", oldID))
		return false
	}
	v.ID = oldID
	return c.run(commands.NewUpdateVolunteerCommand(c.volunteers, existing, v))
}

// GetAllVolunteers returns a snapshot of every volunteer
func (c *Controller) GetAllVolunteers() []model.Volunteer {
	if c.volunteers == nil {
		return []model.Volunteer{}
	}
	return c.volunteers.GetAll()
}

// AddEvent adds e through an undoable command
func (c *Controller) AddEvent(e model.Event) bool {
	if !c.eventsAvailable() {
		return false
	}
	return c.run(commands.NewAddEventCommand(c.events, e))
}

// RemoveEvent removes the event with the given id through an undoable command.
// Undo restores the event with its volunteer assignments.
func (c *Controller) RemoveEvent(id int) bool {
	if !c.eventsAvailable() {
		return false
	}

	existing, ok := find(c.events.GetAll(), id)
	if !ok {
		c.logger.Warn("Event not found, nothing removed", zap.Int("id", id))
		return false
	}
	return c.run(commands.NewRemoveEventCommand(c.events, existing))
}

// UpdateEvent replaces the event stored under oldID with e.
// The record keeps oldID.
func (c *Controller) UpdateEvent(oldID int, e model.Event) bool {
	if !c.eventsAvailable() {
		return false
	}

	existing, ok := find(c.events.GetAll(), oldID)
	if !ok {
		c.logger.Warn("Event not found, nothing updated", zap.Int("id", oldID))
		return false
	}
	e.ID = oldID
	return c.run(commands.NewUpdateEventCommand(c.events, existing, e))
}

// GetAllEvents returns a snapshot of every event
func (c *Controller) GetAllEvents() []model.Event {
	if c.events == nil {
		return []model.Event{}
	}
	return c.events.GetAll()
}

// AddVolunteerToEvent assigns a volunteer to an event. Both must exist.
// The change is not recorded for undo.
func (c *Controller) AddVolunteerToEvent(volunteerID, eventID int) bool {
	event, ok := c.lookupAssociation(volunteerID, eventID)
	if !ok {
		return false
	}

	if !event.AddVolunteer(volunteerID) {
		c.logger.Debug("Volunteer already assigned to event",
			zap.Int("volunteer_id", volunteerID), zap.Int("event_id", eventID))
		return false
	}
	return c.applyAssociation(event, AssociationAdd, volunteerID)
}

// RemoveVolunteerFromEvent unassigns a volunteer from an event. Both must exist.
// The change is not recorded for undo.
func (c *Controller) RemoveVolunteerFromEvent(volunteerID, eventID int) bool {
	event, ok := c.lookupAssociation(volunteerID, eventID)
	if !ok {
		return false
	}

	if !event.RemoveVolunteer(volunteerID) {
		c.logger.Debug("Volunteer not assigned to event",
			zap.Int("volunteer_id", volunteerID), zap.Int("event_id", eventID))
		return false
	}
	return c.applyAssociation(event, AssociationRemove, volunteerID)
}

// Undo reverts the most recent command and moves it to the redo stack.
// Returns false if there was nothing to undo or the revert had no effect.
func (c *Controller) Undo() bool {
	if len(c.undoStack) == 0 {
		c.logger.Info("Undo stack is empty")
		return false
	}

	top := c.undoStack[len(c.undoStack)-1]
	c.undoStack = c.undoStack[:len(c.undoStack)-1]

	applied := top.cmd.Undo()
	c.redoStack = append(c.redoStack, top)
	c.recordPhase(top, applied, metrics.PhaseUndo)

	return applied
}

// Redo re-executes the most recently undone command and moves it back to the undo stack.
// Returns false if there was nothing to redo or the command had no effect.
func (c *Controller) Redo() bool {
	if len(c.redoStack) == 0 {
		c.logger.Info("Redo stack is empty")
		return false
	}

	top := c.redoStack[len(c.redoStack)-1]
	c.redoStack = c.redoStack[:len(c.redoStack)-1]

	applied := top.cmd.Execute()
	c.undoStack = append(c.undoStack, top)
	c.recordPhase(top, applied, metrics.PhaseRedo)

	return applied
}

// CanUndo reports whether there is a command to undo
func (c *Controller) CanUndo() bool {
	return len(c.undoStack) > 0
}

// CanRedo reports whether there is a command to redo
func (c *Controller) CanRedo() bool {
	return len(c.redoStack) > 0
}

// History lists the commands that can be undone, oldest first
func (c *Controller) History() []HistoryEntry {
	history := make([]HistoryEntry, len(c.undoStack))
	for i, entry := range c.undoStack {
		history[i] = HistoryEntry{
			ID:          entry.id,
			Description: entry.cmd.Describe(),
			ExecutedAt:  entry.executedAt,
		}
	}
	return history
}

// run executes cmd and, if it changed the repository, records it for undo
// and discards the redo history
func (c *Controller) run(cmd commands.Command) bool {
	if !cmd.Execute() {
		c.logger.Info("Command had no effect", zap.String("command", cmd.Describe()))
		return false
	}

	entry := stackEntry{id: uuid.NewString(), cmd: cmd, executedAt: c.now()}
	c.undoStack = append(c.undoStack, entry)
	if len(c.redoStack) > 0 {
		c.logger.Debug("Discarding redo history", zap.Int("count", len(c.redoStack)))
		c.redoStack = nil
	}
	c.recordPhase(entry, true, metrics.PhaseExecute)

	return true
}

func (c *Controller) recordPhase(entry stackEntry, applied bool, phase string) {
	fields := []zap.Field{
		zap.String("command_id", entry.id),
		zap.String("command", entry.cmd.Describe()),
		zap.String("phase", phase),
	}
	if applied {
		c.logger.Info("Command applied", fields...)
		c.metrics.CommandApplied(entry.cmd.Kind(), entry.cmd.Action(), phase)
	} else {
		c.logger.Warn("Command had no effect", fields...)
	}
	c.metrics.StackDepths(len(c.undoStack), len(c.redoStack))
}

func (c *Controller) lookupAssociation(volunteerID, eventID int) (model.Event, bool) {
	if !c.volunteersAvailable() || !c.eventsAvailable() {
		return model.Event{}, false
	}

	if _, ok := find(c.volunteers.GetAll(), volunteerID); !ok {
		c.logger.Warn("Volunteer not found for association", zap.Int("volunteer_id", volunteerID))
		return model.Event{}, false
	}
	event, ok := find(c.events.GetAll(), eventID)
	if !ok {
		c.logger.Warn("Event not found for association", zap.Int("event_id", eventID))
		return model.Event{}, false
	}
	return event, true
}

func (c *Controller) applyAssociation(event model.Event, op string, volunteerID int) bool {
	if !c.events.Update(event) {
		return false
	}

	c.logger.Info("Association changed",
		zap.String("op", op),
		zap.Int("volunteer_id", volunteerID),
		zap.Int("event_id", event.ID))
	c.metrics.AssociationChanged(op)
	return true
}

func (c *Controller) volunteersAvailable() bool {
	if c.volunteers == nil {
		c.logger.Error("Volunteer repository not available")
		return false
	}
	return true
}

func (c *Controller) eventsAvailable() bool {
	if c.events == nil {
		c.logger.Error("Event repository not available")
		return false
	}
	return true
}

func find[T db.Record](items []T, id int) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func isNil(repo any) bool {
	if repo == nil {
		return true
	}
	v := reflect.ValueOf(repo)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
