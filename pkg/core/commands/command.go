package commands

import (
	"fmt"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/db"
)

// Command is a reversible mutation of a repository.
// Execute and Undo report whether the repository changed.
type Command interface {
	Execute() bool
	Undo() bool
	// Kind names the record type the command acts on ("volunteer" or "event")
	Kind() string
	// Action names the mutation ("add", "remove" or "update")
	Action() string
	Describe() string
}

// Actions
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionUpdate = "update"
)

// AddCommand adds a record on Execute and removes it by id on Undo
type AddCommand[T db.Record] struct {
	repo   db.Repository[T]
	kind   string
	record T
}

// NewAddCommand captures a snapshot of record for later replay
func NewAddCommand[T db.Record](repo db.Repository[T], kind string, record T) *AddCommand[T] {
	return &AddCommand[T]{repo: repo, kind: kind, record: db.CloneRecord(record)}
}

func (c *AddCommand[T]) Execute() bool {
	return c.repo.Add(db.CloneRecord(c.record))
}

func (c *AddCommand[T]) Undo() bool {
	return c.repo.Remove(c.record.RecordID())
}

func (c *AddCommand[T]) Kind() string   { return c.kind }
func (c *AddCommand[T]) Action() string { return ActionAdd }

func (c *AddCommand[T]) Describe() string {
	return fmt.Sprintf("add %s %d", c.kind, c.record.RecordID())
}

// RemoveCommand removes a record on Execute and re-adds the captured record on Undo.
// The record must be captured before removal so that undo restores it in full,
// including an event's volunteer assignments.
type RemoveCommand[T db.Record] struct {
	repo   db.Repository[T]
	kind   string
	record T
}

// NewRemoveCommand captures a snapshot of the record about to be removed
func NewRemoveCommand[T db.Record](repo db.Repository[T], kind string, record T) *RemoveCommand[T] {
	return &RemoveCommand[T]{repo: repo, kind: kind, record: db.CloneRecord(record)}
}

func (c *RemoveCommand[T]) Execute() bool {
	return c.repo.Remove(c.record.RecordID())
}

func (c *RemoveCommand[T]) Undo() bool {
	return c.repo.Add(db.CloneRecord(c.record))
}

func (c *RemoveCommand[T]) Kind() string   { return c.kind }
func (c *RemoveCommand[T]) Action() string { return ActionRemove }

func (c *RemoveCommand[T]) Describe() string {
	return fmt.Sprintf("remove %s %d", c.kind, c.record.RecordID())
}

// UpdateCommand applies the new snapshot on Execute and the old snapshot on Undo.
// Neither direction reads current repository state.
type UpdateCommand[T db.Record] struct {
	repo     db.Repository[T]
	kind     string
	previous T
	next     T
}

// NewUpdateCommand captures both the pre-update and post-update snapshots
func NewUpdateCommand[T db.Record](repo db.Repository[T], kind string, previous, next T) *UpdateCommand[T] {
	return &UpdateCommand[T]{
		repo:     repo,
		kind:     kind,
		previous: db.CloneRecord(previous),
		next:     db.CloneRecord(next),
	}
}

func (c *UpdateCommand[T]) Execute() bool {
	return c.repo.Update(db.CloneRecord(c.next))
}

func (c *UpdateCommand[T]) Undo() bool {
	return c.repo.Update(db.CloneRecord(c.previous))
}

func (c *UpdateCommand[T]) Kind() string   { return c.kind }
func (c *UpdateCommand[T]) Action() string { return ActionUpdate }

func (c *UpdateCommand[T]) Describe() string {
	return fmt.Sprintf("update %s %d", c.kind, c.previous.RecordID())
}

// NewAddVolunteerCommand creates the command adding v
func NewAddVolunteerCommand(repo db.Repository[model.Volunteer], v model.Volunteer) Command {
	return NewAddCommand(repo, db.KindVolunteer, v)
}

// NewRemoveVolunteerCommand creates the command removing the captured volunteer v
func NewRemoveVolunteerCommand(repo db.Repository[model.Volunteer], v model.Volunteer) Command {
	return NewRemoveCommand(repo, db.KindVolunteer, v)
}

// NewUpdateVolunteerCommand creates the command replacing previous with next
func NewUpdateVolunteerCommand(repo db.Repository[model.Volunteer], previous, next model.Volunteer) Command {
	return NewUpdateCommand(repo, db.KindVolunteer, previous, next)
}

// NewAddEventCommand creates the command adding e
func NewAddEventCommand(repo db.Repository[model.Event], e model.Event) Command {
	return NewAddCommand(repo, db.KindEvent, e)
}

// NewRemoveEventCommand creates the command removing the captured event e
func NewRemoveEventCommand(repo db.Repository[model.Event], e model.Event) Command {
	return NewRemoveCommand(repo, db.KindEvent, e)
}

// NewUpdateEventCommand creates the command replacing previous with next
func NewUpdateEventCommand(repo db.Repository[model.Event], previous, next model.Event) Command {
	return NewUpdateCommand(repo, db.KindEvent, previous, next)
}
