package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project. Transitions are
// validated server-side; clients submit the target status and the store
// rejects anything the schema's check constraint disallows.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Playbook is a reusable procedure owned by a company, optionally scoped
// to a subset of its departments.
type Playbook struct {
	PlaybookID    uuid.UUID
	CompanyID     uuid.UUID
	Title         string
	Content       string
	DepartmentIDs []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Project is a unit of work tracked for a company.
type Project struct {
	ProjectID uuid.UUID
	CompanyID uuid.UUID
	Name      string
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decision records an outcome, optionally linked to the department,
// project, or conversation it came out of.
type Decision struct {
	DecisionID           uuid.UUID
	CompanyID            uuid.UUID
	Summary              string
	DepartmentID         *uuid.UUID
	ProjectID            *uuid.UUID
	SourceConversationID *uuid.UUID
	CreatedAt            time.Time
}

// Knowledge is a saved snippet a user extracted from a conversation or
// entered directly.
type Knowledge struct {
	KnowledgeID uuid.UUID
	CompanyID   uuid.UUID
	Title       string
	Content     string
	CreatedAt   time.Time
}
