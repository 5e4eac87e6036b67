package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a tenant (business) in the system. Every other
// organizational entity hangs off a company.
type Company struct {
	CompanyID uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department is an organizational unit within a company.
type Department struct {
	DepartmentID uuid.UUID
	CompanyID    uuid.UUID
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is a position within a department (e.g. "Head of Marketing").
type Role struct {
	RoleID       uuid.UUID
	DepartmentID uuid.UUID
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member is a user's membership in a company, with an access role.
type Member struct {
	MemberID  uuid.UUID
	CompanyID uuid.UUID
	Email     string
	Role      string // owner, admin, member
	CreatedAt time.Time
}

// ContextDoc is an opaque markdown document describing a company,
// department, or role. The server stores and serves it as text; prompt
// assembly happens elsewhere.
type ContextDoc struct {
	DocID     uuid.UUID
	CompanyID uuid.UUID
	Slug      string // e.g. "departments/marketing"
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
