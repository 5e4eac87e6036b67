package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidStatus        = errors.New("invalid project status")
	ErrContextDocNotFound   = errors.New("context document not found")
)

// ConversationListFilter narrows a conversation list query. The zero
// value lists everything non-archived, newest first.
type ConversationListFilter struct {
	Limit           int
	Offset          int
	Search          string // case-insensitive substring match on title
	IncludeArchived bool
	SortBy          string // "updated_at" (default) or "created_at"
	CompanyID       *uuid.UUID
}

// ConversationPage is one page of a conversation listing. HasMore tells
// the client whether a further page exists; it is authoritative and the
// client must not request past it.
type ConversationPage struct {
	Conversations []*models.Conversation
	HasMore       bool
}

// CompanyStore persists companies and their organizational subresources.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)

	CreateDepartment(ctx context.Context, dept *models.Department) error
	ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*models.Department, error)

	CreateRole(ctx context.Context, role *models.Role) error
	ListRoles(ctx context.Context, departmentID uuid.UUID) ([]*models.Role, error)

	CreateMember(ctx context.Context, member *models.Member) error
	ListMembers(ctx context.Context, companyID uuid.UUID) ([]*models.Member, error)

	UpsertContextDoc(ctx context.Context, doc *models.ContextDoc) error
	GetContextDoc(ctx context.Context, companyID uuid.UUID, slug string) (*models.ContextDoc, error)
	ListContextDocs(ctx context.Context, companyID uuid.UUID) ([]*models.ContextDoc, error)
}

// ContentStore persists playbooks, projects, decisions and knowledge.
type ContentStore interface {
	CreatePlaybook(ctx context.Context, pb *models.Playbook) error
	ListPlaybooks(ctx context.Context, companyID uuid.UUID) ([]*models.Playbook, error)

	CreateProject(ctx context.Context, p *models.Project) error
	ListProjects(ctx context.Context, companyID uuid.UUID) ([]*models.Project, error)
	UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, status models.ProjectStatus) error

	CreateDecision(ctx context.Context, d *models.Decision) error
	ListDecisions(ctx context.Context, companyID uuid.UUID) ([]*models.Decision, error)

	CreateKnowledge(ctx context.Context, k *models.Knowledge) error
	ListKnowledge(ctx context.Context, companyID uuid.UUID) ([]*models.Knowledge, error)
}

// ConversationStore persists conversations and their messages.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, conversationID uuid.UUID) (*models.ConversationWithMessages, error)
	ListConversations(ctx context.Context, filter ConversationListFilter) (*ConversationPage, error)
	RenameConversation(ctx context.Context, conversationID uuid.UUID, title string) error
	SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error
	SetArchived(ctx context.Context, conversationID uuid.UUID, archived bool) error
	DeleteConversation(ctx context.Context, conversationID uuid.UUID) error

	AppendMessage(ctx context.Context, msg *models.Message) error
}
