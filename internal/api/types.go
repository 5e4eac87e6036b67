package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// Wire types for the REST API. The server marshals these and the
// client decodes them; identifiers are opaque strings on the wire.

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Department struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Role struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
}

type Member struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Playbook struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	DepartmentIDs []string  `json:"department_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Project struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Decision struct {
	ID                   string    `json:"id"`
	CompanyID            string    `json:"company_id"`
	Summary              string    `json:"summary"`
	DepartmentID         string    `json:"department_id,omitempty"`
	ProjectID            string    `json:"project_id,omitempty"`
	SourceConversationID string    `json:"source_conversation_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type Knowledge struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ContextDoc struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Conversation struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Title     string    `json:"title"`
	Starred   bool      `json:"starred"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Author         string    `json:"author"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationDetail is a conversation with its messages in creation
// order.
type ConversationDetail struct {
	Conversation
	Messages []Message `json:"messages"`
}

// ConversationList is one page of a conversation listing.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	HasMore       bool           `json:"has_more"`
}

// ConversationFilter narrows a conversation listing.
type ConversationFilter struct {
	Limit           int
	Offset          int
	Search          string
	IncludeArchived bool
	SortBy          string
	CompanyID       string
}

// CacheFilter maps the filter to its canonical cache-key form.
// Pagination offsets stay out of the key: all pages of one filter live
// under the same listing entry.
func (f ConversationFilter) CacheFilter() querycache.Filter {
	cf := querycache.Filter{
		"search":     f.Search,
		"sort_by":    f.SortBy,
		"company_id": f.CompanyID,
	}
	if f.Limit > 0 {
		cf["limit"] = strconv.Itoa(f.Limit)
	}
	if f.IncludeArchived {
		cf["include_archived"] = "true"
	}
	return cf
}

// Query renders the filter as URL query parameters.
func (f ConversationFilter) Query() url.Values {
	values := url.Values{}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		values.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.IncludeArchived {
		values.Set("include_archived", "true")
	}
	if f.SortBy != "" {
		values.Set("sort_by", f.SortBy)
	}
	if f.CompanyID != "" {
		values.Set("company_id", f.CompanyID)
	}
	return values
}

// Request bodies.

type CreateCompanyRequest struct {
	Name string `json:"name"`
}

type CreateDepartmentRequest struct {
	CompanyID string `json:"-"`
	Name      string `json:"name"`
}

type CreateRoleRequest struct {
	CompanyID    string `json:"-"`
	DepartmentID string `json:"department_id"`
	Title        string `json:"title"`
}

type CreateMemberRequest struct {
	CompanyID string `json:"-"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type CreatePlaybookRequest struct {
	CompanyID     string   `json:"-"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	DepartmentIDs []string `json:"department_ids,omitempty"`
}

type CreateProjectRequest struct {
	CompanyID string `json:"-"`
	Name      string `json:"name"`
}

type UpdateProjectStatusRequest struct {
	CompanyID string `json:"-"`
	ProjectID string `json:"-"`
	Status    string `json:"status"`
}

type CreateDecisionRequest struct {
	CompanyID            string `json:"-"`
	Summary              string `json:"summary"`
	DepartmentID         string `json:"department_id,omitempty"`
	ProjectID            string `json:"project_id,omitempty"`
	SourceConversationID string `json:"source_conversation_id,omitempty"`
}

type CreateKnowledgeRequest struct {
	CompanyID string `json:"-"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type PutContextDocRequest struct {
	CompanyID string `json:"-"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
}

type CreateConversationRequest struct {
	CompanyID string `json:"company_id,omitempty"`
	Title     string `json:"title"`
}

type RenameConversationRequest struct {
	ConversationID string `json:"-"`
	Title          string `json:"title"`
}

type SetStarredRequest struct {
	ConversationID string `json:"-"`
	Starred        bool   `json:"starred"`
}

type SetArchivedRequest struct {
	ConversationID string `json:"-"`
	Archived       bool   `json:"archived"`
}

type AppendMessageRequest struct {
	ConversationID string `json:"-"`
	Author         string `json:"author"`
	Content        string `json:"content"`
}

// ErrorBody is the structured error envelope the server returns on
// non-2xx responses.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a server-reported application error.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
