package server

import (
	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/api"
	"github.com/BuDozKeN/aicouncil/internal/models"
)

// Conversions from models to the wire types in internal/api. The wire
// layer uses opaque string identifiers.

func wireCompany(c *models.Company) api.Company {
	return api.Company{
		ID:        c.CompanyID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func wireDepartment(d *models.Department) api.Department {
	return api.Department{
		ID:        d.DepartmentID.String(),
		CompanyID: d.CompanyID.String(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

func wireRole(r *models.Role) api.Role {
	return api.Role{
		ID:           r.RoleID.String(),
		DepartmentID: r.DepartmentID.String(),
		Title:        r.Title,
		CreatedAt:    r.CreatedAt,
	}
}

func wireMember(m *models.Member) api.Member {
	return api.Member{
		ID:        m.MemberID.String(),
		CompanyID: m.CompanyID.String(),
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

func wirePlaybook(p *models.Playbook) api.Playbook {
	out := api.Playbook{
		ID:        p.PlaybookID.String(),
		CompanyID: p.CompanyID.String(),
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, deptID := range p.DepartmentIDs {
		out.DepartmentIDs = append(out.DepartmentIDs, deptID.String())
	}
	return out
}

func wireProject(p *models.Project) api.Project {
	return api.Project{
		ID:        p.ProjectID.String(),
		CompanyID: p.CompanyID.String(),
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func wireDecision(d *models.Decision) api.Decision {
	out := api.Decision{
		ID:        d.DecisionID.String(),
		CompanyID: d.CompanyID.String(),
		Summary:   d.Summary,
		CreatedAt: d.CreatedAt,
	}
	if d.DepartmentID != nil {
		out.DepartmentID = d.DepartmentID.String()
	}
	if d.ProjectID != nil {
		out.ProjectID = d.ProjectID.String()
	}
	if d.SourceConversationID != nil {
		out.SourceConversationID = d.SourceConversationID.String()
	}
	return out
}

func wireKnowledge(k *models.Knowledge) api.Knowledge {
	return api.Knowledge{
		ID:        k.KnowledgeID.String(),
		CompanyID: k.CompanyID.String(),
		Title:     k.Title,
		Content:   k.Content,
		CreatedAt: k.CreatedAt,
	}
}

func wireContextDoc(d *models.ContextDoc) api.ContextDoc {
	return api.ContextDoc{
		ID:        d.DocID.String(),
		CompanyID: d.CompanyID.String(),
		Slug:      d.Slug,
		Content:   d.Content,
		UpdatedAt: d.UpdatedAt,
	}
}

func wireConversation(c *models.Conversation) api.Conversation {
	out := api.Conversation{
		ID:        c.ConversationID.String(),
		Title:     c.Title,
		Starred:   c.Starred,
		Archived:  c.Archived,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.CompanyID != nil {
		out.CompanyID = c.CompanyID.String()
	}
	return out
}

func wireMessage(m *models.Message) api.Message {
	return api.Message{
		ID:             m.MessageID.String(),
		ConversationID: m.ConversationID.String(),
		Author:         m.Author,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// optionalUUID parses an optional string identifier.
func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
