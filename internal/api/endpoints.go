package api

import (
	"context"
	"fmt"
)

// Companies

func (c *Client) CreateCompany(ctx context.Context, req CreateCompanyRequest) (Company, error) {
	var out Company
	err := c.post(ctx, "/v1/companies", req, &out)
	return out, err
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out struct {
		Companies []Company `json:"companies"`
	}
	err := c.get(ctx, "/v1/companies", nil, &out)
	return out.Companies, err
}

func (c *Client) GetCompany(ctx context.Context, companyID string) (Company, error) {
	var out Company
	err := c.get(ctx, "/v1/companies/"+companyID, nil, &out)
	return out, err
}

// Company subresources

func (c *Client) ListDepartments(ctx context.Context, companyID string) ([]Department, error) {
	var out struct {
		Departments []Department `json:"departments"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/departments", companyID), nil, &out)
	return out.Departments, err
}

func (c *Client) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (Department, error) {
	var out Department
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/departments", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) ListRoles(ctx context.Context, companyID, departmentID string) ([]Role, error) {
	var out struct {
		Roles []Role `json:"roles"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/departments/%s/roles", companyID, departmentID), nil, &out)
	return out.Roles, err
}

func (c *Client) CreateRole(ctx context.Context, req CreateRoleRequest) (Role, error) {
	var out Role
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/departments/%s/roles", req.CompanyID, req.DepartmentID), req, &out)
	return out, err
}

func (c *Client) ListMembers(ctx context.Context, companyID string) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/members", companyID), nil, &out)
	return out.Members, err
}

func (c *Client) CreateMember(ctx context.Context, req CreateMemberRequest) (Member, error) {
	var out Member
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/members", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) ListPlaybooks(ctx context.Context, companyID string) ([]Playbook, error) {
	var out struct {
		Playbooks []Playbook `json:"playbooks"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/playbooks", companyID), nil, &out)
	return out.Playbooks, err
}

func (c *Client) CreatePlaybook(ctx context.Context, req CreatePlaybookRequest) (Playbook, error) {
	var out Playbook
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/playbooks", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) ListProjects(ctx context.Context, companyID string) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/projects", companyID), nil, &out)
	return out.Projects, err
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	var out Project
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/projects", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) UpdateProjectStatus(ctx context.Context, req UpdateProjectStatusRequest) (Project, error) {
	var out Project
	err := c.patch(ctx, fmt.Sprintf("/v1/companies/%s/projects/%s", req.CompanyID, req.ProjectID), req, &out)
	return out, err
}

func (c *Client) ListDecisions(ctx context.Context, companyID string) ([]Decision, error) {
	var out struct {
		Decisions []Decision `json:"decisions"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/decisions", companyID), nil, &out)
	return out.Decisions, err
}

func (c *Client) CreateDecision(ctx context.Context, req CreateDecisionRequest) (Decision, error) {
	var out Decision
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/decisions", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) ListKnowledge(ctx context.Context, companyID string) ([]Knowledge, error) {
	var out struct {
		Knowledge []Knowledge `json:"knowledge"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/knowledge", companyID), nil, &out)
	return out.Knowledge, err
}

func (c *Client) CreateKnowledge(ctx context.Context, req CreateKnowledgeRequest) (Knowledge, error) {
	var out Knowledge
	err := c.post(ctx, fmt.Sprintf("/v1/companies/%s/knowledge", req.CompanyID), req, &out)
	return out, err
}

func (c *Client) ListContextDocs(ctx context.Context, companyID string) ([]ContextDoc, error) {
	var out struct {
		Docs []ContextDoc `json:"docs"`
	}
	err := c.get(ctx, fmt.Sprintf("/v1/companies/%s/context", companyID), nil, &out)
	return out.Docs, err
}

func (c *Client) PutContextDoc(ctx context.Context, req PutContextDocRequest) (ContextDoc, error) {
	var out ContextDoc
	err := c.put(ctx, fmt.Sprintf("/v1/companies/%s/context", req.CompanyID), req, &out)
	return out, err
}

// Conversations

func (c *Client) ListConversations(ctx context.Context, filter ConversationFilter) (ConversationList, error) {
	var out ConversationList
	err := c.get(ctx, "/v1/conversations", filter.Query(), &out)
	return out, err
}

func (c *Client) GetConversation(ctx context.Context, conversationID string) (ConversationDetail, error) {
	var out ConversationDetail
	err := c.get(ctx, "/v1/conversations/"+conversationID, nil, &out)
	return out, err
}

func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (Conversation, error) {
	var out Conversation
	err := c.post(ctx, "/v1/conversations", req, &out)
	return out, err
}

func (c *Client) RenameConversation(ctx context.Context, req RenameConversationRequest) (Conversation, error) {
	var out Conversation
	err := c.patch(ctx, "/v1/conversations/"+req.ConversationID, map[string]string{"title": req.Title}, &out)
	return out, err
}

func (c *Client) SetConversationStarred(ctx context.Context, req SetStarredRequest) (Conversation, error) {
	var out Conversation
	err := c.patch(ctx, "/v1/conversations/"+req.ConversationID, map[string]bool{"starred": req.Starred}, &out)
	return out, err
}

func (c *Client) SetConversationArchived(ctx context.Context, req SetArchivedRequest) (Conversation, error) {
	var out Conversation
	err := c.patch(ctx, "/v1/conversations/"+req.ConversationID, map[string]bool{"archived": req.Archived}, &out)
	return out, err
}

func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.delete(ctx, "/v1/conversations/"+conversationID)
}

func (c *Client) AppendMessage(ctx context.Context, req AppendMessageRequest) (Message, error) {
	var out Message
	err := c.post(ctx, fmt.Sprintf("/v1/conversations/%s/messages", req.ConversationID), req, &out)
	return out, err
}
