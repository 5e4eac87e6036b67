package api

import (
	"context"

	"github.com/BuDozKeN/aicouncil/internal/query"
	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// DataLayer binds the REST client to a query cache and exposes the
// typed read and write operations the UI consumes. Each read is a
// Query under a registry key; each write is a Mutation that names the
// key prefixes it makes stale. The invalidation lists lean broad:
// refetching an extra list beats rendering a stale one.
type DataLayer struct {
	client *Client
	cache  *querycache.Cache
}

// NewDataLayer creates a data layer over an existing client and cache.
// The caller owns the cache lifecycle (close it on logout).
func NewDataLayer(client *Client, cache *querycache.Cache) *DataLayer {
	return &DataLayer{client: client, cache: cache}
}

// Cache exposes the underlying cache, mainly for teardown.
func (d *DataLayer) Cache() *querycache.Cache {
	return d.cache
}

// Reads

func (d *DataLayer) Companies() *query.Query[[]Company] {
	return query.New(d.cache, querycache.CompaniesKey(), func(ctx context.Context) ([]Company, error) {
		return d.client.ListCompanies(ctx)
	})
}

func (d *DataLayer) Departments(companyID string) *query.Query[[]Department] {
	return query.New(d.cache, querycache.CompanyDepartmentsKey(companyID), func(ctx context.Context) ([]Department, error) {
		return d.client.ListDepartments(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Roles(companyID, departmentID string) *query.Query[[]Role] {
	return query.New(d.cache, querycache.CompanyRolesKey(companyID, departmentID), func(ctx context.Context) ([]Role, error) {
		return d.client.ListRoles(ctx, companyID, departmentID)
	}).RequireScope(companyID, departmentID)
}

func (d *DataLayer) Members(companyID string) *query.Query[[]Member] {
	return query.New(d.cache, querycache.CompanyMembersKey(companyID), func(ctx context.Context) ([]Member, error) {
		return d.client.ListMembers(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Playbooks(companyID string) *query.Query[[]Playbook] {
	return query.New(d.cache, querycache.CompanyPlaybooksKey(companyID), func(ctx context.Context) ([]Playbook, error) {
		return d.client.ListPlaybooks(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Projects(companyID string) *query.Query[[]Project] {
	return query.New(d.cache, querycache.CompanyProjectsKey(companyID), func(ctx context.Context) ([]Project, error) {
		return d.client.ListProjects(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Decisions(companyID string) *query.Query[[]Decision] {
	return query.New(d.cache, querycache.CompanyDecisionsKey(companyID), func(ctx context.Context) ([]Decision, error) {
		return d.client.ListDecisions(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Knowledge(companyID string) *query.Query[[]Knowledge] {
	return query.New(d.cache, querycache.CompanyKnowledgeKey(companyID), func(ctx context.Context) ([]Knowledge, error) {
		return d.client.ListKnowledge(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) ContextDocs(companyID string) *query.Query[[]ContextDoc] {
	return query.New(d.cache, querycache.CompanyContextKey(companyID), func(ctx context.Context) ([]ContextDoc, error) {
		return d.client.ListContextDocs(ctx, companyID)
	}).RequireScope(companyID)
}

func (d *DataLayer) Conversations(filter ConversationFilter) *query.Query[ConversationList] {
	// Offsets belong to ConversationPages; the plain listing is always
	// the first page of its filter, and its cache key carries no offset.
	filter.Offset = 0
	return query.New(d.cache, querycache.ConversationListKey(filter.CacheFilter()), func(ctx context.Context) (ConversationList, error) {
		return d.client.ListConversations(ctx, filter)
	})
}

// ConversationPages is the incremental-loading variant of the
// conversation listing. It shares the invalidation prefix with
// Conversations but keeps its own cache entries.
func (d *DataLayer) ConversationPages(filter ConversationFilter, pageSize int) *query.InfiniteQuery[Conversation] {
	key := querycache.ConversationPagesKey(filter.CacheFilter())
	return query.NewInfinite(d.cache, key, pageSize, func(ctx context.Context, limit, offset int) (query.Page[Conversation], error) {
		paged := filter
		paged.Limit = limit
		paged.Offset = offset
		list, err := d.client.ListConversations(ctx, paged)
		if err != nil {
			return query.Page[Conversation]{}, err
		}
		return query.Page[Conversation]{Items: list.Conversations, HasMore: list.HasMore}, nil
	})
}

// Conversation is disabled for an empty id: a detail view with nothing
// selected must not fetch.
func (d *DataLayer) Conversation(conversationID string) *query.Query[ConversationDetail] {
	return query.New(d.cache, querycache.ConversationKey(conversationID), func(ctx context.Context) (ConversationDetail, error) {
		return d.client.GetConversation(ctx, conversationID)
	}).RequireScope(conversationID)
}

// Mutations

func (d *DataLayer) CreateCompany() *query.Mutation[CreateCompanyRequest, Company] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateCompanyRequest) (Company, error) {
			return d.client.CreateCompany(ctx, req)
		},
		func(req CreateCompanyRequest, out Company) []querycache.Key {
			return []querycache.Key{querycache.CompaniesKey()}
		})
}

func (d *DataLayer) CreateDepartment() *query.Mutation[CreateDepartmentRequest, Department] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateDepartmentRequest) (Department, error) {
			return d.client.CreateDepartment(ctx, req)
		},
		func(req CreateDepartmentRequest, out Department) []querycache.Key {
			return []querycache.Key{querycache.CompanyDepartmentsKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreateRole() *query.Mutation[CreateRoleRequest, Role] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateRoleRequest) (Role, error) {
			return d.client.CreateRole(ctx, req)
		},
		func(req CreateRoleRequest, out Role) []querycache.Key {
			// Role lists live under the departments prefix, so this
			// one invalidation reaches them all.
			return []querycache.Key{querycache.CompanyDepartmentsKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreateMember() *query.Mutation[CreateMemberRequest, Member] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateMemberRequest) (Member, error) {
			return d.client.CreateMember(ctx, req)
		},
		func(req CreateMemberRequest, out Member) []querycache.Key {
			return []querycache.Key{querycache.CompanyMembersKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreatePlaybook() *query.Mutation[CreatePlaybookRequest, Playbook] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreatePlaybookRequest) (Playbook, error) {
			return d.client.CreatePlaybook(ctx, req)
		},
		func(req CreatePlaybookRequest, out Playbook) []querycache.Key {
			return []querycache.Key{querycache.CompanyPlaybooksKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreateProject() *query.Mutation[CreateProjectRequest, Project] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateProjectRequest) (Project, error) {
			return d.client.CreateProject(ctx, req)
		},
		func(req CreateProjectRequest, out Project) []querycache.Key {
			return []querycache.Key{querycache.CompanyProjectsKey(req.CompanyID)}
		})
}

func (d *DataLayer) UpdateProjectStatus() *query.Mutation[UpdateProjectStatusRequest, Project] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req UpdateProjectStatusRequest) (Project, error) {
			return d.client.UpdateProjectStatus(ctx, req)
		},
		func(req UpdateProjectStatusRequest, out Project) []querycache.Key {
			return []querycache.Key{querycache.CompanyProjectsKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreateDecision() *query.Mutation[CreateDecisionRequest, Decision] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateDecisionRequest) (Decision, error) {
			return d.client.CreateDecision(ctx, req)
		},
		func(req CreateDecisionRequest, out Decision) []querycache.Key {
			return []querycache.Key{querycache.CompanyDecisionsKey(req.CompanyID)}
		})
}

func (d *DataLayer) SaveKnowledge() *query.Mutation[CreateKnowledgeRequest, Knowledge] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateKnowledgeRequest) (Knowledge, error) {
			return d.client.CreateKnowledge(ctx, req)
		},
		func(req CreateKnowledgeRequest, out Knowledge) []querycache.Key {
			return []querycache.Key{querycache.CompanyKnowledgeKey(req.CompanyID)}
		})
}

func (d *DataLayer) PutContextDoc() *query.Mutation[PutContextDocRequest, ContextDoc] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req PutContextDocRequest) (ContextDoc, error) {
			return d.client.PutContextDoc(ctx, req)
		},
		func(req PutContextDocRequest, out ContextDoc) []querycache.Key {
			return []querycache.Key{querycache.CompanyContextKey(req.CompanyID)}
		})
}

func (d *DataLayer) CreateConversation() *query.Mutation[CreateConversationRequest, Conversation] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req CreateConversationRequest) (Conversation, error) {
			return d.client.CreateConversation(ctx, req)
		},
		func(req CreateConversationRequest, out Conversation) []querycache.Key {
			return []querycache.Key{querycache.ConversationsKey()}
		})
}

// RenameConversation invalidates both the conversation's detail entry
// and every listing: titles show up in both places.
func (d *DataLayer) RenameConversation() *query.Mutation[RenameConversationRequest, Conversation] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req RenameConversationRequest) (Conversation, error) {
			return d.client.RenameConversation(ctx, req)
		},
		func(req RenameConversationRequest, out Conversation) []querycache.Key {
			return []querycache.Key{
				querycache.ConversationKey(req.ConversationID),
				querycache.Key{"conversations", "list"},
			}
		})
}

func (d *DataLayer) StarConversation() *query.Mutation[SetStarredRequest, Conversation] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req SetStarredRequest) (Conversation, error) {
			return d.client.SetConversationStarred(ctx, req)
		},
		func(req SetStarredRequest, out Conversation) []querycache.Key {
			return []querycache.Key{
				querycache.ConversationKey(req.ConversationID),
				querycache.Key{"conversations", "list"},
			}
		})
}

func (d *DataLayer) ArchiveConversation() *query.Mutation[SetArchivedRequest, Conversation] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req SetArchivedRequest) (Conversation, error) {
			return d.client.SetConversationArchived(ctx, req)
		},
		func(req SetArchivedRequest, out Conversation) []querycache.Key {
			return []querycache.Key{
				querycache.ConversationKey(req.ConversationID),
				querycache.Key{"conversations", "list"},
			}
		})
}

// DeleteConversation invalidates the whole conversation hierarchy: the
// detail entry is gone and every listing may have contained it.
func (d *DataLayer) DeleteConversation() *query.Mutation[string, struct{}] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, conversationID string) (struct{}, error) {
			return struct{}{}, d.client.DeleteConversation(ctx, conversationID)
		},
		func(conversationID string, out struct{}) []querycache.Key {
			return []querycache.Key{querycache.ConversationsKey()}
		})
}

func (d *DataLayer) SendMessage() *query.Mutation[AppendMessageRequest, Message] {
	return query.NewMutation(d.cache,
		func(ctx context.Context, req AppendMessageRequest) (Message, error) {
			return d.client.AppendMessage(ctx, req)
		},
		func(req AppendMessageRequest, out Message) []querycache.Key {
			return []querycache.Key{
				querycache.ConversationKey(req.ConversationID),
				querycache.Key{"conversations", "list"},
			}
		})
}
