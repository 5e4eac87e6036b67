package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

// CompanyStore implements store.CompanyStore and store.ContentStore
// using in-memory storage. This implementation is for testing only -
// data is lost on restart.
type CompanyStore struct {
	mu sync.RWMutex

	companies   map[uuid.UUID]*models.Company
	departments map[uuid.UUID]*models.Department
	roles       map[uuid.UUID]*models.Role
	members     map[uuid.UUID]*models.Member
	contextDocs map[uuid.UUID]*models.ContextDoc
	playbooks   map[uuid.UUID]*models.Playbook
	projects    map[uuid.UUID]*models.Project
	decisions   map[uuid.UUID]*models.Decision
	knowledge   map[uuid.UUID]*models.Knowledge
}

// NewCompanyStore creates a new in-memory company store.
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{
		companies:   make(map[uuid.UUID]*models.Company),
		departments: make(map[uuid.UUID]*models.Department),
		roles:       make(map[uuid.UUID]*models.Role),
		members:     make(map[uuid.UUID]*models.Member),
		contextDocs: make(map[uuid.UUID]*models.ContextDoc),
		playbooks:   make(map[uuid.UUID]*models.Playbook),
		projects:    make(map[uuid.UUID]*models.Project),
		decisions:   make(map[uuid.UUID]*models.Decision),
		knowledge:   make(map[uuid.UUID]*models.Knowledge),
	}
}

func (s *CompanyStore) CreateCompany(ctx context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.companies {
		if existing.Name == company.Name {
			return store.ErrCompanyAlreadyExists
		}
	}

	clone := *company
	s.companies[company.CompanyID] = &clone
	return nil
}

func (s *CompanyStore) GetCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, exists := s.companies[companyID]
	if !exists {
		return nil, store.ErrCompanyNotFound
	}
	clone := *company
	return &clone, nil
}

func (s *CompanyStore) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companies := make([]*models.Company, 0, len(s.companies))
	for _, company := range s.companies {
		clone := *company
		companies = append(companies, &clone)
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].CreatedAt.Before(companies[j].CreatedAt)
	})
	return companies, nil
}

func (s *CompanyStore) CreateDepartment(ctx context.Context, dept *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[dept.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	clone := *dept
	s.departments[dept.DepartmentID] = &clone
	return nil
}

func (s *CompanyStore) ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	depts := make([]*models.Department, 0)
	for _, dept := range s.departments {
		if dept.CompanyID == companyID {
			clone := *dept
			depts = append(depts, &clone)
		}
	}
	sort.Slice(depts, func(i, j int) bool {
		return depts[i].CreatedAt.Before(depts[j].CreatedAt)
	})
	return depts, nil
}

func (s *CompanyStore) CreateRole(ctx context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.departments[role.DepartmentID]; !exists {
		return store.ErrDepartmentNotFound
	}
	clone := *role
	s.roles[role.RoleID] = &clone
	return nil
}

func (s *CompanyStore) ListRoles(ctx context.Context, departmentID uuid.UUID) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]*models.Role, 0)
	for _, role := range s.roles {
		if role.DepartmentID == departmentID {
			clone := *role
			roles = append(roles, &clone)
		}
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].CreatedAt.Before(roles[j].CreatedAt)
	})
	return roles, nil
}

func (s *CompanyStore) CreateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[member.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	clone := *member
	s.members[member.MemberID] = &clone
	return nil
}

func (s *CompanyStore) ListMembers(ctx context.Context, companyID uuid.UUID) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]*models.Member, 0)
	for _, member := range s.members {
		if member.CompanyID == companyID {
			clone := *member
			members = append(members, &clone)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

func (s *CompanyStore) UpsertContextDoc(ctx context.Context, doc *models.ContextDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[doc.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}

	for _, existing := range s.contextDocs {
		if existing.CompanyID == doc.CompanyID && existing.Slug == doc.Slug {
			existing.Content = doc.Content
			existing.UpdatedAt = time.Now()
			doc.DocID = existing.DocID
			return nil
		}
	}

	clone := *doc
	s.contextDocs[doc.DocID] = &clone
	return nil
}

func (s *CompanyStore) GetContextDoc(ctx context.Context, companyID uuid.UUID, slug string) (*models.ContextDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.contextDocs {
		if doc.CompanyID == companyID && doc.Slug == slug {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, store.ErrContextDocNotFound
}

func (s *CompanyStore) ListContextDocs(ctx context.Context, companyID uuid.UUID) ([]*models.ContextDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*models.ContextDoc, 0)
	for _, doc := range s.contextDocs {
		if doc.CompanyID == companyID {
			clone := *doc
			docs = append(docs, &clone)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Slug < docs[j].Slug
	})
	return docs, nil
}

func (s *CompanyStore) CreatePlaybook(ctx context.Context, pb *models.Playbook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[pb.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	// department_ids must reference existing departments
	for _, deptID := range pb.DepartmentIDs {
		if _, exists := s.departments[deptID]; !exists {
			return store.ErrDepartmentNotFound
		}
	}
	clone := *pb
	clone.DepartmentIDs = append([]uuid.UUID(nil), pb.DepartmentIDs...)
	s.playbooks[pb.PlaybookID] = &clone
	return nil
}

func (s *CompanyStore) ListPlaybooks(ctx context.Context, companyID uuid.UUID) ([]*models.Playbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playbooks := make([]*models.Playbook, 0)
	for _, pb := range s.playbooks {
		if pb.CompanyID == companyID {
			clone := *pb
			clone.DepartmentIDs = append([]uuid.UUID(nil), pb.DepartmentIDs...)
			playbooks = append(playbooks, &clone)
		}
	}
	sort.Slice(playbooks, func(i, j int) bool {
		return playbooks[i].CreatedAt.Before(playbooks[j].CreatedAt)
	})
	return playbooks, nil
}

func (s *CompanyStore) CreateProject(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[p.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	if !p.Status.Valid() {
		return store.ErrInvalidStatus
	}
	clone := *p
	s.projects[p.ProjectID] = &clone
	return nil
}

func (s *CompanyStore) ListProjects(ctx context.Context, companyID uuid.UUID) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]*models.Project, 0)
	for _, p := range s.projects {
		if p.CompanyID == companyID {
			clone := *p
			projects = append(projects, &clone)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *CompanyStore) UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, status models.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return store.ErrInvalidStatus
	}
	p, exists := s.projects[projectID]
	if !exists {
		return store.ErrProjectNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func (s *CompanyStore) CreateDecision(ctx context.Context, d *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[d.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	clone := *d
	s.decisions[d.DecisionID] = &clone
	return nil
}

func (s *CompanyStore) ListDecisions(ctx context.Context, companyID uuid.UUID) ([]*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decisions := make([]*models.Decision, 0)
	for _, d := range s.decisions {
		if d.CompanyID == companyID {
			clone := *d
			decisions = append(decisions, &clone)
		}
	}
	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].CreatedAt.Before(decisions[j].CreatedAt)
	})
	return decisions, nil
}

func (s *CompanyStore) CreateKnowledge(ctx context.Context, k *models.Knowledge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[k.CompanyID]; !exists {
		return store.ErrCompanyNotFound
	}
	clone := *k
	s.knowledge[k.KnowledgeID] = &clone
	return nil
}

func (s *CompanyStore) ListKnowledge(ctx context.Context, companyID uuid.UUID) ([]*models.Knowledge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.Knowledge, 0)
	for _, k := range s.knowledge {
		if k.CompanyID == companyID {
			clone := *k
			items = append(items, &clone)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}
