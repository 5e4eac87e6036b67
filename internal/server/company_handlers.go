package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/api"
	"github.com/BuDozKeN/aicouncil/internal/models"
)

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.ListCompanies(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Company, 0, len(companies))
	for _, c := range companies {
		out = append(out, wireCompany(c))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"companies": out})
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCompanyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	now := time.Now()
	company := &models.Company{
		CompanyID: uuid.New(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.CreateCompany(r.Context(), company); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireCompany(company))
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	company, err := s.companies.GetCompany(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wireCompany(company))
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	depts, err := s.companies.ListDepartments(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Department, 0, len(depts))
	for _, d := range depts {
		out = append(out, wireDepartment(d))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"departments": out})
}

func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreateDepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	now := time.Now()
	dept := &models.Department{
		DepartmentID: uuid.New(),
		CompanyID:    companyID,
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.companies.CreateDepartment(r.Context(), dept); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireDepartment(dept))
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, chi.URLParam(r, "companyID")); !ok {
		return
	}
	departmentID, ok := pathUUID(w, r, chi.URLParam(r, "departmentID"))
	if !ok {
		return
	}

	roles, err := s.companies.ListRoles(r.Context(), departmentID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, wireRole(role))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"roles": out})
}

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, chi.URLParam(r, "companyID")); !ok {
		return
	}
	departmentID, ok := pathUUID(w, r, chi.URLParam(r, "departmentID"))
	if !ok {
		return
	}

	var req api.CreateRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	now := time.Now()
	role := &models.Role{
		RoleID:       uuid.New(),
		DepartmentID: departmentID,
		Title:        req.Title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.companies.CreateRole(r.Context(), role); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireRole(role))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	members, err := s.companies.ListMembers(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Member, 0, len(members))
	for _, m := range members {
		out = append(out, wireMember(m))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"members": out})
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreateMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Role == "" {
		req.Role = "member"
	}

	member := &models.Member{
		MemberID:  uuid.New(),
		CompanyID: companyID,
		Email:     req.Email,
		Role:      req.Role,
		CreatedAt: time.Now(),
	}
	if err := s.companies.CreateMember(r.Context(), member); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireMember(member))
}

func (s *Server) handleListPlaybooks(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	playbooks, err := s.content.ListPlaybooks(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Playbook, 0, len(playbooks))
	for _, pb := range playbooks {
		out = append(out, wirePlaybook(pb))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"playbooks": out})
}

func (s *Server) handleCreatePlaybook(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreatePlaybookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	now := time.Now()
	pb := &models.Playbook{
		PlaybookID: uuid.New(),
		CompanyID:  companyID,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, raw := range req.DepartmentIDs {
		deptID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid department id %q", raw)
			return
		}
		pb.DepartmentIDs = append(pb.DepartmentIDs, deptID)
	}

	if err := s.content.CreatePlaybook(r.Context(), pb); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wirePlaybook(pb))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	projects, err := s.content.ListProjects(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, wireProject(p))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	now := time.Now()
	project := &models.Project{
		ProjectID: uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		Status:    models.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreateProject(r.Context(), project); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireProject(project))
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	var req api.UpdateProjectStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status := models.ProjectStatus(req.Status)
	if err := s.content.UpdateProjectStatus(r.Context(), projectID, status); err != nil {
		writeStoreError(w, r, err)
		return
	}

	projects, err := s.content.ListProjects(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	for _, p := range projects {
		if p.ProjectID == projectID {
			writeJSON(w, r, http.StatusOK, wireProject(p))
			return
		}
	}
	writeError(w, r, http.StatusNotFound, "not_found", "project not found")
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	decisions, err := s.content.ListDecisions(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Decision, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, wireDecision(d))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"decisions": out})
}

func (s *Server) handleCreateDecision(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreateDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Summary == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "summary is required")
		return
	}

	decision := &models.Decision{
		DecisionID: uuid.New(),
		CompanyID:  companyID,
		Summary:    req.Summary,
		CreatedAt:  time.Now(),
	}

	var err error
	if decision.DepartmentID, err = optionalUUID(req.DepartmentID); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid department id")
		return
	}
	if decision.ProjectID, err = optionalUUID(req.ProjectID); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid project id")
		return
	}
	if decision.SourceConversationID, err = optionalUUID(req.SourceConversationID); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid conversation id")
		return
	}

	if err := s.content.CreateDecision(r.Context(), decision); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireDecision(decision))
}

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	items, err := s.content.ListKnowledge(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.Knowledge, 0, len(items))
	for _, k := range items {
		out = append(out, wireKnowledge(k))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"knowledge": out})
}

func (s *Server) handleCreateKnowledge(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.CreateKnowledgeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" && req.Content == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "title or content is required")
		return
	}

	k := &models.Knowledge{
		KnowledgeID: uuid.New(),
		CompanyID:   companyID,
		Title:       req.Title,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}
	if err := s.content.CreateKnowledge(r.Context(), k); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireKnowledge(k))
}

func (s *Server) handleListContextDocs(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	docs, err := s.companies.ListContextDocs(r.Context(), companyID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]api.ContextDoc, 0, len(docs))
	for _, doc := range docs {
		out = append(out, wireContextDoc(doc))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"docs": out})
}

func (s *Server) handlePutContextDoc(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathUUID(w, r, chi.URLParam(r, "companyID"))
	if !ok {
		return
	}

	var req api.PutContextDocRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Slug == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "slug is required")
		return
	}

	now := time.Now()
	doc := &models.ContextDoc{
		DocID:     uuid.New(),
		CompanyID: companyID,
		Slug:      req.Slug,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.UpsertContextDoc(r.Context(), doc); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wireContextDoc(doc))
}
