package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

// ContentStore implements store.ContentStore using PostgreSQL.
type ContentStore struct {
	pool *pgxpool.Pool
}

// NewContentStore creates a new PostgreSQL-backed content store.
func NewContentStore(pool *pgxpool.Pool) *ContentStore {
	return &ContentStore{
		pool: pool,
	}
}

// CreatePlaybook creates a playbook. department_ids is stored as a
// UUID array; referenced departments must exist.
func (s *ContentStore) CreatePlaybook(ctx context.Context, pb *models.Playbook) error {
	// The array column has no FK, so verify the references up front.
	for _, deptID := range pb.DepartmentIDs {
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM departments WHERE department_id = $1 AND company_id = $2)`,
			deptID, pb.CompanyID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check department: %w", err)
		}
		if !exists {
			return store.ErrDepartmentNotFound
		}
	}

	query := `
		INSERT INTO playbooks (
			playbook_id, company_id, title, content, department_ids, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		pb.PlaybookID,
		pb.CompanyID,
		pb.Title,
		pb.Content,
		pb.DepartmentIDs,
		pb.CreatedAt,
		pb.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListPlaybooks returns a company's playbooks, oldest first.
func (s *ContentStore) ListPlaybooks(ctx context.Context, companyID uuid.UUID) ([]*models.Playbook, error) {
	query := `
		SELECT playbook_id, company_id, title, content, department_ids, created_at, updated_at
		FROM playbooks
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playbooks: %w", err)
	}
	defer rows.Close()

	playbooks := make([]*models.Playbook, 0)
	for rows.Next() {
		var pb models.Playbook
		err := rows.Scan(
			&pb.PlaybookID,
			&pb.CompanyID,
			&pb.Title,
			&pb.Content,
			&pb.DepartmentIDs,
			&pb.CreatedAt,
			&pb.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playbook: %w", err)
		}
		playbooks = append(playbooks, &pb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playbooks: %w", err)
	}

	return playbooks, nil
}

// CreateProject creates a project. Status defaults to active when
// unset; an unknown status is rejected before touching the database.
func (s *ContentStore) CreateProject(ctx context.Context, p *models.Project) error {
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if !p.Status.Valid() {
		return store.ErrInvalidStatus
	}

	query := `
		INSERT INTO projects (
			project_id, company_id, name, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ProjectID,
		p.CompanyID,
		p.Name,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListProjects returns a company's projects, oldest first.
func (s *ContentStore) ListProjects(ctx context.Context, companyID uuid.UUID) ([]*models.Project, error) {
	query := `
		SELECT project_id, company_id, name, status, created_at, updated_at
		FROM projects
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		var p models.Project
		var status string
		err := rows.Scan(
			&p.ProjectID,
			&p.CompanyID,
			&p.Name,
			&status,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Status = models.ProjectStatus(status)
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// UpdateProjectStatus moves a project to a new status. The check
// constraint on the status column backs up the validation here.
func (s *ContentStore) UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, status models.ProjectStatus) error {
	if !status.Valid() {
		return store.ErrInvalidStatus
	}

	query := `
		UPDATE projects SET
			status = $2,
			updated_at = $3
		WHERE project_id = $1
	`

	result, err := s.pool.Exec(ctx, query, projectID, string(status), time.Now())
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrProjectNotFound
	}

	log.Debug().
		Str("project_id", projectID.String()).
		Str("status", string(status)).
		Msg("Updated project status")

	return nil
}

// CreateDecision records a decision.
func (s *ContentStore) CreateDecision(ctx context.Context, d *models.Decision) error {
	query := `
		INSERT INTO decisions (
			decision_id, company_id, summary, department_id, project_id,
			source_conversation_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		d.DecisionID,
		d.CompanyID,
		d.Summary,
		d.DepartmentID,
		d.ProjectID,
		d.SourceConversationID,
		d.CreatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListDecisions returns a company's decisions, oldest first.
func (s *ContentStore) ListDecisions(ctx context.Context, companyID uuid.UUID) ([]*models.Decision, error) {
	query := `
		SELECT decision_id, company_id, summary, department_id, project_id,
		       source_conversation_id, created_at
		FROM decisions
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	decisions := make([]*models.Decision, 0)
	for rows.Next() {
		var d models.Decision
		err := rows.Scan(
			&d.DecisionID,
			&d.CompanyID,
			&d.Summary,
			&d.DepartmentID,
			&d.ProjectID,
			&d.SourceConversationID,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decisions: %w", err)
	}

	return decisions, nil
}

// CreateKnowledge saves a knowledge snippet.
func (s *ContentStore) CreateKnowledge(ctx context.Context, k *models.Knowledge) error {
	query := `
		INSERT INTO knowledge (
			knowledge_id, company_id, title, content, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		k.KnowledgeID,
		k.CompanyID,
		k.Title,
		k.Content,
		k.CreatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListKnowledge returns a company's knowledge snippets, oldest first.
func (s *ContentStore) ListKnowledge(ctx context.Context, companyID uuid.UUID) ([]*models.Knowledge, error) {
	query := `
		SELECT knowledge_id, company_id, title, content, created_at
		FROM knowledge
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Knowledge, 0)
	for rows.Next() {
		var k models.Knowledge
		err := rows.Scan(
			&k.KnowledgeID,
			&k.CompanyID,
			&k.Title,
			&k.Content,
			&k.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge: %w", err)
		}
		items = append(items, &k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge: %w", err)
	}

	return items, nil
}
