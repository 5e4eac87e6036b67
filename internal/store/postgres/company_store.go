package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

// CompanyStore implements store.CompanyStore using PostgreSQL.
type CompanyStore struct {
	pool *pgxpool.Pool
}

// NewCompanyStore creates a new PostgreSQL-backed company store.
// It shares the connection pool with other stores.
func NewCompanyStore(pool *pgxpool.Pool) *CompanyStore {
	return &CompanyStore{
		pool: pool,
	}
}

// CreateCompany creates a new company in the database.
func (s *CompanyStore) CreateCompany(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (
			company_id, name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := s.pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.CreatedAt,
		company.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("company_id", company.CompanyID.String()).
		Str("name", company.Name).
		Msg("Created company")

	return nil
}

// GetCompany retrieves a company by ID.
func (s *CompanyStore) GetCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	query := `
		SELECT company_id, name, created_at, updated_at
		FROM companies
		WHERE company_id = $1
	`

	var company models.Company
	err := s.pool.QueryRow(ctx, query, companyID).Scan(
		&company.CompanyID,
		&company.Name,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// ListCompanies returns all companies, oldest first.
func (s *CompanyStore) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	query := `
		SELECT company_id, name, created_at, updated_at
		FROM companies
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		var company models.Company
		err := rows.Scan(
			&company.CompanyID,
			&company.Name,
			&company.CreatedAt,
			&company.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, &company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}

// CreateDepartment creates a department within a company.
func (s *CompanyStore) CreateDepartment(ctx context.Context, dept *models.Department) error {
	query := `
		INSERT INTO departments (
			department_id, company_id, name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		dept.DepartmentID,
		dept.CompanyID,
		dept.Name,
		dept.CreatedAt,
		dept.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("department_id", dept.DepartmentID.String()).
		Str("company_id", dept.CompanyID.String()).
		Msg("Created department")

	return nil
}

// ListDepartments returns a company's departments, oldest first.
func (s *CompanyStore) ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*models.Department, error) {
	query := `
		SELECT department_id, company_id, name, created_at, updated_at
		FROM departments
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	depts := make([]*models.Department, 0)
	for rows.Next() {
		var dept models.Department
		err := rows.Scan(
			&dept.DepartmentID,
			&dept.CompanyID,
			&dept.Name,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		depts = append(depts, &dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	return depts, nil
}

// CreateRole creates a role within a department.
func (s *CompanyStore) CreateRole(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (
			role_id, department_id, title, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		role.RoleID,
		role.DepartmentID,
		role.Title,
		role.CreatedAt,
		role.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListRoles returns a department's roles, oldest first.
func (s *CompanyStore) ListRoles(ctx context.Context, departmentID uuid.UUID) ([]*models.Role, error) {
	query := `
		SELECT role_id, department_id, title, created_at, updated_at
		FROM roles
		WHERE department_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]*models.Role, 0)
	for rows.Next() {
		var role models.Role
		err := rows.Scan(
			&role.RoleID,
			&role.DepartmentID,
			&role.Title,
			&role.CreatedAt,
			&role.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

// CreateMember adds a member to a company.
func (s *CompanyStore) CreateMember(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (
			member_id, company_id, email, role, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		member.MemberID,
		member.CompanyID,
		member.Email,
		member.Role,
		member.CreatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// ListMembers returns a company's members, oldest first.
func (s *CompanyStore) ListMembers(ctx context.Context, companyID uuid.UUID) ([]*models.Member, error) {
	query := `
		SELECT member_id, company_id, email, role, created_at
		FROM members
		WHERE company_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.Member, 0)
	for rows.Next() {
		var member models.Member
		err := rows.Scan(
			&member.MemberID,
			&member.CompanyID,
			&member.Email,
			&member.Role,
			&member.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// UpsertContextDoc creates or replaces the context document at
// (company, slug). The document body is opaque markdown.
func (s *CompanyStore) UpsertContextDoc(ctx context.Context, doc *models.ContextDoc) error {
	query := `
		INSERT INTO context_docs (
			doc_id, company_id, slug, content, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (company_id, slug) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = $7
		RETURNING doc_id
	`

	now := time.Now()
	err := s.pool.QueryRow(ctx, query,
		doc.DocID,
		doc.CompanyID,
		doc.Slug,
		doc.Content,
		doc.CreatedAt,
		doc.UpdatedAt,
		now,
	).Scan(&doc.DocID)

	if err != nil {
		return mapPostgresError(err)
	}

	return nil
}

// GetContextDoc retrieves one context document by slug.
func (s *CompanyStore) GetContextDoc(ctx context.Context, companyID uuid.UUID, slug string) (*models.ContextDoc, error) {
	query := `
		SELECT doc_id, company_id, slug, content, created_at, updated_at
		FROM context_docs
		WHERE company_id = $1 AND slug = $2
	`

	var doc models.ContextDoc
	err := s.pool.QueryRow(ctx, query, companyID, slug).Scan(
		&doc.DocID,
		&doc.CompanyID,
		&doc.Slug,
		&doc.Content,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrContextDocNotFound
		}
		return nil, fmt.Errorf("failed to get context doc: %w", err)
	}

	return &doc, nil
}

// ListContextDocs returns a company's context documents ordered by slug.
func (s *CompanyStore) ListContextDocs(ctx context.Context, companyID uuid.UUID) ([]*models.ContextDoc, error) {
	query := `
		SELECT doc_id, company_id, slug, content, created_at, updated_at
		FROM context_docs
		WHERE company_id = $1
		ORDER BY slug
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list context docs: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.ContextDoc, 0)
	for rows.Next() {
		var doc models.ContextDoc
		err := rows.Scan(
			&doc.DocID,
			&doc.CompanyID,
			&doc.Slug,
			&doc.Content,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan context doc: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating context docs: %w", err)
	}

	return docs, nil
}
