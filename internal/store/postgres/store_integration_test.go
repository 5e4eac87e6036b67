//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{
		ConnString:  connString,
		AutoMigrate: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup
}

func createTestCompany(t *testing.T, ctx context.Context, companies *CompanyStore, name string) uuid.UUID {
	now := time.Now()
	company := &models.Company{
		CompanyID: uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, companies.CreateCompany(ctx, company))
	return company.CompanyID
}

func TestIntegration_CompanyStore(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	companies := NewCompanyStore(pool)

	t.Run("create and get company", func(t *testing.T) {
		companyID := createTestCompany(t, ctx, companies, "Acme")

		company, err := companies.GetCompany(ctx, companyID)
		require.NoError(t, err)
		require.Equal(t, "Acme", company.Name)
	})

	t.Run("duplicate name maps to conflict", func(t *testing.T) {
		createTestCompany(t, ctx, companies, "Duplicate Co")

		err := companies.CreateCompany(ctx, &models.Company{
			CompanyID: uuid.New(),
			Name:      "Duplicate Co",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrCompanyAlreadyExists)
	})

	t.Run("missing company maps to not found", func(t *testing.T) {
		_, err := companies.GetCompany(ctx, uuid.New())
		require.ErrorIs(t, err, store.ErrCompanyNotFound)
	})

	t.Run("department requires company", func(t *testing.T) {
		err := companies.CreateDepartment(ctx, &models.Department{
			DepartmentID: uuid.New(),
			CompanyID:    uuid.New(),
			Name:         "Orphan",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
		require.ErrorIs(t, err, store.ErrCompanyNotFound)
	})

	t.Run("departments and roles", func(t *testing.T) {
		companyID := createTestCompany(t, ctx, companies, "Org Co")

		dept := &models.Department{
			DepartmentID: uuid.New(),
			CompanyID:    companyID,
			Name:         "Engineering",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, companies.CreateDepartment(ctx, dept))

		require.NoError(t, companies.CreateRole(ctx, &models.Role{
			RoleID:       uuid.New(),
			DepartmentID: dept.DepartmentID,
			Title:        "CTO",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}))

		roles, err := companies.ListRoles(ctx, dept.DepartmentID)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		require.Equal(t, "CTO", roles[0].Title)
	})

	t.Run("context doc upsert", func(t *testing.T) {
		companyID := createTestCompany(t, ctx, companies, "Context Co")

		doc := &models.ContextDoc{
			DocID:     uuid.New(),
			CompanyID: companyID,
			Slug:      "mission",
			Content:   "v1",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, companies.UpsertContextDoc(ctx, doc))

		update := &models.ContextDoc{
			DocID:     uuid.New(),
			CompanyID: companyID,
			Slug:      "mission",
			Content:   "v2",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, companies.UpsertContextDoc(ctx, update))

		docs, err := companies.ListContextDocs(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		require.Equal(t, "v2", docs[0].Content)
	})
}

func TestIntegration_ContentStore(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	companies := NewCompanyStore(pool)
	content := NewContentStore(pool)

	companyID := createTestCompany(t, ctx, companies, "Content Co")

	t.Run("project status check constraint", func(t *testing.T) {
		project := &models.Project{
			ProjectID: uuid.New(),
			CompanyID: companyID,
			Name:      "Roadmap",
			Status:    models.ProjectActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, content.CreateProject(ctx, project))

		err := content.UpdateProjectStatus(ctx, project.ProjectID, "paused")
		require.ErrorIs(t, err, store.ErrInvalidStatus)

		require.NoError(t, content.UpdateProjectStatus(ctx, project.ProjectID, models.ProjectCompleted))

		projects, err := content.ListProjects(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.Equal(t, models.ProjectCompleted, projects[0].Status)
	})

	t.Run("playbook department id array round-trips", func(t *testing.T) {
		dept := &models.Department{
			DepartmentID: uuid.New(),
			CompanyID:    companyID,
			Name:         "Design",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, companies.CreateDepartment(ctx, dept))

		pb := &models.Playbook{
			PlaybookID:    uuid.New(),
			CompanyID:     companyID,
			Title:         "Onboarding",
			Content:       "steps",
			DepartmentIDs: []uuid.UUID{dept.DepartmentID},
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		require.NoError(t, content.CreatePlaybook(ctx, pb))

		playbooks, err := content.ListPlaybooks(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, playbooks, 1)
		require.Equal(t, []uuid.UUID{dept.DepartmentID}, playbooks[0].DepartmentIDs)
	})

	t.Run("decision with optional links", func(t *testing.T) {
		require.NoError(t, content.CreateDecision(ctx, &models.Decision{
			DecisionID: uuid.New(),
			CompanyID:  companyID,
			Summary:    "ship it",
			CreatedAt:  time.Now(),
		}))

		decisions, err := content.ListDecisions(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, decisions, 1)
		require.Nil(t, decisions[0].DepartmentID)
		require.Nil(t, decisions[0].ProjectID)
	})
}

func TestIntegration_ConversationStore(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	conversations := NewConversationStore(pool)

	seed := func(title string) uuid.UUID {
		now := time.Now()
		conv := &models.Conversation{
			ConversationID: uuid.New(),
			Title:          title,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		require.NoError(t, conversations.CreateConversation(ctx, conv))
		return conv.ConversationID
	}

	t.Run("lifecycle", func(t *testing.T) {
		conversationID := seed("First")

		require.NoError(t, conversations.RenameConversation(ctx, conversationID, "Renamed"))
		require.NoError(t, conversations.SetStarred(ctx, conversationID, true))
		require.NoError(t, conversations.SetArchived(ctx, conversationID, true))

		detail, err := conversations.GetConversation(ctx, conversationID)
		require.NoError(t, err)
		require.Equal(t, "Renamed", detail.Title)
		require.True(t, detail.Starred)
		require.True(t, detail.Archived)

		require.NoError(t, conversations.DeleteConversation(ctx, conversationID))
		_, err = conversations.GetConversation(ctx, conversationID)
		require.ErrorIs(t, err, store.ErrConversationNotFound)
	})

	t.Run("list with search and pagination", func(t *testing.T) {
		for i := 0; i < 25; i++ {
			seed(fmt.Sprintf("Paged Conversation %02d", i))
			time.Sleep(2 * time.Millisecond) // distinct updated_at for stable ordering
		}
		seed("Needle In Haystack")

		page, err := conversations.ListConversations(ctx, store.ConversationListFilter{Search: "needle"})
		require.NoError(t, err)
		require.Len(t, page.Conversations, 1)
		require.Equal(t, "Needle In Haystack", page.Conversations[0].Title)

		page, err = conversations.ListConversations(ctx, store.ConversationListFilter{Search: "Paged", Limit: 20})
		require.NoError(t, err)
		require.Len(t, page.Conversations, 20)
		require.True(t, page.HasMore)

		page, err = conversations.ListConversations(ctx, store.ConversationListFilter{Search: "Paged", Limit: 20, Offset: 20})
		require.NoError(t, err)
		require.Len(t, page.Conversations, 5)
		require.False(t, page.HasMore)
	})

	t.Run("append message bumps updated_at", func(t *testing.T) {
		conversationID := seed("Chat")

		before, err := conversations.GetConversation(ctx, conversationID)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		require.NoError(t, conversations.AppendMessage(ctx, &models.Message{
			MessageID:      uuid.New(),
			ConversationID: conversationID,
			Author:         "user",
			Content:        "hello",
			CreatedAt:      time.Now(),
		}))

		detail, err := conversations.GetConversation(ctx, conversationID)
		require.NoError(t, err)
		require.Len(t, detail.Messages, 1)
		require.True(t, detail.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("message requires conversation", func(t *testing.T) {
		err := conversations.AppendMessage(ctx, &models.Message{
			MessageID:      uuid.New(),
			ConversationID: uuid.New(),
			Author:         "user",
			Content:        "orphan",
			CreatedAt:      time.Now(),
		})
		require.ErrorIs(t, err, store.ErrConversationNotFound)
	})
}
