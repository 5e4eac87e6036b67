// Package server implements the REST API over the stores. Handlers
// translate between wire types and models; all persistence and
// validation beyond request shape lives in the store layer.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/BuDozKeN/aicouncil/internal/auth"
	"github.com/BuDozKeN/aicouncil/internal/logger"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

// Server carries the stores the handlers use.
type Server struct {
	companies     store.CompanyStore
	content       store.ContentStore
	conversations store.ConversationStore
}

// New creates a server over the given stores.
func New(companies store.CompanyStore, content store.ContentStore, conversations store.ConversationStore) *Server {
	return &Server{
		companies:     companies,
		content:       content,
		conversations: conversations,
	}
}

// Options configures the handler stack.
type Options struct {
	// TokenSecret enables bearer-token authentication when non-empty.
	TokenSecret []byte
	Logger      zerolog.Logger
}

// Handler builds the routed handler with logging and auth middleware.
func (s *Server) Handler(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.Requests(opts.Logger))

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if len(opts.TokenSecret) > 0 {
			r.Use(auth.Middleware(opts.TokenSecret))
		}

		r.Route("/v1/companies", func(r chi.Router) {
			r.Get("/", s.handleListCompanies)
			r.Post("/", s.handleCreateCompany)

			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", s.handleGetCompany)

				r.Get("/departments", s.handleListDepartments)
				r.Post("/departments", s.handleCreateDepartment)
				r.Get("/departments/{departmentID}/roles", s.handleListRoles)
				r.Post("/departments/{departmentID}/roles", s.handleCreateRole)

				r.Get("/members", s.handleListMembers)
				r.Post("/members", s.handleCreateMember)

				r.Get("/playbooks", s.handleListPlaybooks)
				r.Post("/playbooks", s.handleCreatePlaybook)

				r.Get("/projects", s.handleListProjects)
				r.Post("/projects", s.handleCreateProject)
				r.Patch("/projects/{projectID}", s.handleUpdateProjectStatus)

				r.Get("/decisions", s.handleListDecisions)
				r.Post("/decisions", s.handleCreateDecision)

				r.Get("/knowledge", s.handleListKnowledge)
				r.Post("/knowledge", s.handleCreateKnowledge)

				r.Get("/context", s.handleListContextDocs)
				r.Put("/context", s.handlePutContextDoc)
			})
		})

		r.Route("/v1/conversations", func(r chi.Router) {
			r.Get("/", s.handleListConversations)
			r.Post("/", s.handleCreateConversation)

			r.Route("/{conversationID}", func(r chi.Router) {
				r.Get("/", s.handleGetConversation)
				r.Patch("/", s.handleUpdateConversation)
				r.Delete("/", s.handleDeleteConversation)
				r.Post("/messages", s.handleAppendMessage)
			})
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}
