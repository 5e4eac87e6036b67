package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/api"
	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	filter := store.ConversationListFilter{
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sort_by"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid limit %q", raw)
			return
		}
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid offset %q", raw)
			return
		}
		filter.Offset = offset
	}
	if r.URL.Query().Get("include_archived") == "true" {
		filter.IncludeArchived = true
	}
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid company id %q", raw)
			return
		}
		filter.CompanyID = &companyID
	}

	page, err := s.conversations.ListConversations(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := api.ConversationList{
		Conversations: make([]api.Conversation, 0, len(page.Conversations)),
		HasMore:       page.HasMore,
	}
	for _, conv := range page.Conversations {
		out.Conversations = append(out.Conversations, wireConversation(conv))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req api.CreateConversationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	companyID, err := optionalUUID(req.CompanyID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid company id")
		return
	}

	now := time.Now()
	conv := &models.Conversation{
		ConversationID: uuid.New(),
		CompanyID:      companyID,
		Title:          req.Title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.conversations.CreateConversation(r.Context(), conv); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireConversation(conv))
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathUUID(w, r, chi.URLParam(r, "conversationID"))
	if !ok {
		return
	}

	detail, err := s.conversations.GetConversation(r.Context(), conversationID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := api.ConversationDetail{
		Conversation: wireConversation(&detail.Conversation),
		Messages:     make([]api.Message, 0, len(detail.Messages)),
	}
	for i := range detail.Messages {
		out.Messages = append(out.Messages, wireMessage(&detail.Messages[i]))
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleUpdateConversation applies rename/star/archive changes. The
// PATCH body carries whichever fields the client wants changed.
func (s *Server) handleUpdateConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathUUID(w, r, chi.URLParam(r, "conversationID"))
	if !ok {
		return
	}

	var req struct {
		Title    *string `json:"title"`
		Starred  *bool   `json:"starred"`
		Archived *bool   `json:"archived"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil && req.Starred == nil && req.Archived == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "title must not be empty")
			return
		}
		if err := s.conversations.RenameConversation(r.Context(), conversationID, *req.Title); err != nil {
			writeStoreError(w, r, err)
			return
		}
	}
	if req.Starred != nil {
		if err := s.conversations.SetStarred(r.Context(), conversationID, *req.Starred); err != nil {
			writeStoreError(w, r, err)
			return
		}
	}
	if req.Archived != nil {
		if err := s.conversations.SetArchived(r.Context(), conversationID, *req.Archived); err != nil {
			writeStoreError(w, r, err)
			return
		}
	}

	detail, err := s.conversations.GetConversation(r.Context(), conversationID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wireConversation(&detail.Conversation))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathUUID(w, r, chi.URLParam(r, "conversationID"))
	if !ok {
		return
	}

	if err := s.conversations.DeleteConversation(r.Context(), conversationID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathUUID(w, r, chi.URLParam(r, "conversationID"))
	if !ok {
		return
	}

	var req api.AppendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "content is required")
		return
	}
	if req.Author == "" {
		req.Author = "user"
	}

	msg := &models.Message{
		MessageID:      uuid.New(),
		ConversationID: conversationID,
		Author:         req.Author,
		Content:        req.Content,
		CreatedAt:      time.Now(),
	}
	if err := s.conversations.AppendMessage(r.Context(), msg); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wireMessage(msg))
}
