package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BuDozKeN/aicouncil/internal/models"
	"github.com/BuDozKeN/aicouncil/internal/store"
)

// ConversationStore implements store.ConversationStore using in-memory
// storage. This implementation is for testing only - data is lost on
// restart.
type ConversationStore struct {
	mu sync.RWMutex

	conversations map[uuid.UUID]*models.Conversation
	messages      map[uuid.UUID][]models.Message // conversation_id -> messages in order
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[uuid.UUID]*models.Conversation),
		messages:      make(map[uuid.UUID][]models.Message),
	}
}

func (s *ConversationStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *conv
	s.conversations[conv.ConversationID] = &clone
	return nil
}

func (s *ConversationStore) GetConversation(ctx context.Context, conversationID uuid.UUID) (*models.ConversationWithMessages, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.conversations[conversationID]
	if !exists {
		return nil, store.ErrConversationNotFound
	}

	detail := &models.ConversationWithMessages{Conversation: *conv}
	detail.Messages = append(detail.Messages, s.messages[conversationID]...)
	return detail, nil
}

func (s *ConversationStore) ListConversations(ctx context.Context, filter store.ConversationListFilter) (*store.ConversationPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Conversation, 0)
	for _, conv := range s.conversations {
		if !filter.IncludeArchived && conv.Archived {
			continue
		}
		if filter.CompanyID != nil {
			if conv.CompanyID == nil || *conv.CompanyID != *filter.CompanyID {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(conv.Title), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *conv
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.SortBy == "created_at" {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]

	hasMore := false
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		hasMore = true
	}

	return &store.ConversationPage{Conversations: matched, HasMore: hasMore}, nil
}

func (s *ConversationStore) RenameConversation(ctx context.Context, conversationID uuid.UUID, title string) error {
	return s.update(conversationID, func(conv *models.Conversation) {
		conv.Title = title
	})
}

func (s *ConversationStore) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	return s.update(conversationID, func(conv *models.Conversation) {
		conv.Starred = starred
	})
}

func (s *ConversationStore) SetArchived(ctx context.Context, conversationID uuid.UUID, archived bool) error {
	return s.update(conversationID, func(conv *models.Conversation) {
		conv.Archived = archived
	})
}

func (s *ConversationStore) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conversationID]; !exists {
		return store.ErrConversationNotFound
	}
	delete(s.conversations, conversationID)
	delete(s.messages, conversationID)
	return nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, exists := s.conversations[msg.ConversationID]
	if !exists {
		return store.ErrConversationNotFound
	}

	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], *msg)
	conv.UpdatedAt = time.Now()
	return nil
}

func (s *ConversationStore) update(conversationID uuid.UUID, apply func(*models.Conversation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, exists := s.conversations[conversationID]
	if !exists {
		return store.ErrConversationNotFound
	}
	apply(conv)
	conv.UpdatedAt = time.Now()
	return nil
}
