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

// ConversationStore implements store.ConversationStore using PostgreSQL.
type ConversationStore struct {
	pool *pgxpool.Pool
}

// NewConversationStore creates a new PostgreSQL-backed conversation store.
func NewConversationStore(pool *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{
		pool: pool,
	}
}

// CreateConversation creates a new conversation.
func (s *ConversationStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	query := `
		INSERT INTO conversations (
			conversation_id, company_id, title, starred, archived, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		conv.ConversationID,
		conv.CompanyID,
		conv.Title,
		conv.Starred,
		conv.Archived,
		conv.CreatedAt,
		conv.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("conversation_id", conv.ConversationID.String()).
		Msg("Created conversation")

	return nil
}

// GetConversation retrieves a conversation with its messages in
// creation order.
func (s *ConversationStore) GetConversation(ctx context.Context, conversationID uuid.UUID) (*models.ConversationWithMessages, error) {
	query := `
		SELECT conversation_id, company_id, title, starred, archived, created_at, updated_at
		FROM conversations
		WHERE conversation_id = $1
	`

	var detail models.ConversationWithMessages
	err := s.pool.QueryRow(ctx, query, conversationID).Scan(
		&detail.ConversationID,
		&detail.CompanyID,
		&detail.Title,
		&detail.Starred,
		&detail.Archived,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	msgQuery := `
		SELECT message_id, conversation_id, author, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, msgQuery, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.MessageID,
			&msg.ConversationID,
			&msg.Author,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		detail.Messages = append(detail.Messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return &detail, nil
}

// ListConversations returns one page of conversations matching the
// filter. The query fetches limit+1 rows so HasMore reflects what the
// server actually has, not a guess.
func (s *ConversationStore) ListConversations(ctx context.Context, filter store.ConversationListFilter) (*store.ConversationPage, error) {
	query := `
		SELECT conversation_id, company_id, title, starred, archived, created_at, updated_at
		FROM conversations
		WHERE ($1::uuid IS NULL OR company_id = $1)
		  AND ($2::boolean OR NOT archived)
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%')
	`

	switch filter.SortBy {
	case "created_at":
		query += ` ORDER BY created_at DESC`
	default:
		query += ` ORDER BY updated_at DESC`
	}

	limit := filter.Limit
	fetch := 0
	if limit > 0 {
		fetch = limit + 1
		query += fmt.Sprintf(` LIMIT %d`, fetch)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, filter.CompanyID, filter.IncludeArchived, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ConversationID,
			&conv.CompanyID,
			&conv.Title,
			&conv.Starred,
			&conv.Archived,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	hasMore := false
	if limit > 0 && len(conversations) > limit {
		conversations = conversations[:limit]
		hasMore = true
	}

	return &store.ConversationPage{Conversations: conversations, HasMore: hasMore}, nil
}

// RenameConversation updates a conversation's title.
func (s *ConversationStore) RenameConversation(ctx context.Context, conversationID uuid.UUID, title string) error {
	return s.updateConversation(ctx, conversationID, `title = $2`, title)
}

// SetStarred stars or unstars a conversation.
func (s *ConversationStore) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	return s.updateConversation(ctx, conversationID, `starred = $2`, starred)
}

// SetArchived archives or restores a conversation.
func (s *ConversationStore) SetArchived(ctx context.Context, conversationID uuid.UUID, archived bool) error {
	return s.updateConversation(ctx, conversationID, `archived = $2`, archived)
}

func (s *ConversationStore) updateConversation(ctx context.Context, conversationID uuid.UUID, setClause string, value any) error {
	query := `
		UPDATE conversations SET ` + setClause + `, updated_at = $3
		WHERE conversation_id = $1
	`

	result, err := s.pool.Exec(ctx, query, conversationID, value, time.Now())
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrConversationNotFound
	}

	return nil
}

// DeleteConversation deletes a conversation and cascade-deletes its
// messages via FK constraint.
func (s *ConversationStore) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	query := `DELETE FROM conversations WHERE conversation_id = $1`

	result, err := s.pool.Exec(ctx, query, conversationID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrConversationNotFound
	}

	log.Info().
		Str("conversation_id", conversationID.String()).
		Msg("Deleted conversation (and cascade-deleted its messages)")

	return nil
}

// AppendMessage appends a message and bumps the conversation's
// updated_at so it surfaces in recency-sorted listings.
func (s *ConversationStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	query := `
		INSERT INTO messages (
			message_id, conversation_id, author, content, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err = tx.Exec(ctx, query,
		msg.MessageID,
		msg.ConversationID,
		msg.Author,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return mapPostgresError(err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE conversations SET updated_at = $2 WHERE conversation_id = $1`,
		msg.ConversationID, time.Now(),
	)
	if err != nil {
		return mapPostgresError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}

	return nil
}
