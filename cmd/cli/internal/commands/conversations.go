package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/BuDozKeN/aicouncil/internal/api"
)

type ConversationsCmd struct {
	List    ConversationsListCmd    `cmd:"" help:"List conversations."`
	Show    ConversationsShowCmd    `cmd:"" help:"Show a conversation with its messages."`
	New     ConversationsNewCmd     `cmd:"" help:"Start a new conversation."`
	Rename  ConversationsRenameCmd  `cmd:"" help:"Rename a conversation."`
	Star    ConversationsStarCmd    `cmd:"" help:"Star or unstar a conversation."`
	Archive ConversationsArchiveCmd `cmd:"" help:"Archive or restore a conversation."`
	Send    ConversationsSendCmd    `cmd:"" help:"Append a message to a conversation."`
}

type ConversationsListCmd struct {
	Search          string `help:"Filter by title substring."`
	Company         string `help:"Filter by company id."`
	IncludeArchived bool   `help:"Include archived conversations."`
	PageSize        int    `help:"Page size for incremental loading." default:"20"`
	All             bool   `help:"Keep fetching pages until the server reports no more."`
}

func (l *ConversationsListCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	filter := api.ConversationFilter{
		Search:          l.Search,
		CompanyID:       l.Company,
		IncludeArchived: l.IncludeArchived,
	}

	pages := data.ConversationPages(filter, l.PageSize)
	defer pages.Stop()

	for {
		loaded, err := pages.FetchNext(ctx)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		if !loaded || !l.All || !pages.HasMore() {
			break
		}
	}

	conversations := pages.Items()
	if len(conversations) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	fmt.Printf("%-36s %-40s %-8s %-8s %-20s\n", "ID", "Title", "Starred", "Archived", "Updated At")
	fmt.Println(strings.Repeat("─", 116))
	for _, conv := range conversations {
		title := conv.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-36s %-40s %-8v %-8v %-20s\n",
			conv.ID,
			title,
			conv.Starred,
			conv.Archived,
			conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if pages.HasMore() {
		fmt.Println("\nMore available; rerun with --all to fetch everything.")
	}
	return nil
}

type ConversationsShowCmd struct {
	ID string `arg:"" help:"Conversation id."`
}

func (s *ConversationsShowCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	result := data.Conversation(s.ID).Get(ctx)
	if result.Err != nil {
		return fmt.Errorf("failed to get conversation: %w", result.Err)
	}

	conv := result.Value
	fmt.Printf("%s\n", conv.Title)
	fmt.Printf("id: %s  starred: %v  archived: %v\n\n", conv.ID, conv.Starred, conv.Archived)
	for _, msg := range conv.Messages {
		fmt.Printf("[%s] %s\n%s\n\n", msg.CreatedAt.Format("15:04:05"), msg.Author, msg.Content)
	}
	return nil
}

type ConversationsNewCmd struct {
	Title   string `arg:"" help:"Conversation title."`
	Company string `help:"Scope to a company id."`
}

func (n *ConversationsNewCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	conv, err := data.CreateConversation().Do(ctx, api.CreateConversationRequest{
		CompanyID: n.Company,
		Title:     n.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	fmt.Printf("Created conversation %s\n", conv.ID)
	return nil
}

type ConversationsRenameCmd struct {
	ID    string `arg:"" help:"Conversation id."`
	Title string `arg:"" help:"New title."`
}

func (r *ConversationsRenameCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	conv, err := data.RenameConversation().Do(ctx, api.RenameConversationRequest{
		ConversationID: r.ID,
		Title:          r.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to rename conversation: %w", err)
	}

	fmt.Printf("Renamed conversation %s to %q\n", conv.ID, conv.Title)
	return nil
}

type ConversationsStarCmd struct {
	ID     string `arg:"" help:"Conversation id."`
	Unstar bool   `help:"Remove the star instead."`
}

func (s *ConversationsStarCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	conv, err := data.StarConversation().Do(ctx, api.SetStarredRequest{
		ConversationID: s.ID,
		Starred:        !s.Unstar,
	})
	if err != nil {
		return fmt.Errorf("failed to update star: %w", err)
	}

	fmt.Printf("Conversation %s starred=%v\n", conv.ID, conv.Starred)
	return nil
}

type ConversationsArchiveCmd struct {
	ID      string `arg:"" help:"Conversation id."`
	Restore bool   `help:"Restore instead of archive."`
}

func (a *ConversationsArchiveCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	conv, err := data.ArchiveConversation().Do(ctx, api.SetArchivedRequest{
		ConversationID: a.ID,
		Archived:       !a.Restore,
	})
	if err != nil {
		return fmt.Errorf("failed to update archive state: %w", err)
	}

	fmt.Printf("Conversation %s archived=%v\n", conv.ID, conv.Archived)
	return nil
}

type ConversationsSendCmd struct {
	ID      string `arg:"" help:"Conversation id."`
	Content string `arg:"" help:"Message content."`
}

func (s *ConversationsSendCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	msg, err := data.SendMessage().Do(ctx, api.AppendMessageRequest{
		ConversationID: s.ID,
		Author:         "user",
		Content:        s.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Printf("Sent message %s\n", msg.ID)
	return nil
}
