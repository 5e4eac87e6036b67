package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/BuDozKeN/aicouncil/internal/api"
)

type DepartmentsCmd struct {
	List DepartmentsListCmd `cmd:"" help:"List a company's departments."`
	Add  DepartmentsAddCmd  `cmd:"" help:"Add a department to a company."`
}

type DepartmentsListCmd struct {
	Company string `arg:"" help:"Company id."`
}

func (l *DepartmentsListCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	result := data.Departments(l.Company).Get(ctx)
	if result.Err != nil {
		return fmt.Errorf("failed to list departments: %w", result.Err)
	}

	if len(result.Value) == 0 {
		fmt.Println("No departments found.")
		return nil
	}

	fmt.Printf("%-36s %-30s %-20s\n", "ID", "Name", "Created At")
	fmt.Println(strings.Repeat("─", 88))
	for _, dept := range result.Value {
		fmt.Printf("%-36s %-30s %-20s\n",
			dept.ID,
			dept.Name,
			dept.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

type DepartmentsAddCmd struct {
	Company string `arg:"" help:"Company id."`
	Name    string `arg:"" help:"Department name."`
}

func (a *DepartmentsAddCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	dept, err := data.CreateDepartment().Do(ctx, api.CreateDepartmentRequest{
		CompanyID: a.Company,
		Name:      a.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	fmt.Printf("Created department %s (%s)\n", dept.Name, dept.ID)
	return nil
}

type KnowledgeCmd struct {
	List KnowledgeListCmd `cmd:"" help:"List a company's saved knowledge."`
	Save KnowledgeSaveCmd `cmd:"" help:"Save a knowledge snippet."`
}

type KnowledgeListCmd struct {
	Company string `arg:"" help:"Company id."`
}

func (l *KnowledgeListCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	result := data.Knowledge(l.Company).Get(ctx)
	if result.Err != nil {
		return fmt.Errorf("failed to list knowledge: %w", result.Err)
	}

	if len(result.Value) == 0 {
		fmt.Println("No knowledge saved.")
		return nil
	}

	for _, k := range result.Value {
		fmt.Printf("%s  %s\n", k.ID, k.Title)
	}
	return nil
}

type KnowledgeSaveCmd struct {
	Company string `arg:"" help:"Company id."`
	Title   string `arg:"" help:"Snippet title."`
	Content string `arg:"" help:"Snippet content."`
}

func (s *KnowledgeSaveCmd) Run(ctx context.Context, globals *Globals) error {
	data, closeCache := newDataLayer(globals)
	defer closeCache()

	k, err := data.SaveKnowledge().Do(ctx, api.CreateKnowledgeRequest{
		CompanyID: s.Company,
		Title:     s.Title,
		Content:   s.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to save knowledge: %w", err)
	}

	fmt.Printf("Saved knowledge %s\n", k.ID)
	return nil
}
