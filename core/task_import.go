package core

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	maxImportBodySize = 1 * 1024 * 1024
	maxImportTasks    = 500
)

// TaskImportItem is one entry of an imported task bundle.
type TaskImportItem struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Completed   bool   `yaml:"completed"`
}

type taskBundle struct {
	Tasks []TaskImportItem `yaml:"tasks"`
}

// ParseTaskBundle converts a YAML task bundle into validated import items.
// Expected document:
//
//	tasks:
//	  - title: Buy milk
//	    description: two bottles
//	    completed: false
func ParseTaskBundle(data []byte) ([]TaskImportItem, error) {
	if len(data) == 0 {
		return nil, errors.New("bundle is empty")
	}
	if len(data) > maxImportBodySize {
		return nil, errors.New("bundle exceeds size limit")
	}

	var bundle taskBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(bundle.Tasks) == 0 {
		return nil, errors.New("bundle contains no tasks")
	}
	if len(bundle.Tasks) > maxImportTasks {
		return nil, fmt.Errorf("bundle contains more than %d tasks", maxImportTasks)
	}

	items := make([]TaskImportItem, 0, len(bundle.Tasks))
	for i, item := range bundle.Tasks {
		item.Title = strings.TrimSpace(item.Title)
		item.Description = strings.TrimSpace(item.Description)
		if err := validateTaskFields(item.Title, item.Description); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// validateTaskFields enforces the title/description limits shared by single
// create, update, and bulk import.
func validateTaskFields(title, description string) error {
	if title == "" {
		return errors.New("title is required")
	}
	if len([]rune(title)) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	if len([]rune(description)) > 1000 {
		return errors.New("description must be at most 1000 characters")
	}
	return nil
}
