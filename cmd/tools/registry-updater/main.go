// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"admissions-platform/internal/common/validation"
	"admissions-platform/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "add":
		addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
		path := addCmd.String("path", defaultRegistryPath, "Path to registry file")
		id := addCmd.String("id", "", "Activity ID (e.g., categorize-colleges)")
		displayName := addCmd.String("displayName", "", "Display Name (e.g., Categorize Colleges)")
		description := addCmd.String("description", "", "Description")
		category := addCmd.String("category", "", "Category (e.g., matching)")
		taskType := addCmd.String("taskType", "", "Camunda Task Type, defaults to the id")
		version := addCmd.String("version", "1.0.0", "Version")
		status := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, implemented)")
		if err := addCmd.Parse(args); err != nil {
			return err
		}
		if *id == "" || *displayName == "" || *category == "" {
			addCmd.Usage()
			return fmt.Errorf("id, displayName and category are required for add")
		}
		if *taskType == "" {
			*taskType = *id
		}

		activity := registry.Activity{
			ID:                   *id,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *status,
			InputSchema:          map[string]interface{}{"type": "object"},
			OutputSchema:         map[string]interface{}{"type": "object"},
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Retries:              3,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if err := addActivity(*path, activity); err != nil {
			return err
		}
		fmt.Printf("Added activity: %s\n", *id)

	case "update":
		updateCmd := flag.NewFlagSet("update", flag.ContinueOnError)
		path := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
		id := updateCmd.String("id", "", "Activity ID to update")
		field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
		value := updateCmd.String("value", "", "New value for the field")
		if err := updateCmd.Parse(args); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			updateCmd.Usage()
			return fmt.Errorf("id, field and value are required for update")
		}
		if err := updateActivity(*path, *id, *field, *value); err != nil {
			return err
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
		if err := validateCmd.Parse(args); err != nil {
			return err
		}
		n, err := validateRegistry(*path)
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", n)

	default:
		help()
	}
	return nil
}

func addActivity(path string, activity registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	if _, exists := reg.FindByTaskType(activity.TaskType); exists {
		return fmt.Errorf("activity with task type %s already exists", activity.TaskType)
	}
	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	reg.Activities = append(reg.Activities, activity)
	return reg.Save(path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	return reg.Save(path)
}

// validateRegistry checks the required fields and that every input schema compiles.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}
	if _, err := validation.NewSchemaValidator(reg); err != nil {
		return 0, err
	}
	return len(reg.Activities), nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file and compile its input schemas
  help     Show this help message

Examples:
  registry-updater add -id rank-scholarships -displayName "Rank Scholarships" -category matching
  registry-updater update -id categorize-colleges -field status -value implemented
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
