// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"admissions-platform/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	Path         string
	TaskType     string
	Description  string
	Timeout      string
	InputFields  string
	OutputFields string
}

// parseSchema extracts properties from a JSON schema object
func parseSchema(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders one field per schema property, sorted by name. Optional
// properties get omitempty.
func generateStructFields(schema map[string]interface{}) string {
	properties := parseSchema(schema)
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	var fields []string
	for _, name := range names {
		details, _ := properties[name].(map[string]interface{})
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		fields = append(fields, fmt.Sprintf("\t%-*s %s `json:\"%s\"`", width, upperFirst(name), goTypeFromJSONType(details["type"]), tag))
	}
	return strings.Join(fields, "\n")
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const configTemplate = `// {{ .Path }}/config.go
package {{ .PackageName }}

import (
	"time"

	"admissions-platform/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	cfg := &Config{Timeout: {{ .Timeout }}}
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
`

const modelsTemplate = `// {{ .Path }}/models.go
package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
{{ .OutputFields }}
}
`

const handlerTemplate = `// {{ .Path }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
	"admissions-platform/internal/common/validation"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler runs {{ .Name }}: {{ .Description }}
type Handler struct {
	config       *Config
	validator    *validation.SchemaValidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job.Variables)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	if err := h.validator.Validate(TaskType, raw); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

// mapCategoryToDirectory maps registry categories to directory names
func mapCategoryToDirectory(category string) string {
	switch category {
	case "communication", "mentoring":
		return "mentoring"
	case "matching", "scoring":
		return "matching"
	default:
		return strings.ToLower(category)
	}
}

// timeoutLiteral turns a registry timeout like "15s" into a Go duration expression.
func timeoutLiteral(timeout string) string {
	if n := strings.TrimSuffix(timeout, "s"); n != timeout && n != "" && strings.Trim(n, "0123456789") == "" {
		return n + " * time.Second"
	}
	return "30 * time.Second"
}

// generate writes config.go, models.go and handler.go for activity under outputDir and
// returns the worker directory.
func generate(activity *registry.Activity, outputDir string) (string, error) {
	rel := filepath.Join(mapCategoryToDirectory(activity.Category), activity.ID)
	data := WorkerData{
		Name:         activity.DisplayName,
		PackageName:  strings.ReplaceAll(activity.ID, "-", ""),
		Path:         filepath.ToSlash(filepath.Join("internal/workers", rel)),
		TaskType:     activity.TaskType,
		Description:  activity.Description,
		Timeout:      timeoutLiteral(activity.Timeout),
		InputFields:  generateStructFields(activity.InputSchema),
		OutputFields: generateStructFields(activity.OutputSchema),
	}

	workerDir := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	templates := map[string]string{
		"config.go":  configTemplate,
		"models.go":  modelsTemplate,
		"handler.go": handlerTemplate,
	}
	for filename, text := range templates {
		path := filepath.Join(workerDir, filename)
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		}

		tmpl, err := template.New(filename).Parse(text)
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", filename, err)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return "", fmt.Errorf("execute template %s: %w", filename, err)
		}
		if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
			return "", err
		}
		fmt.Printf("Generated %s\n", path)
	}
	return workerDir, nil
}

func main() {
	activityID := flag.String("activity", "", "Activity ID from registry (e.g., categorize-colleges)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	flag.Parse()

	if *activityID == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *activityID {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activityID, *registryPath)
		os.Exit(1)
	}

	workerDir, err := generate(activity, *outputDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWorker scaffold generated at: %s\n", workerDir)
	fmt.Printf("Next: implement execute, add handler_test.go, register it in cmd/worker-manager/main.go and configs/config.yaml\n")
}
