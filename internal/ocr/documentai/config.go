package documentai

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProcessorConfig names the Document AI OCR processor to call.
type ProcessorConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// LoadProcessorConfig reads the processor settings from a YAML file.
func LoadProcessorConfig(path string) (ProcessorConfig, error) {
	var pc ProcessorConfig
	if path == "" {
		return pc, errors.New("document ai config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pc, fmt.Errorf("read document ai config: %w", err)
	}
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return pc, fmt.Errorf("parse document ai config %s: %w", path, err)
	}
	return pc, pc.Validate()
}

func (c ProcessorConfig) Validate() error {
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if c.Location == "" {
		missing = append(missing, "location")
	}
	if c.ProcessorID == "" {
		missing = append(missing, "processor_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("document ai config missing %v", missing)
	}
	return nil
}

// ResourceName is the fully-qualified processor name.
func (c ProcessorConfig) ResourceName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Endpoint is the regional API endpoint.
func (c ProcessorConfig) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}
