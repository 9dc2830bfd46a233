package service

import (
	_ "embed"
	"fmt"

	dealdomain "github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// TaskTemplate is one task blueprint from the rule table.
type TaskTemplate struct {
	Title       string  `yaml:"title"`
	Description *string `yaml:"description"`
}

type ruleFile struct {
	Rules []struct {
		Stage string         `yaml:"stage"`
		Tasks []TaskTemplate `yaml:"tasks"`
	} `yaml:"rules"`
}

// LoadRules parses the embedded rule table into a stage -> templates map.
// Unknown stages in the file are a configuration error, caught at startup.
func LoadRules() (map[dealdomain.Stage][]TaskTemplate, error) {
	var file ruleFile
	if err := yaml.Unmarshal(rulesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse task rules: %w", err)
	}

	rules := make(map[dealdomain.Stage][]TaskTemplate, len(file.Rules))
	for _, r := range file.Rules {
		stage := dealdomain.Stage(r.Stage)
		if !dealdomain.IsKnownStage(stage) {
			return nil, fmt.Errorf("task rules reference unknown stage %q", r.Stage)
		}
		if len(r.Tasks) == 0 {
			return nil, fmt.Errorf("task rules for stage %q are empty", r.Stage)
		}
		rules[stage] = r.Tasks
	}
	return rules, nil
}
