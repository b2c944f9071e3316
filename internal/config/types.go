package config

import (
	"gopkg.in/yaml.v3"
)

// Config represents the full pipeline configuration document.
type Config struct {
	Pipeline   Pipeline   `yaml:"pipeline" validate:"required"`
	Validation Validation `yaml:"validation,omitempty"`
	Enrichment Enrichment `yaml:"enrichment,omitempty"`
}

// Pipeline declares the stage sequence and run defaults.
type Pipeline struct {
	Name          string  `yaml:"name" validate:"required,min=1,max=100"`
	DefaultURL    string  `yaml:"default_url,omitempty" validate:"omitempty,url"`
	DefaultName   string  `yaml:"default_name,omitempty"`
	BaseOutputDir string  `yaml:"base_output_dir,omitempty"`
	Stages        []Stage `yaml:"stages" validate:"required,min=1,dive"`
}

// Stage describes one independently executable unit of the pipeline.
// Declaration order defines execution order; depends_on may only reference a
// stage declared earlier.
type Stage struct {
	Name      string   `yaml:"name" validate:"required,stage_name"`
	Command   string   `yaml:"command" validate:"required"`
	Args      []string `yaml:"args,omitempty"`
	Enabled   bool     `yaml:"enabled,omitempty"`
	DependsOn string   `yaml:"depends_on,omitempty"`
}

// Validation holds tunables for the validator stage.
type Validation struct {
	FileConsistency bool     `yaml:"file_consistency,omitempty"`
	URLVerification bool     `yaml:"url_verification,omitempty"`
	MaxRetries      int      `yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	Timeout         int      `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=600"`
	ReportFormats   []string `yaml:"report_format,omitempty" validate:"omitempty,dive,oneof=json html"`
}

// Enrichment holds tunables for the metadata enricher stage.
type Enrichment struct {
	Enabled         bool `yaml:"enabled,omitempty"`
	MaxRetries      int  `yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	Timeout         int  `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=600"`
	ParallelWorkers int  `yaml:"parallel_workers,omitempty" validate:"omitempty,min=1,max=16"`
}

// UnmarshalYAML fills the validation and enrichment sections with their
// defaults when a document omits them. Both checks run unless explicitly
// disabled; a config that only declares stages must not silently turn
// validation off.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		Pipeline   Pipeline    `yaml:"pipeline"`
		Validation *Validation `yaml:"validation"`
		Enrichment *Enrichment `yaml:"enrichment"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Pipeline = raw.Pipeline
	if raw.Validation != nil {
		c.Validation = *raw.Validation
	} else {
		c.Validation = defaultValidation()
	}
	if raw.Enrichment != nil {
		c.Enrichment = *raw.Enrichment
	} else {
		c.Enrichment = defaultEnrichment()
	}

	return nil
}

// UnmarshalYAML applies per-key defaults, so a partial validation section
// keeps the unmentioned checks enabled.
func (v *Validation) UnmarshalYAML(value *yaml.Node) error {
	type rawValidation struct {
		FileConsistency *bool     `yaml:"file_consistency"`
		URLVerification *bool     `yaml:"url_verification"`
		MaxRetries      *int      `yaml:"max_retries"`
		Timeout         *int      `yaml:"timeout"`
		ReportFormats   *[]string `yaml:"report_format"`
	}

	var raw rawValidation
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*v = defaultValidation()
	if raw.FileConsistency != nil {
		v.FileConsistency = *raw.FileConsistency
	}
	if raw.URLVerification != nil {
		v.URLVerification = *raw.URLVerification
	}
	if raw.MaxRetries != nil {
		v.MaxRetries = *raw.MaxRetries
	}
	if raw.Timeout != nil {
		v.Timeout = *raw.Timeout
	}
	if raw.ReportFormats != nil {
		v.ReportFormats = append([]string(nil), (*raw.ReportFormats)...)
	}

	return nil
}

// UnmarshalYAML applies per-key defaults to a partial enrichment section.
func (e *Enrichment) UnmarshalYAML(value *yaml.Node) error {
	type rawEnrichment struct {
		Enabled         *bool `yaml:"enabled"`
		MaxRetries      *int  `yaml:"max_retries"`
		Timeout         *int  `yaml:"timeout"`
		ParallelWorkers *int  `yaml:"parallel_workers"`
	}

	var raw rawEnrichment
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*e = defaultEnrichment()
	if raw.Enabled != nil {
		e.Enabled = *raw.Enabled
	}
	if raw.MaxRetries != nil {
		e.MaxRetries = *raw.MaxRetries
	}
	if raw.Timeout != nil {
		e.Timeout = *raw.Timeout
	}
	if raw.ParallelWorkers != nil {
		e.ParallelWorkers = *raw.ParallelWorkers
	}

	return nil
}

// UnmarshalYAML defaults enabled to true when the key is absent, so a stage
// must be disabled explicitly.
func (s *Stage) UnmarshalYAML(value *yaml.Node) error {
	type rawStage struct {
		Name      string   `yaml:"name"`
		Command   string   `yaml:"command"`
		Args      []string `yaml:"args"`
		Enabled   *bool    `yaml:"enabled"`
		DependsOn string   `yaml:"depends_on"`
	}

	var raw rawStage
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Name = raw.Name
	s.Command = raw.Command
	s.Args = append([]string(nil), raw.Args...)
	s.DependsOn = raw.DependsOn
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	} else {
		s.Enabled = true
	}

	return nil
}

// StageNames returns the declared stage names in order.
func (p Pipeline) StageNames() []string {
	names := make([]string, 0, len(p.Stages))
	for _, stage := range p.Stages {
		names = append(names, stage.Name)
	}
	return names
}
