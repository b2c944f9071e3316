package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	stageNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("stage_name", func(fl validator.FieldLevel) bool {
			return stageNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the
// configuration. Execution is strictly declaration-ordered, so a stage may
// only depend on a stage declared before it.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return pipeerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(cfg.Pipeline.Stages))

	for i, stage := range cfg.Pipeline.Stages {
		if _, exists := seen[stage.Name]; exists {
			return pipeerrors.NewValidationError(fieldForStage(i, "name"), fmt.Sprintf("duplicate stage name %q", stage.Name), nil)
		}
		seen[stage.Name] = i

		if stage.DependsOn == "" {
			continue
		}

		if stage.DependsOn == stage.Name {
			return pipeerrors.NewValidationError(fieldForStage(i, "depends_on"), "stage cannot depend on itself", nil)
		}

		depIndex, ok := seen[stage.DependsOn]
		if !ok || depIndex >= i {
			return pipeerrors.NewValidationError(fieldForStage(i, "depends_on"), fmt.Sprintf("references stage %q which is not declared earlier", stage.DependsOn), nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return pipeerrors.NewValidationError(field, msg, err)
	}

	return pipeerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForStage(index int, field string) string {
	return fmt.Sprintf("stages[%d].%s", index, field)
}
