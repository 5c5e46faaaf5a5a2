package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"methodquiz/internal/quiz"
)

type variantFile struct {
	Variants []quiz.Variant `yaml:"variants"`
}

// LoadVariants returns the built-in variants, overridden and extended by
// the YAML file at path when one is given.
func LoadVariants(path string) (quiz.Catalog, error) {
	variants := quiz.DefaultVariants()
	if path == "" {
		return quiz.NewCatalog(variants), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	overrides, err := ParseVariants(data)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(variants))
	for i, v := range variants {
		index[v.Tag] = i
	}
	for _, v := range overrides {
		if i, ok := index[v.Tag]; ok {
			variants[i] = v
			continue
		}
		index[v.Tag] = len(variants)
		variants = append(variants, v)
	}
	return quiz.NewCatalog(variants), nil
}

// ParseVariants decodes and validates a variants document.
func ParseVariants(data []byte) ([]quiz.Variant, error) {
	var f variantFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	for _, v := range f.Variants {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Variants, nil
}
