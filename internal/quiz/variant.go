package quiz

import (
	"errors"
	"fmt"
	"time"
)

// MinReasoningLength is the shortest free-text reasoning a gate accepts.
const MinReasoningLength = 10

// DefaultSubmitTimeout bounds each call to the submission collaborator.
const DefaultSubmitTimeout = 10 * time.Second

var ErrUnknownVariant = errors.New("unknown quiz variant")

// ShuffleMode selects how option lists are ordered
type ShuffleMode string

const (
	ShuffleNone   ShuffleMode = "none"
	ShuffleRandom ShuffleMode = "random"
	ShuffleSeeded ShuffleMode = "seeded"
)

// Variant configures one flavour of the quiz.
type Variant struct {
	Tag             string        `yaml:"tag" json:"tag"`
	Title           string        `yaml:"title" json:"title"`
	Shuffle         ShuffleMode   `yaml:"shuffle" json:"shuffle"`
	ConfirmMethod   bool          `yaml:"confirmMethod" json:"confirmMethod"`
	MethodReasoning bool          `yaml:"methodReasoning" json:"methodReasoning"`
	FixReasoning    bool          `yaml:"fixReasoning" json:"fixReasoning"`
	MinReasoning    int           `yaml:"minReasoning" json:"minReasoning"`
	Submit          bool          `yaml:"submit" json:"submit"`
	SubmitTimeout   time.Duration `yaml:"submitTimeout" json:"submitTimeout"`
}

// Normalize fills zero values with defaults.
func (v Variant) Normalize() Variant {
	if v.Shuffle == "" {
		v.Shuffle = ShuffleNone
	}
	if v.MinReasoning <= 0 {
		v.MinReasoning = MinReasoningLength
	}
	if v.SubmitTimeout <= 0 {
		v.SubmitTimeout = DefaultSubmitTimeout
	}
	return v
}

// Validate checks a variant read from configuration.
func (v Variant) Validate() error {
	if v.Tag == "" {
		return fmt.Errorf("variant tag is required")
	}
	switch v.Shuffle {
	case "", ShuffleNone, ShuffleRandom, ShuffleSeeded:
	default:
		return fmt.Errorf("variant %s: unsupported shuffle mode %q", v.Tag, v.Shuffle)
	}
	return nil
}

// DefaultVariants returns the three built-in variants.
func DefaultVariants() []Variant {
	return []Variant{
		{
			Tag:           "classic",
			Title:         "Experimental methods",
			Shuffle:       ShuffleRandom,
			ConfirmMethod: true,
			MinReasoning:  MinReasoningLength,
			SubmitTimeout: DefaultSubmitTimeout,
		},
		{
			Tag:             "reasoned",
			Title:           "Experimental methods with reasoning",
			Shuffle:         ShuffleSeeded,
			MethodReasoning: true,
			FixReasoning:    true,
			MinReasoning:    MinReasoningLength,
			SubmitTimeout:   DefaultSubmitTimeout,
		},
		{
			Tag:             "peer-review",
			Title:           "Experimental methods with peer review",
			Shuffle:         ShuffleSeeded,
			MethodReasoning: true,
			FixReasoning:    true,
			MinReasoning:    MinReasoningLength,
			Submit:          true,
			SubmitTimeout:   DefaultSubmitTimeout,
		},
	}
}

// Catalog indexes variants by tag.
type Catalog map[string]Variant

func NewCatalog(variants []Variant) Catalog {
	c := make(Catalog, len(variants))
	for _, v := range variants {
		c[v.Tag] = v.Normalize()
	}
	return c
}

// Lookup returns the variant registered under tag.
func (c Catalog) Lookup(tag string) (Variant, error) {
	v, ok := c[tag]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, tag)
	}
	return v, nil
}
