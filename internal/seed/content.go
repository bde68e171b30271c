// Package seed loads lesson content from YAML and writes it to the store.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"hearsay/internal/domain"
)

// File is the root of a lesson content file.
type File struct {
	Scenarios []ScenarioSeed `yaml:"scenarios"`
}

// ScenarioSeed describes one scenario and its lessons.
type ScenarioSeed struct {
	Title       string       `yaml:"title"`
	Language    string       `yaml:"language"`
	Description string       `yaml:"description"`
	Difficulty  string       `yaml:"difficulty"`
	ContextTags []string     `yaml:"context_tags"`
	ImageURL    string       `yaml:"image_url"`
	Lessons     []LessonSeed `yaml:"lessons"`
}

// LessonSeed describes one lesson. Steps are stored as given.
type LessonSeed struct {
	Title            string           `yaml:"title"`
	Type             string           `yaml:"type"`
	Description      string           `yaml:"description"`
	Order            int              `yaml:"order"`
	EstimatedMinutes int              `yaml:"estimated_minutes"`
	Steps            []map[string]any `yaml:"steps"`
}

// LoadFile reads and validates a content file.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates content from r.
func Load(r io.Reader) (*File, error) {
	var content File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("decoding lesson content: %w", err)
	}
	if err := content.validate(); err != nil {
		return nil, err
	}
	return &content, nil
}

func (f *File) validate() error {
	for i, s := range f.Scenarios {
		if s.Title == "" {
			return fmt.Errorf("scenario %d: title is required", i)
		}
		if !domain.ValidTargetLanguages[domain.TargetLanguage(s.Language)] {
			return fmt.Errorf("scenario %q: unsupported language %q", s.Title, s.Language)
		}
		if s.Difficulty != "" {
			if _, ok := domain.ProficiencyRank[domain.ProficiencyLevel(s.Difficulty)]; !ok {
				return fmt.Errorf("scenario %q: unknown difficulty %q", s.Title, s.Difficulty)
			}
		}
		for j, l := range s.Lessons {
			if l.Title == "" {
				return fmt.Errorf("scenario %q lesson %d: title is required", s.Title, j)
			}
			if !domain.ValidLessonTypes[domain.LessonType(l.Type)] {
				return fmt.Errorf("lesson %q: unknown type %q", l.Title, l.Type)
			}
		}
	}
	return nil
}

func (s ScenarioSeed) toDomain() *domain.Scenario {
	difficulty := domain.ProficiencyLevel(s.Difficulty)
	if difficulty == "" {
		difficulty = domain.ProficiencyBeginner
	}
	tags := domain.StringList(s.ContextTags)
	if tags == nil {
		tags = domain.StringList{}
	}
	var image *string
	if s.ImageURL != "" {
		image = &s.ImageURL
	}
	return &domain.Scenario{
		Title:       s.Title,
		Description: s.Description,
		ContextTags: tags,
		Language:    domain.TargetLanguage(s.Language),
		Difficulty:  difficulty,
		ImageURL:    image,
		IsActive:    true,
	}
}

func (l LessonSeed) toDomain(scenarioID int64) (*domain.Lesson, error) {
	steps := l.Steps
	if steps == nil {
		steps = []map[string]any{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("encoding steps of lesson %q: %w", l.Title, err)
	}
	minutes := l.EstimatedMinutes
	if minutes <= 0 {
		minutes = 5
	}
	return &domain.Lesson{
		ScenarioID:       scenarioID,
		LessonType:       domain.LessonType(l.Type),
		Title:            l.Title,
		Description:      l.Description,
		Order:            l.Order,
		Steps:            raw,
		EstimatedMinutes: minutes,
		IsActive:         true,
	}, nil
}

// AudioURLs returns every distinct step audio_url in file order.
func (f *File) AudioURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, s := range f.Scenarios {
		for _, l := range s.Lessons {
			for _, step := range l.Steps {
				u, ok := step["audio_url"].(string)
				if !ok || u == "" || seen[u] {
					continue
				}
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls
}
