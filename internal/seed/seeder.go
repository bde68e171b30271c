package seed

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"hearsay/internal/domain"
	"hearsay/internal/port"
)

// Result counts what Apply created and what already existed.
type Result struct {
	ScenariosCreated int
	ScenariosSkipped int
	LessonsCreated   int
	LessonsSkipped   int
}

// Seeder writes content with get-or-create semantics keyed by title, so
// running it twice changes nothing.
type Seeder struct {
	scenarios port.ScenarioRepository
	lessons   port.LessonRepository
	log       *zap.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(scenarios port.ScenarioRepository, lessons port.LessonRepository, log *zap.Logger) *Seeder {
	return &Seeder{scenarios: scenarios, lessons: lessons, log: log}
}

// Apply creates every scenario and lesson in f that does not exist yet.
// Existing rows are left untouched.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Result, error) {
	res := &Result{}
	for _, sc := range f.Scenarios {
		scenario, created, err := s.getOrCreateScenario(ctx, sc)
		if err != nil {
			return res, err
		}
		if created {
			res.ScenariosCreated++
			s.log.Info("created scenario", zap.String("title", sc.Title), zap.String("language", sc.Language))
		} else {
			res.ScenariosSkipped++
			s.log.Info("scenario already exists", zap.String("title", sc.Title))
		}

		for _, ls := range sc.Lessons {
			created, err := s.getOrCreateLesson(ctx, scenario.ID, ls)
			if err != nil {
				return res, err
			}
			if created {
				res.LessonsCreated++
				s.log.Info("created lesson", zap.String("title", ls.Title))
			} else {
				res.LessonsSkipped++
				s.log.Info("lesson already exists", zap.String("title", ls.Title))
			}
		}
	}
	return res, nil
}

func (s *Seeder) getOrCreateScenario(ctx context.Context, sc ScenarioSeed) (*domain.Scenario, bool, error) {
	existing, err := s.scenarios.GetByTitle(ctx, domain.TargetLanguage(sc.Language), sc.Title)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("looking up scenario %q: %w", sc.Title, err)
	}

	scenario := sc.toDomain()
	if err := s.scenarios.Create(ctx, scenario); err != nil {
		return nil, false, fmt.Errorf("creating scenario %q: %w", sc.Title, err)
	}
	return scenario, true, nil
}

func (s *Seeder) getOrCreateLesson(ctx context.Context, scenarioID int64, ls LessonSeed) (bool, error) {
	_, err := s.lessons.GetByTitle(ctx, scenarioID, ls.Title)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("looking up lesson %q: %w", ls.Title, err)
	}

	lesson, err := ls.toDomain(scenarioID)
	if err != nil {
		return false, err
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return false, fmt.Errorf("creating lesson %q: %w", ls.Title, err)
	}
	return true, nil
}

// AudioUploader copies the audio files referenced by lesson steps from a local
// media directory to object storage, keyed by their path below the media URL
// prefix.
type AudioUploader struct {
	storage   port.ObjectStorage
	bucket    string
	urlPrefix string
	log       *zap.Logger
}

// NewAudioUploader creates an AudioUploader.
func NewAudioUploader(storage port.ObjectStorage, bucket, urlPrefix string, log *zap.Logger) *AudioUploader {
	return &AudioUploader{storage: storage, bucket: bucket, urlPrefix: urlPrefix, log: log}
}

// Upload sends every referenced file found under dir and returns how many were
// uploaded. URLs outside the media prefix and missing files are skipped.
func (u *AudioUploader) Upload(ctx context.Context, f *File, dir string) (int, error) {
	uploaded := 0
	for _, audioURL := range f.AudioURLs() {
		if !strings.HasPrefix(audioURL, u.urlPrefix) {
			continue
		}
		key := strings.TrimPrefix(audioURL, u.urlPrefix)
		path := filepath.Join(dir, filepath.FromSlash(key))

		if err := u.uploadFile(ctx, path, key); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				u.log.Warn("audio file missing, skipped", zap.String("path", path))
				continue
			}
			return uploaded, err
		}
		uploaded++
		u.log.Info("uploaded audio", zap.String("key", key))
	}
	return uploaded, nil
}

func (u *AudioUploader) uploadFile(ctx context.Context, path, key string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = u.storage.Upload(ctx, port.UploadInput{
		Bucket:      u.bucket,
		Key:         key,
		Body:        file,
		ContentType: contentType,
		Size:        info.Size(),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}
