package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hearsay/internal/config"
	"hearsay/internal/logger"
	"hearsay/internal/repository/postgres"
	"hearsay/internal/seed"
	"hearsay/internal/service"
	s3storage "hearsay/internal/storage/s3"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load lesson content and development accounts",
		SilenceUsage: true,
	}
	cmd.AddCommand(newLessonsCommand())
	cmd.AddCommand(newUserCommand())
	return cmd
}

func newLessonsCommand() *cobra.Command {
	var (
		file     string
		audioDir string
	)

	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Create scenarios and lessons from a YAML file",
		Long:  "Create scenarios and lessons from a YAML file. Rows that already exist (matched by title) are left untouched.",
		Example: `  # Seed the bundled cafe lessons
  seed lessons --file db/seeds/lessons.yaml

  # Seed and upload the referenced audio to S3
  seed lessons --file db/seeds/lessons.yaml --upload-audio media`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedLessons(cmd.Context(), file, audioDir)
		},
	}

	cmd.Flags().StringVar(&file, "file", "db/seeds/lessons.yaml", "Lesson content file")
	cmd.Flags().StringVar(&audioDir, "upload-audio", "", "Local media directory to upload referenced audio from (requires s3.enabled)")
	return cmd
}

func newUserCommand() *cobra.Command {
	var input service.CreateUserInput

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create an account that can log in with a password",
		Example: `  seed user --email tester@example.com --password secret123 --first-name Test`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createUser(cmd.Context(), input)
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&input.Password, "password", "", "User password, at least 8 characters (required)")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "hearsay-seed"})
	return cfg, log, nil
}

func seedLessons(ctx context.Context, file, audioDir string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	content, err := seed.LoadFile(file)
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	seeder := seed.NewSeeder(postgres.NewScenarioRepo(db), postgres.NewLessonRepo(db), log)
	res, err := seeder.Apply(ctx, content)
	if err != nil {
		return err
	}
	log.Info("lesson content seeded",
		zap.Int("scenarios_created", res.ScenariosCreated),
		zap.Int("scenarios_existing", res.ScenariosSkipped),
		zap.Int("lessons_created", res.LessonsCreated),
		zap.Int("lessons_existing", res.LessonsSkipped),
	)

	if audioDir == "" {
		return nil
	}
	if !cfg.S3.Enabled {
		return errors.New("--upload-audio needs object storage; set HEARSAY_S3_ENABLED=true")
	}
	storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	n, err := seed.NewAudioUploader(storage, cfg.S3.Bucket, cfg.Media.URLPrefix, log).Upload(ctx, content, audioDir)
	if err != nil {
		return err
	}
	log.Info("lesson audio uploaded", zap.Int("files", n))
	return nil
}

func createUser(ctx context.Context, input service.CreateUserInput) error {
	if len(input.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(postgres.NewUserRepo(db), postgres.NewProfileRepo(db))
	user, err := users.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	log.Info("user created", logger.UserID(user.ID), zap.String("email", user.Email), zap.String("username", user.Username))
	return nil
}
