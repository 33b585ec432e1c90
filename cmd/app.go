package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lshigami/litdrill/config"
	"github.com/lshigami/litdrill/database"
	"github.com/lshigami/litdrill/internal/bot"
	"github.com/lshigami/litdrill/internal/controller"
	adminctrl "github.com/lshigami/litdrill/internal/controller/admin"
	userctrl "github.com/lshigami/litdrill/internal/controller/user"
	"github.com/lshigami/litdrill/internal/notifier"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/lshigami/litdrill/internal/session"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func appOptions() fx.Option {
	return fx.Options(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewSessionStore,
			NewNotifier,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewLearnerRepository,
			repository.NewQuestionRepository,
			repository.NewAssignmentRepository,
			repository.NewReviewCardRepository,
		),

		// Services Layer
		fx.Provide(
			NewLineScheduler,
			NewAnswerValidator,
			NewAssignmentSelector,
			service.NewLearnerService,
			service.NewQuestionService,
			service.NewModerationService,
			NewEngine,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewHealthController,
			func(e *bot.Engine) *userctrl.UpdateController {
				return userctrl.NewUpdateController(e, bot.CommandStart, bot.CommandTasks)
			},
			func(m service.ModerationService, l service.LearnerService, cfg *config.Config) *adminctrl.ModerationController {
				return adminctrl.NewModerationController(m, l, cfg.Schedule.Location)
			},
			adminctrl.NewQuestionController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)
}

func NewLineScheduler(cfg *config.Config) (service.LineScheduler, error) {
	return service.NewLineScheduler(cfg.Schedule.Lines, cfg.Schedule.Window)
}

func NewAnswerValidator(cfg *config.Config) service.AnswerValidator {
	return service.NewAnswerValidator(cfg.Schedule.NumericLine)
}

func NewAssignmentSelector(
	db *gorm.DB,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	scheduler service.LineScheduler,
	cfg *config.Config,
) (service.AssignmentSelector, error) {
	strategy, err := service.ParseStrategy(cfg.Selection.Strategy)
	if err != nil {
		return nil, err
	}
	seed := cfg.Selection.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return service.NewAssignmentSelector(db, questions, assignments, scheduler, strategy, cfg.Schedule.DailyQuota, rand.New(rand.NewSource(seed))), nil
}

// NewSessionStore returns the redis store when configured, else process memory.
func NewSessionStore(lc fx.Lifecycle, cfg *config.Config) (session.Store, error) {
	if cfg.Session.Store != "redis" {
		log.Warn().Msg("Using in-memory session store. Conversations in progress are lost on restart.")
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")
	return session.NewRedisStore(client, cfg.Session.TTL), nil
}

func NewNotifier(lc fx.Lifecycle, cfg *config.Config) notifier.Notifier {
	dispatcher := notifier.NewDispatcher(notifier.NewSender(cfg.Operator.WebhookURL), cfg.Operator.NotifyInterval)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return dispatcher.Stop(ctx)
		},
	})
	return dispatcher
}

func NewEngine(
	learners service.LearnerService,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	cards repository.ReviewCardRepository,
	selector service.AssignmentSelector,
	validator service.AnswerValidator,
	moderation service.ModerationService,
	sessions session.Store,
	notify notifier.Notifier,
	cfg *config.Config,
) *bot.Engine {
	if cfg.Operator.ChatID == 0 {
		log.Warn().Msg("OPERATOR_CHAT_ID is not set. Operator reports are disabled.")
	}
	return bot.NewEngine(learners, questions, assignments, cards, selector, validator, moderation, sessions, notify, bot.Options{
		Resume:         cfg.Session.Resume,
		OperatorChatID: cfg.Operator.ChatID,
		Location:       cfg.Schedule.Location,
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.Migrate(db)
}
