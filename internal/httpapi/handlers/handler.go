package handlers

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/ai"
	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/config"
	"github.com/CijeTheCreator/consultify/internal/consultation"
	"github.com/CijeTheCreator/consultify/internal/directory"
	"github.com/CijeTheCreator/consultify/internal/prescription"
	"github.com/CijeTheCreator/consultify/internal/store/redisstore"
	"github.com/CijeTheCreator/consultify/internal/triage"
)

type Handler struct {
	Cfg config.Config

	Directory     *directory.Repo
	Consultations *consultation.Service
	Chat          *chat.Service
	Triage        *triage.Service
	Prescriptions *prescription.Service
}

// NewHandler wires the service graph. emailer may be nil when the broker is
// unavailable; prescriptions then skip notification emails.
func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, emailer prescription.EmailEnqueuer) *Handler {
	dirRepo := directory.NewRepo(db)
	resolver := directory.NewResolver(dirRepo, rds)

	consRepo := consultation.NewRepo(db)
	consSvc := consultation.NewService(db, consRepo, dirRepo)

	chatRepo := chat.NewRepo(db)
	prescSvc := prescription.NewService(db, consRepo, emailer)
	chatSvc := chat.NewService(chatRepo, consRepo, resolver, prescSvc, cfg.TypingFreshness)

	provider := buildProvider(cfg)
	engine := triage.NewEngine(provider, cfg.TriageMaxTurns, cfg.AITimeout)
	triageSvc := triage.NewService(engine, chatRepo, consRepo)

	return &Handler{
		Cfg:           cfg,
		Directory:     dirRepo,
		Consultations: consSvc,
		Chat:          chatSvc,
		Triage:        triageSvc,
		Prescriptions: prescSvc,
	}
}

func buildProvider(cfg config.Config) ai.Provider {
	reg := ai.NewRegistry()
	reg.Register("mistral", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if model == "" {
			model = cfg.MistralModel
		}
		return ai.NewMistralProvider("", cfg.MistralAPIKey, model), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if model == "" {
			model = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, model), nil
	})
	reg.Register("gemini", func(ctx context.Context, model string) (ai.Provider, error) {
		if model == "" {
			model = cfg.GeminiModel
		}
		return ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey, model)
	})

	provider, err := reg.Get(context.Background(), cfg.AIProvider, "")
	if err != nil {
		log.Fatalf("ai provider %q: %v", cfg.AIProvider, err)
	}
	return provider
}
