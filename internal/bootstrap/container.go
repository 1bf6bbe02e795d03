package bootstrap

import (
	"context"
	"fmt"
	"log"

	"hr-faq-be/internal/config"
	"hr-faq-be/internal/controller"
	"hr-faq-be/internal/metrics"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/pkg/mailer"
	"hr-faq-be/internal/pkg/serverutils"
	"hr-faq-be/internal/repository/memory"
	"hr-faq-be/internal/repository/redisstore"
	"hr-faq-be/internal/repository/unitofwork"
	"hr-faq-be/internal/service"
	"hr-faq-be/pkg/embedding"
	"hr-faq-be/pkg/embedding/jina"
	"hr-faq-be/pkg/events"
	"hr-faq-be/pkg/rag/corpus"
	"hr-faq-be/pkg/rag/dialogue"
	"hr-faq-be/pkg/rag/rerank"
	"hr-faq-be/pkg/rag/retrieval"
	"hr-faq-be/pkg/rag/session"
	"hr-faq-be/pkg/translate"

	pktNats "hr-faq-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FaqController    controller.IFaqController
	AdminController  controller.IAdminController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	Logger  logger.ILogger
	Metrics *metrics.Metrics

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(logger.Options{
		FilePath:   cfg.App.LogFilePath,
		Production: cfg.IsProduction(),
	})
	m := metrics.New(cfg.App.MetricsNamespace)
	c := &Container{Logger: sysLogger, Metrics: m}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			var mail mailer.IEmailService
			if cfg.Mail.Enabled() {
				mail = mailer.NewEmailService(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password,
					cfg.Mail.SenderEmail, cfg.Mail.Recipients, cfg.Mail.AdminURL)
			}
			c.NotificationService = service.NewNotificationService(natsSub, mail, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 3. Model clients
	passages, err := corpus.Load(cfg.Retrieval.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	log.Printf("[INFO] Loaded %d passages from %s", passages.Len(), cfg.Retrieval.CorpusPath)

	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Models.EmbeddingProvider {
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Models.JinaAPIKey, cfg.Models.JinaModel, cfg.Models.EmbeddingDims, cfg.Models.Timeout)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewOllamaProvider(cfg.Models.EmbeddingURL, cfg.Models.EmbeddingModel, cfg.Models.Timeout)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Models.EmbeddingModel)
	}

	var translator translate.Translator = translate.NopTranslator{}
	if cfg.Models.TranslatorURL != "" {
		translator = translate.NewHTTPTranslator(cfg.Models.TranslatorURL, cfg.Models.TranslatorAPIKey, cfg.Models.Timeout)
	}

	reranker := rerank.NewReranker(
		rerank.NewHTTPScoreModel(cfg.Models.ScorerURL, cfg.Models.Timeout),
		passages,
		rerank.Config{
			BatchSize:   cfg.Retrieval.BatchSize,
			MaxPassages: cfg.Retrieval.MaxPassages,
			TopK:        cfg.Retrieval.TopK,
		},
	)

	// 4. Session storage
	var sessionStore session.Store
	switch cfg.Session.Store {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		sessionStore = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
	default:
		sessionStore = memory.NewSessionRepository(cfg.Session.TTL, 0)
	}

	// 5. Engines
	dialogueController := dialogue.NewController(
		session.NewManager(sessionStore),
		service.NewEmployeeDirectory(uowFactory),
		sysLogger,
		m,
	)

	pipeline := retrieval.NewPipeline(retrieval.Deps{
		Ranker:     reranker,
		Embedder:   embeddingProvider,
		Store:      service.NewAnswerStore(uowFactory),
		Translator: translator,
		Recorder:   service.NewPublisherService(service.InteractionTopic, pubSub, sysLogger),
		Publisher:  publisher,
		Logger:     sysLogger,
		Metrics:    m,
	}, retrieval.Config{
		CacheTopK:         cfg.Retrieval.CacheTopK,
		CacheHitThreshold: cfg.Retrieval.CacheHitThreshold,
		RelatedThreshold:  cfg.Retrieval.RelatedThreshold,
		RelatedMax:        cfg.Retrieval.RelatedMax,
		ConfidenceGate:    cfg.Retrieval.ConfidenceGate,
		DefaultTopK:       cfg.Retrieval.TopK,
	})

	// 6. Services
	c.ConsumerService = service.NewConsumerService(pubSub, service.InteractionTopic, uowFactory, sysLogger)
	faqService := service.NewFaqService(uowFactory, dialogueController, pipeline, publisher, sysLogger, m, cfg.App.RequestTimeout)
	adminService := service.NewAdminService(uowFactory, embeddingProvider, dialogueController, publisher, sysLogger)

	// 7. Controllers
	limiter := serverutils.NewIPRateLimiter(cfg.App.RateLimitPerSecond, cfg.App.RateLimitBurst)
	adminAuth := serverutils.NewAdminAuth(cfg.Admin.Secret, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	if cfg.Admin.Secret == "" {
		log.Printf("[WARN] ADMIN_SECRET is not set, admin endpoints are disabled")
	}

	c.FaqController = controller.NewFaqController(faqService, limiter.Middleware)
	c.AdminController = controller.NewAdminController(adminService, adminAuth)
	c.HealthController = controller.NewHealthController(passages.Len(), cfg.Session.Store, func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	return c, nil
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
