package api

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"evently/server/internal/common"
	"evently/server/internal/db"
	"evently/server/internal/db/repositories"
	"evently/server/internal/metrics"
	"evently/server/internal/services"
	"evently/server/internal/session"
	"evently/server/internal/store"
)

type Repositories struct {
	Profiles    *repositories.ProfileRepository
	Events      *repositories.EventRepository
	EventSearch *repositories.EventSearchRepository
	Venues      *repositories.VenueRepository
	Analytics   *repositories.AnalyticsRepository
}

type Services struct {
	Cache           *common.CacheService
	Queue           *common.ConfirmationQueueService
	Mailer          *common.Mailer
	Events          *services.EventService
	Tickets         *services.TicketService
	Venues          *services.VenueService
	Users           *services.UserService
	Analytics       *services.AnalyticsService
	Recommendations *services.RecommendationService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Redis    *redis.Client
	Store    *store.Store
	Registry *session.Registry
	Validate *validator.Validate
}

// InitDependencies wires the repositories, services, the account store
// and the per-client session registry. db.InitPostgres and
// db.InitPostgresORM must have run first.
func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Profiles:    repositories.NewProfileRepository(db.PgDB),
		Events:      repositories.NewEventRepository(db.PgDB),
		EventSearch: repositories.NewEventSearchRepository(db.DB),
		Venues:      repositories.NewVenueRepository(db.PgDB),
		Analytics:   repositories.NewAnalyticsRepository(db.DB),
	}

	rdb := common.NewRedisClient()
	cacheSvc := common.NewCacheService(5*time.Minute, 10*time.Minute)
	queueSvc := common.NewConfirmationQueueService(rdb)
	mailer := common.NewMailer(
		os.Getenv("MAILGUN_DOMAIN"),
		os.Getenv("MAILGUN_API_KEY"),
		os.Getenv("MAILGUN_SENDER"),
	)

	accountStore := store.New(db.DB, rdb, os.Getenv("JWT_SECRET"))
	registry := session.NewRegistry(accountStore, 30*time.Minute)

	eventSvc := services.NewEventService(repos.Events, repos.EventSearch, repos.Venues, cacheSvc, metricsReg)

	svcs := &Services{
		Cache:           cacheSvc,
		Queue:           queueSvc,
		Mailer:          mailer,
		Events:          eventSvc,
		Tickets:         services.NewTicketService(db.PgDB, queueSvc, metricsReg),
		Venues:          services.NewVenueService(repos.Venues),
		Users:           services.NewUserService(repos.Profiles),
		Analytics:       services.NewAnalyticsService(repos.Analytics, cacheSvc),
		Recommendations: services.NewRecommendationService(os.Getenv("OPENAI_API_KEY"), eventSvc),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Redis:    rdb,
		Store:    accountStore,
		Registry: registry,
		Validate: validator.New(),
	}, nil
}
