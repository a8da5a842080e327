package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/config"
	"github.com/mckayc/task-donegeon-sub006/internal/handlers"
	"github.com/mckayc/task-donegeon-sub006/internal/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, broadcaster *handlers.Broadcaster) *Server {
	userRepo := repository.NewUserRepository(database)
	questRepo := repository.NewQuestRepository(database)
	completionRepo := repository.NewQuestCompletionRepository(database)
	eventRepo := repository.NewScheduledEventRepository(database)
	marketRepo := repository.NewMarketRepository(database)
	guildRepo := repository.NewGuildRepository(database)
	setbackDefRepo := repository.NewSetbackDefinitionRepository(database)
	appliedSetbackRepo := repository.NewAppliedSetbackRepository(database)
	rankRepo := repository.NewRankRepository(database)
	rewardTypeRepo := repository.NewRewardTypeRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)
	tombstoneRepo := repository.NewTombstoneRepository(database)

	questService := services.NewQuestService(questRepo, completionRepo, userRepo, eventRepo, rewardTypeRepo, broadcaster)
	syncService := services.NewSyncService(
		userRepo, questRepo, completionRepo, marketRepo, guildRepo, eventRepo,
		appliedSetbackRepo, setbackDefRepo, rankRepo, rewardTypeRepo, settingsRepo, tombstoneRepo,
	)

	questHandler := handlers.NewQuestHandler(questRepo, completionRepo, userRepo, eventRepo, tombstoneRepo, questService, broadcaster)
	completionHandler := handlers.NewCompletionHandler(completionRepo, questService)
	marketHandler := handlers.NewMarketHandler(marketRepo, userRepo, completionRepo, appliedSetbackRepo, setbackDefRepo, rankRepo, eventRepo)
	userHandler := handlers.NewUserHandler(userRepo, broadcaster)
	guildHandler := handlers.NewGuildHandler(guildRepo, tombstoneRepo, broadcaster)
	eventHandler := handlers.NewEventHandler(eventRepo, tombstoneRepo, broadcaster)
	progressionHandler := handlers.NewProgressionHandler(rankRepo, rewardTypeRepo, userRepo, tombstoneRepo, broadcaster)
	setbackHandler := handlers.NewSetbackHandler(setbackDefRepo, appliedSetbackRepo, userRepo, broadcaster)
	syncHandler := handlers.NewSyncHandler(syncService)
	streamHandler := handlers.NewStreamHandler(broadcaster)
	adminHandler := handlers.NewAdminHandler(userRepo, tokenRepo, settingsRepo, broadcaster)
	icalHandler := handlers.NewICalHandler(questRepo, eventRepo, tokenRepo, settingsRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/ical", icalHandler.Feed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))

		r.Get("/api/sync/delta", syncHandler.Delta)
		r.Get("/api/sync/events", streamHandler.Events)

		r.Get("/api/quests", questHandler.List)
		r.Get("/api/quests/{id}", questHandler.Get)
		r.Get("/api/quests/{id}/status", questHandler.Status)
		r.Post("/api/quests/{id}/complete", questHandler.Complete)
		r.Post("/api/quests/{id}/claim", questHandler.Claim)
		r.Post("/api/quests/{id}/release", questHandler.Release)
		r.Post("/api/quests/{id}/todo", questHandler.Todo)

		r.Get("/api/completions", completionHandler.List)

		r.Get("/api/markets", marketHandler.List)
		r.Get("/api/markets/{id}", marketHandler.Get)
		r.Get("/api/markets/{id}/status", marketHandler.Status)
		r.Get("/api/markets/{id}/items", marketHandler.Items)

		r.Get("/api/users", userHandler.List)
		r.Get("/api/users/{id}", userHandler.Get)
		r.Get("/api/users/{id}/rank", progressionHandler.UserRank)
		r.Get("/api/guilds", guildHandler.List)
		r.Get("/api/events", eventHandler.List)
		r.Get("/api/ranks", progressionHandler.ListRanks)
		r.Get("/api/reward-types", progressionHandler.ListRewardTypes)
		r.Get("/api/setbacks", setbackHandler.ListDefinitions)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/api/quests", questHandler.Create)
			r.Put("/api/quests/{id}", questHandler.Update)
			r.Delete("/api/quests/{id}", questHandler.Delete)

			r.Post("/api/completions/{id}/approve", completionHandler.Approve)
			r.Post("/api/completions/{id}/reject", completionHandler.Reject)

			r.Post("/api/users", userHandler.Create)
			r.Post("/api/users/{id}/role", adminHandler.UpdateUserRole)

			r.Post("/api/guilds", guildHandler.Create)
			r.Put("/api/guilds/{id}", guildHandler.Update)
			r.Delete("/api/guilds/{id}", guildHandler.Delete)

			r.Post("/api/events", eventHandler.Create)
			r.Put("/api/events/{id}", eventHandler.Update)
			r.Delete("/api/events/{id}", eventHandler.Delete)

			r.Post("/api/ranks", progressionHandler.CreateRank)
			r.Delete("/api/ranks/{id}", progressionHandler.DeleteRank)
			r.Post("/api/reward-types", progressionHandler.CreateRewardType)

			r.Post("/api/setbacks", setbackHandler.CreateDefinition)
			r.Post("/api/setbacks/apply", setbackHandler.Apply)
			r.Post("/api/setbacks/applied/{id}/status", setbackHandler.UpdateStatus)

			r.Post("/api/tokens", adminHandler.CreateToken)
			r.Delete("/api/tokens/{id}", adminHandler.DeleteToken)
			r.Post("/api/settings", adminHandler.UpdateSettings)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
