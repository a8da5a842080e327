package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/markets"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

// ProgressionHandler covers ranks and reward type definitions.
type ProgressionHandler struct {
	rankRepo       repository.RankRepository
	rewardTypeRepo repository.RewardTypeRepository
	userRepo       repository.UserRepository
	tombstoneRepo  repository.TombstoneRepository
	notifier       services.Notifier
}

func NewProgressionHandler(
	rankRepo repository.RankRepository,
	rewardTypeRepo repository.RewardTypeRepository,
	userRepo repository.UserRepository,
	tombstoneRepo repository.TombstoneRepository,
	notifier services.Notifier,
) *ProgressionHandler {
	return &ProgressionHandler{
		rankRepo:       rankRepo,
		rewardTypeRepo: rewardTypeRepo,
		userRepo:       userRepo,
		tombstoneRepo:  tombstoneRepo,
		notifier:       notifier,
	}
}

func (handler *ProgressionHandler) ListRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := handler.rankRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ranks")
		return
	}
	writeJSON(w, http.StatusOK, ranks)
}

// UserRank resolves the rank a user currently holds from their total XP.
func (handler *ProgressionHandler) UserRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := handler.userRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	ranks, err := handler.rankRepo.FindAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ranks")
		return
	}

	rank, ok := markets.RankForXP(user.TotalXP(), ranks)
	if !ok {
		writeError(w, http.StatusNotFound, "no rank reached")
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

func (handler *ProgressionHandler) CreateRank(w http.ResponseWriter, r *http.Request) {
	var rank models.Rank
	if err := decodeBody(r, &rank); err != nil || rank.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := handler.rankRepo.Create(r.Context(), rank)
	if err != nil {
		slog.Error("creating rank", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create rank")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}

func (handler *ProgressionHandler) DeleteRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := handler.rankRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting rank", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete rank")
		return
	}
	if err := handler.tombstoneRepo.Record(ctx, "ranks", id); err != nil {
		slog.Error("recording rank tombstone", "error", err)
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}

func (handler *ProgressionHandler) ListRewardTypes(w http.ResponseWriter, r *http.Request) {
	rewardTypes, err := handler.rewardTypeRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load reward types")
		return
	}
	writeJSON(w, http.StatusOK, rewardTypes)
}

func (handler *ProgressionHandler) CreateRewardType(w http.ResponseWriter, r *http.Request) {
	var rewardType models.RewardTypeDefinition
	if err := decodeBody(r, &rewardType); err != nil || rewardType.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if rewardType.Category != models.RewardCategoryXP {
		rewardType.Category = models.RewardCategoryCurrency
	}

	created, err := handler.rewardTypeRepo.Create(r.Context(), rewardType)
	if err != nil {
		slog.Error("creating reward type", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create reward type")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}
