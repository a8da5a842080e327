package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/markets"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
)

type MarketHandler struct {
	marketRepo         repository.MarketRepository
	userRepo           repository.UserRepository
	completionRepo     repository.QuestCompletionRepository
	appliedSetbackRepo repository.AppliedSetbackRepository
	setbackDefRepo     repository.SetbackDefinitionRepository
	rankRepo           repository.RankRepository
	eventRepo          repository.ScheduledEventRepository
}

func NewMarketHandler(
	marketRepo repository.MarketRepository,
	userRepo repository.UserRepository,
	completionRepo repository.QuestCompletionRepository,
	appliedSetbackRepo repository.AppliedSetbackRepository,
	setbackDefRepo repository.SetbackDefinitionRepository,
	rankRepo repository.RankRepository,
	eventRepo repository.ScheduledEventRepository,
) *MarketHandler {
	return &MarketHandler{
		marketRepo:         marketRepo,
		userRepo:           userRepo,
		completionRepo:     completionRepo,
		appliedSetbackRepo: appliedSetbackRepo,
		setbackDefRepo:     setbackDefRepo,
		rankRepo:           rankRepo,
		eventRepo:          eventRepo,
	}
}

func (handler *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	marketList, err := handler.marketRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load markets")
		return
	}
	writeJSON(w, http.StatusOK, marketList)
}

func (handler *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	market, err := handler.marketRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "market not found")
		return
	}
	writeJSON(w, http.StatusOK, market)
}

// Status resolves whether a market is open for the named user right now.
func (handler *MarketHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	market, err := handler.marketRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "market not found")
		return
	}
	user, err := handler.userRepo.FindByID(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	data, err := handler.loadMarketData(r)
	if err != nil {
		slog.Error("loading market evaluation data", "market_id", market.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to evaluate market")
		return
	}

	status := markets.IsMarketOpenForUser(market, user, data, time.Now())
	writeJSON(w, http.StatusOK, status)
}

// pricedItem is a market item with its effective cost after any active
// sale event is applied.
type pricedItem struct {
	models.MarketItem
	CurrentCost []models.RewardItem `json:"currentCost"`
}

// Items lists a market's stock with sale pricing applied.
func (handler *MarketHandler) Items(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	market, err := handler.marketRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "market not found")
		return
	}
	events, err := handler.eventRepo.FindAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scheduled events")
		return
	}

	now := time.Now()
	priced := make([]pricedItem, 0, len(market.Items))
	for _, item := range market.Items {
		priced = append(priced, pricedItem{
			MarketItem:  item,
			CurrentCost: markets.SalePriceForItem(market, item, events, now),
		})
	}
	writeJSON(w, http.StatusOK, priced)
}

func (handler *MarketHandler) loadMarketData(r *http.Request) (markets.Data, error) {
	ctx := r.Context()
	userID := r.URL.Query().Get("userId")

	var data markets.Data
	var err error

	if data.AppliedSetbacks, err = handler.appliedSetbackRepo.FindByUser(ctx, userID); err != nil {
		return markets.Data{}, err
	}
	if data.SetbackDefinitions, err = handler.setbackDefRepo.FindAll(ctx); err != nil {
		return markets.Data{}, err
	}
	if data.QuestCompletions, err = handler.completionRepo.FindAll(ctx, repository.CompletionFilter{UserID: &userID}); err != nil {
		return markets.Data{}, err
	}
	if data.Ranks, err = handler.rankRepo.FindAll(ctx); err != nil {
		return markets.Data{}, err
	}
	return data, nil
}
