package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type SetbackHandler struct {
	setbackDefRepo     repository.SetbackDefinitionRepository
	appliedSetbackRepo repository.AppliedSetbackRepository
	userRepo           repository.UserRepository
	notifier           services.Notifier
}

func NewSetbackHandler(
	setbackDefRepo repository.SetbackDefinitionRepository,
	appliedSetbackRepo repository.AppliedSetbackRepository,
	userRepo repository.UserRepository,
	notifier services.Notifier,
) *SetbackHandler {
	return &SetbackHandler{
		setbackDefRepo:     setbackDefRepo,
		appliedSetbackRepo: appliedSetbackRepo,
		userRepo:           userRepo,
		notifier:           notifier,
	}
}

func (handler *SetbackHandler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	definitions, err := handler.setbackDefRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load setback definitions")
		return
	}
	writeJSON(w, http.StatusOK, definitions)
}

func (handler *SetbackHandler) CreateDefinition(w http.ResponseWriter, r *http.Request) {
	var definition models.SetbackDefinition
	if err := decodeBody(r, &definition); err != nil || definition.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := handler.setbackDefRepo.Create(r.Context(), definition)
	if err != nil {
		slog.Error("creating setback definition", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create setback definition")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}

type applySetbackRequest struct {
	SetbackID string     `json:"setbackId"`
	UserID    string     `json:"userId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Apply puts a setback on a user. Deduct effects are settled immediately;
// market closures take effect through the market status resolver.
func (handler *SetbackHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetUser(ctx)

	var request applySetbackRequest
	if err := decodeBody(r, &request); err != nil || request.SetbackID == "" || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "setbackId and userId are required")
		return
	}

	definition, err := handler.setbackDefRepo.FindByID(ctx, request.SetbackID)
	if err != nil {
		writeError(w, http.StatusNotFound, "setback definition not found")
		return
	}

	user, err := handler.userRepo.FindByID(ctx, request.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if deducted := applyDeductions(&user, definition); deducted {
		if err := handler.userRepo.Update(ctx, user); err != nil {
			slog.Error("deducting setback rewards", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to apply setback")
			return
		}
	}

	applied, err := handler.appliedSetbackRepo.Create(ctx, models.AppliedSetback{
		SetbackID: definition.ID,
		UserID:    user.ID,
		Status:    models.SetbackStatusActive,
		AppliedAt: time.Now(),
		ExpiresAt: request.ExpiresAt,
		AppliedBy: actor.ID,
	})
	if err != nil {
		slog.Error("applying setback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to apply setback")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, applied)
}

// applyDeductions drains deduct_rewards effects from the user's balances,
// clamping at zero. Reports whether anything changed.
func applyDeductions(user *models.User, definition models.SetbackDefinition) bool {
	changed := false
	for _, effect := range definition.Effects {
		if effect.Type != models.SetbackEffectDeductRewards {
			continue
		}
		if user.PersonalPurse == nil {
			user.PersonalPurse = map[string]int{}
		}
		for _, reward := range effect.Rewards {
			balance := user.PersonalPurse[reward.RewardTypeID] - reward.Amount
			if balance < 0 {
				balance = 0
			}
			user.PersonalPurse[reward.RewardTypeID] = balance
			changed = true
		}
	}
	return changed
}

type setbackStatusRequest struct {
	Status models.SetbackStatus `json:"status"`
}

// UpdateStatus redeems or expires an applied setback.
func (handler *SetbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var request setbackStatusRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload")
		return
	}
	switch request.Status {
	case models.SetbackStatusActive, models.SetbackStatusExpired, models.SetbackStatusRedeemed:
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := handler.appliedSetbackRepo.UpdateStatus(r.Context(), chi.URLParam(r, "id"), request.Status); err != nil {
		slog.Error("updating applied setback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update setback")
		return
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}
