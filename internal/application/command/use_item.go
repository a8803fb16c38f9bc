package command

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVENTORY COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// UseHealthPotionResult is the outcome of drinking a potion.
type UseHealthPotionResult struct {
	Message       string                `json:"message"`
	Used          bool                  `json:"used"`
	Avatar        avatar.Stats          `json:"avatar"`
	Notifications []avatar.Notification `json:"notifications,omitempty"`
}

// UseHealthPotionHandler consumes one health potion from the inventory.
type UseHealthPotionHandler struct {
	avatars avatar.Repository
	log     *logger.Logger
}

// NewUseHealthPotionHandler creates a new UseHealthPotionHandler.
func NewUseHealthPotionHandler(avatars avatar.Repository, log *logger.Logger) *UseHealthPotionHandler {
	return &UseHealthPotionHandler{
		avatars: avatars,
		log:     log.With(logger.Component("use_health_potion")),
	}
}

// Handle drinks the potion. Having no potion is a domain outcome
// (Used=false), not an error.
func (h *UseHealthPotionHandler) Handle(ctx context.Context, userID string) (*UseHealthPotionResult, error) {
	if userID == "" {
		return nil, shared.NewDomainError("avatar", "UsePotion", shared.ErrInvalidID, "user id is required")
	}

	av, err := h.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifs, used := av.UseHealthPotion()
	if !used {
		return &UseHealthPotionResult{
			Message: "No health potion in inventory",
			Used:    false,
			Avatar:  av.Stats(),
		}, nil
	}

	if err := h.avatars.Update(ctx, av); err != nil {
		return nil, fmt.Errorf("use_health_potion: save avatar: %w", err)
	}

	h.log.Info("health potion used", logger.UserID(userID), logger.Int("health", int(av.Health)))

	return &UseHealthPotionResult{
		Message:       "Health restored",
		Used:          true,
		Avatar:        av.Stats(),
		Notifications: notifs,
	}, nil
}

// GrantItemCommand adds items to an avatar's inventory (shop purchase,
// reward drop).
type GrantItemCommand struct {
	UserID   string
	Item     string
	Quantity int
}

// GrantItemHandler handles the GrantItemCommand.
type GrantItemHandler struct {
	avatars avatar.Repository
	log     *logger.Logger
}

// NewGrantItemHandler creates a new GrantItemHandler.
func NewGrantItemHandler(avatars avatar.Repository, log *logger.Logger) *GrantItemHandler {
	return &GrantItemHandler{
		avatars: avatars,
		log:     log.With(logger.Component("grant_item")),
	}
}

// Handle adds the items.
func (h *GrantItemHandler) Handle(ctx context.Context, cmd GrantItemCommand) (avatar.Stats, error) {
	if cmd.UserID == "" {
		return avatar.Stats{}, shared.NewDomainError("avatar", "GrantItem", shared.ErrInvalidID, "user id is required")
	}

	av, err := h.avatars.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return avatar.Stats{}, err
	}

	if err := av.AddInventoryItem(cmd.Item, cmd.Quantity); err != nil {
		return avatar.Stats{}, err
	}
	if err := h.avatars.Update(ctx, av); err != nil {
		return avatar.Stats{}, fmt.Errorf("grant_item: save avatar: %w", err)
	}

	h.log.Info("item granted",
		logger.UserID(cmd.UserID),
		logger.String("item", cmd.Item),
		logger.Int("quantity", cmd.Quantity),
	)

	return av.Stats(), nil
}
