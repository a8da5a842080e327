package markets

import (
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
)

// SalePriceForItem applies any active market-sale discount to an item's
// cost. Overlapping sales do not stack; the deepest discount wins.
// The returned slice is always a copy.
func SalePriceForItem(market models.Market, item models.MarketItem, events []models.ScheduledEvent, now time.Time) []models.RewardItem {
	discount := activeDiscountPercent(market, events, now)

	cost := make([]models.RewardItem, len(item.Cost))
	copy(cost, item.Cost)
	if discount <= 0 {
		return cost
	}

	for i := range cost {
		cost[i].Amount -= cost[i].Amount * discount / 100
	}
	return cost
}

func activeDiscountPercent(market models.Market, events []models.ScheduledEvent, now time.Time) int {
	today := rules.ToYMD(now)
	best := 0
	for _, event := range events {
		if event.EventType != models.EventTypeMarketSale {
			continue
		}
		if event.Modifiers.MarketID != "" && event.Modifiers.MarketID != market.ID {
			continue
		}
		if event.GuildID != "" && event.GuildID != market.GuildID {
			continue
		}
		if event.StartDate <= today && today <= event.EndDate && event.Modifiers.DiscountPercent > best {
			best = event.Modifiers.DiscountPercent
		}
	}
	return best
}
