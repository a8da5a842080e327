package models

import "time"

type Role string

const (
	RoleDonegeonMaster Role = "donegeon_master"
	RoleGatekeeper     Role = "gatekeeper"
	RoleExplorer       Role = "explorer"
)

type QuestType string

const (
	QuestTypeDuty    QuestType = "duty"
	QuestTypeVenture QuestType = "venture"
	QuestTypeJourney QuestType = "journey"
)

type QuestKind string

const (
	QuestKindStandard           QuestKind = "standard"
	QuestKindRedemption         QuestKind = "redemption"
	QuestKindGuildCollaborative QuestKind = "guild_collaborative"
)

type CompletionStatus string

const (
	CompletionStatusPending  CompletionStatus = "pending"
	CompletionStatusApproved CompletionStatus = "approved"
	CompletionStatusRejected CompletionStatus = "rejected"
)

type EventType string

const (
	EventTypeVacation     EventType = "vacation"
	EventTypeBonusXP      EventType = "bonus_xp"
	EventTypeMarketSale   EventType = "market_sale"
	EventTypeAnnouncement EventType = "announcement"
)

type RewardCategory string

const (
	RewardCategoryCurrency RewardCategory = "currency"
	RewardCategoryXP       RewardCategory = "xp"
)

type User struct {
	ID                 string         `json:"id"`
	GameName           string         `json:"gameName"`
	Email              string         `json:"email"`
	Role               Role           `json:"role"`
	PersonalPurse      map[string]int `json:"personalPurse"`
	PersonalExperience map[string]int `json:"personalExperience"`
	GuildIDs           []string       `json:"guildIds"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// TotalXP is the sum of every experience pool; rank thresholds are
// compared against this figure.
func (user User) TotalXP() int {
	total := 0
	for _, amount := range user.PersonalExperience {
		total += amount
	}
	return total
}

type RewardItem struct {
	RewardTypeID string `json:"rewardTypeId"`
	Amount       int    `json:"amount"`
}

type RewardTypeDefinition struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  RewardCategory `json:"category"`
	IsCore    bool           `json:"isCore"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type Quest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        QuestType `json:"type"`
	Kind        QuestKind `json:"kind"`

	// RRule drives Duty scheduling: "FREQ=DAILY", "FREQ=WEEKLY;BYDAY=MO,FR",
	// "FREQ=MONTHLY;BYMONTHDAY=1,15". Empty for Ventures and Journeys.
	RRule string `json:"rrule,omitempty"`

	// Ventures and Journeys are time-boxed by explicit timestamps instead.
	StartDateTime *time.Time `json:"startDateTime,omitempty"`
	EndDateTime   *time.Time `json:"endDateTime,omitempty"`

	// EndTime is a Duty's daily wall-clock cutoff, "HH:MM". Empty = no cutoff.
	EndTime string `json:"endTime,omitempty"`

	// Empty AssignedUserIDs means the quest is for everyone in its scope.
	AssignedUserIDs []string `json:"assignedUserIds"`

	// Empty GuildID means the quest lives in personal scope.
	GuildID string `json:"guildId,omitempty"`

	IsActive   bool `json:"isActive"`
	IsOptional bool `json:"isOptional"`

	// Nil = unlimited-once: completable a single time, ever. A number caps
	// approved completions, and for Ventures doubles as the claim-slot count.
	AvailabilityCount *int `json:"availabilityCount"`

	TodoUserIDs      []string `json:"todoUserIds"`
	ClaimedByUserIDs []string `json:"claimedByUserIds"`

	Tags    []string     `json:"tags"`
	Rewards []RewardItem `json:"rewards"`

	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type QuestCompletion struct {
	ID          string           `json:"id"`
	QuestID     string           `json:"questId"`
	UserID      string           `json:"userId"`
	GuildID     string           `json:"guildId,omitempty"`
	CompletedAt time.Time        `json:"completedAt"`
	Status      CompletionStatus `json:"status"`
	Note        string           `json:"note,omitempty"`
	ActedOnBy   string           `json:"actedOnBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type EventModifiers struct {
	XPMultiplier    float64 `json:"xpMultiplier,omitempty"`
	MarketID        string  `json:"marketId,omitempty"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
}

// ScheduledEvent is a time-boxed modifier. StartDate and EndDate are
// inclusive calendar days in "2006-01-02" form.
type ScheduledEvent struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	EventType EventType      `json:"eventType"`
	GuildID   string         `json:"guildId,omitempty"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Modifiers EventModifiers `json:"modifiers"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type Guild struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MarketStatusType string

const (
	MarketStatusOpen        MarketStatusType = "open"
	MarketStatusClosed      MarketStatusType = "closed"
	MarketStatusConditional MarketStatusType = "conditional"
)

type ConditionType string

const (
	ConditionMinRank        ConditionType = "min_rank"
	ConditionDayOfWeek      ConditionType = "day_of_week"
	ConditionDateRange      ConditionType = "date_range"
	ConditionQuestCompleted ConditionType = "quest_completed"
)

type ConditionLogic string

const (
	ConditionLogicAll ConditionLogic = "all"
	ConditionLogicAny ConditionLogic = "any"
)

type MarketCondition struct {
	Type ConditionType `json:"type"`

	RankID    string `json:"rankId,omitempty"`
	Days      []int  `json:"days,omitempty"` // 0 = Sunday, matching time.Weekday
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	QuestID   string `json:"questId,omitempty"`
}

type MarketStatus struct {
	Type       MarketStatusType  `json:"type"`
	Logic      ConditionLogic    `json:"logic,omitempty"`
	Conditions []MarketCondition `json:"conditions,omitempty"`
}

type MarketItem struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Cost  []RewardItem `json:"cost"`
}

type Market struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	GuildID   string       `json:"guildId,omitempty"`
	Status    MarketStatus `json:"status"`
	Items     []MarketItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type SetbackEffectType string

const (
	SetbackEffectDeductRewards SetbackEffectType = "deduct_rewards"
	SetbackEffectCloseMarket   SetbackEffectType = "close_market"
)

type SetbackEffect struct {
	Type      SetbackEffectType `json:"type"`
	MarketIDs []string          `json:"marketIds,omitempty"`
	Rewards   []RewardItem      `json:"rewards,omitempty"`
}

type SetbackDefinition struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Effects           []SetbackEffect `json:"effects"`
	RedemptionQuestID string          `json:"redemptionQuestId,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type SetbackStatus string

const (
	SetbackStatusActive   SetbackStatus = "active"
	SetbackStatusExpired  SetbackStatus = "expired"
	SetbackStatusRedeemed SetbackStatus = "redeemed"
)

type AppliedSetback struct {
	ID        string        `json:"id"`
	SetbackID string        `json:"setbackId"`
	UserID    string        `json:"userId"`
	Status    SetbackStatus `json:"status"`
	AppliedAt time.Time     `json:"appliedAt"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	AppliedBy string        `json:"appliedBy,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type APIToken struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TokenHash       string     `json:"-"`
	Scope           string     `json:"scope,omitempty"`
	CreatedByUserID string     `json:"createdByUserId"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type Rank struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	XPThreshold int       `json:"xpThreshold"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
