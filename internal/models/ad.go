package models

import (
	"time"
)

// Категории товаров. Закрытый список, хранится как есть в колонке category.
const (
	CategoryClothing     = "clothing"
	CategoryShoes        = "shoes"
	CategoryAccessories  = "accessories"
	CategoryHobby        = "hobby"
	CategoryElectronics  = "electronics"
	CategoryHomeGarden   = "home_garden"
	CategorySpareParts   = "spare_parts"
	CategoryKids         = "kids"
	CategoryBeautyHealth = "beauty_health"
)

// Состояние товара.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

var adCategories = []string{
	CategoryClothing,
	CategoryShoes,
	CategoryAccessories,
	CategoryHobby,
	CategoryElectronics,
	CategoryHomeGarden,
	CategorySpareParts,
	CategoryKids,
	CategoryBeautyHealth,
}

var adConditions = []string{
	ConditionNew,
	ConditionUsed,
}

// AdCategories returns the closed category list for choice controls.
func AdCategories() []string {
	out := make([]string, len(adCategories))
	copy(out, adCategories)
	return out
}

// AdConditions returns the closed condition list for choice controls.
func AdConditions() []string {
	out := make([]string, len(adConditions))
	copy(out, adConditions)
	return out
}

func ValidAdCategory(category string) bool {
	for _, c := range adCategories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidAdCondition(condition string) bool {
	for _, c := range adConditions {
		if c == condition {
			return true
		}
	}
	return false
}

type Ad struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Category    string     `json:"category"`
	Condition   string     `json:"condition"`
	User        UserBrief  `json:"user"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// AdUpdate carries a partial update; empty fields are left unchanged.
type AdUpdate struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
}

type AdSearchRequest struct {
	Query     string `json:"query"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Page      int    `json:"page"`
}

type AdSearchResponse struct {
	Ads     []Ad `json:"ads"`
	Page    int  `json:"page"`
	HasMore bool `json:"has_more"`
}

// AdOptions feeds presentation-layer choice controls.
type AdOptions struct {
	Categories []string `json:"categories"`
	Conditions []string `json:"conditions"`
}
