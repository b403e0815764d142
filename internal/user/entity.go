// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	UserType         string    `json:"userType"`
	Verified         bool      `json:"verified"`
	SubscriptionTier string    `json:"subscriptionTier"`
	Profile          Profile   `json:"profile"`
	CreatedAt        time.Time `json:"createdAt"`
	PasswordHash     string    `json:"-"`
}

// Profile fields are all optional; nil means not yet provided.
type Profile struct {
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`

	BuyerIndustries []string `json:"buyerIndustries,omitempty"`
	BuyerBudgetMin  *int64   `json:"buyerBudgetMin,omitempty"`
	BuyerBudgetMax  *int64   `json:"buyerBudgetMax,omitempty"`
	BuyerExperience *string  `json:"buyerExperience,omitempty"`

	SellerBusinesses *int    `json:"sellerBusinesses,omitempty"`
	SellerExperience *string `json:"sellerExperience,omitempty"`
}

// Merge returns p with every field set in update overwritten. Fields left
// nil in update keep their current value.
func (p Profile) Merge(update Profile) Profile {
	out := p

	if update.Phone != nil {
		out.Phone = update.Phone
	}
	if update.Location != nil {
		out.Location = update.Location
	}
	if update.Bio != nil {
		out.Bio = update.Bio
	}
	if update.Avatar != nil {
		out.Avatar = update.Avatar
	}
	if update.BuyerIndustries != nil {
		out.BuyerIndustries = append([]string(nil), update.BuyerIndustries...)
	}
	if update.BuyerBudgetMin != nil {
		out.BuyerBudgetMin = update.BuyerBudgetMin
	}
	if update.BuyerBudgetMax != nil {
		out.BuyerBudgetMax = update.BuyerBudgetMax
	}
	if update.BuyerExperience != nil {
		out.BuyerExperience = update.BuyerExperience
	}
	if update.SellerBusinesses != nil {
		out.SellerBusinesses = update.SellerBusinesses
	}
	if update.SellerExperience != nil {
		out.SellerExperience = update.SellerExperience
	}

	return out
}

func (u *User) IsAdmin() bool {
	return u.UserType == TypeAdmin
}

func (u *User) IsBuyer() bool {
	return u.UserType == TypeBuyer
}

func (u *User) IsSeller() bool {
	return u.UserType == TypeSeller
}

const (
	TypeBuyer  = "BUYER"
	TypeSeller = "SELLER"
	TypeAdmin  = "ADMIN"
)

const (
	TierFree  = "FREE"
	TierPro   = "PRO"
	TierElite = "ELITE"
)
