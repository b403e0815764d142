// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/silvershift/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Email    string          `json:"email"    validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Name     string          `json:"name"     validate:"required,min=1,max=100"`
	UserType string          `json:"userType" validate:"required,oneof=BUYER SELLER"`
	Profile  *ProfileRequest `json:"profile"  validate:"omitempty"`
}

func (r RegisterRequest) toData() RegisterData {
	data := RegisterData{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		UserType: r.UserType,
	}
	if r.Profile != nil {
		p := r.Profile.toProfile()
		data.Profile = &p
	}
	return data
}

type ProfileRequest struct {
	Phone    *string `json:"phone"    validate:"omitempty,max=32"`
	Location *string `json:"location" validate:"omitempty,max=120"`
	Bio      *string `json:"bio"      validate:"omitempty,max=2000"`
	Avatar   *string `json:"avatar"   validate:"omitempty,max=512"`

	BuyerIndustries []string `json:"buyerIndustries" validate:"omitempty,max=20,dive,max=100"`
	BuyerBudgetMin  *int64   `json:"buyerBudgetMin"  validate:"omitempty,min=0"`
	BuyerBudgetMax  *int64   `json:"buyerBudgetMax"  validate:"omitempty,min=0"`
	BuyerExperience *string  `json:"buyerExperience" validate:"omitempty,max=2000"`

	SellerBusinesses *int    `json:"sellerBusinesses" validate:"omitempty,min=0"`
	SellerExperience *string `json:"sellerExperience" validate:"omitempty,max=2000"`
}

func (r ProfileRequest) toProfile() user.Profile {
	return user.Profile{
		Phone:            r.Phone,
		Location:         r.Location,
		Bio:              r.Bio,
		Avatar:           r.Avatar,
		BuyerIndustries:  r.BuyerIndustries,
		BuyerBudgetMin:   r.BuyerBudgetMin,
		BuyerBudgetMax:   r.BuyerBudgetMax,
		BuyerExperience:  r.BuyerExperience,
		SellerBusinesses: r.SellerBusinesses,
		SellerExperience: r.SellerExperience,
	}
}

type SessionResponse struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	User            *user.User `json:"user"`
}

func sessionOf(s *Store) SessionResponse {
	u, ok := s.CurrentUser()
	if !ok {
		return SessionResponse{}
	}
	return SessionResponse{IsAuthenticated: true, User: &u}
}
