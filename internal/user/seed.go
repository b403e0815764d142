// AngelaMos | 2026
// seed.go

package user

import (
	"time"
)

// DemoPassword is the credential every seeded account accepts.
const DemoPassword = "password123"

func ptr[T any](v T) *T {
	return &v
}

// SeedUsers returns the known accounts the directory starts with. The
// returned users carry no password hash.
func SeedUsers() []User {
	return []User{
		{
			ID:               "1",
			Email:            "john.buyer@email.com",
			Name:             "John Smith",
			UserType:         TypeBuyer,
			Verified:         true,
			SubscriptionTier: TierPro,
			Profile: Profile{
				Phone:           ptr("+1-555-0123"),
				Location:        ptr("San Francisco, CA"),
				Bio:             ptr("Tech executive looking to transition into business ownership"),
				Avatar:          ptr("/avatars/john.jpg"),
				BuyerIndustries: []string{"Technology", "Healthcare", "Professional Services"},
				BuyerBudgetMin:  ptr[int64](200000),
				BuyerBudgetMax:  ptr[int64](800000),
				BuyerExperience: ptr("First-time buyer with corporate management experience"),
			},
			CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:               "2",
			Email:            "sarah.seller@email.com",
			Name:             "Sarah Johnson",
			UserType:         TypeSeller,
			Verified:         true,
			SubscriptionTier: TierElite,
			Profile: Profile{
				Phone:            ptr("+1-555-0456"),
				Location:         ptr("Austin, TX"),
				Bio:              ptr("Retiring business owner with 30+ years experience"),
				Avatar:           ptr("/avatars/sarah.jpg"),
				SellerBusinesses: ptr(2),
				SellerExperience: ptr("30+ years in dental practice management"),
			},
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
