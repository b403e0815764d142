// AngelaMos | 2026
// course.go

// Package dashboard serves the buyer and seller home views. Both are
// read-only compositions of the caller's session and catalog.
package dashboard

type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Duration    string  `json:"duration"`
	Price       int64   `json:"price"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"imageUrl"`
}

// RecommendedCourses is how many courses the buyer dashboard shows.
const RecommendedCourses = 3

func SeedCourses() []Course {
	return []Course{
		{
			ID:          "1",
			Title:       "Business Acquisition Fundamentals",
			Description: "Learn the basics of buying and evaluating small businesses",
			Category:    "Fundamentals",
			Duration:    "4 hours",
			Price:       99,
			Rating:      4.8,
			ImageURL:    "/courses/fundamentals.jpg",
		},
		{
			ID:          "2",
			Title:       "Financial Due Diligence",
			Description: "Master the art of analyzing business financials and identifying red flags",
			Category:    "Finance",
			Duration:    "6 hours",
			Price:       149,
			Rating:      4.9,
			ImageURL:    "/courses/due-diligence.jpg",
		},
		{
			ID:          "3",
			Title:       "Negotiation Strategies",
			Description: "Effective negotiation techniques for business purchases",
			Category:    "Negotiation",
			Duration:    "3 hours",
			Price:       79,
			Rating:      4.7,
			ImageURL:    "/courses/negotiation.jpg",
		},
		{
			ID:          "4",
			Title:       "Post-Acquisition Management",
			Description: "Successfully transition into business ownership",
			Category:    "Management",
			Duration:    "5 hours",
			Price:       129,
			Rating:      4.6,
			ImageURL:    "/courses/management.jpg",
		},
	}
}
