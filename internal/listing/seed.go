// AngelaMos | 2026
// seed.go

package listing

import (
	"time"
)

func ptr[T any](v T) *T {
	return &v
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Industries and Locations are the choices offered by listing search.
var (
	Industries = []string{
		"Home Services",
		"Pet Services",
		"Healthcare",
		"Automotive",
		"Food & Beverage",
		"Professional Services",
		"Technology",
		"Retail",
		"Manufacturing",
		"Education",
	}

	Locations = []string{
		"Austin, TX",
		"San Francisco, CA",
		"Denver, CO",
		"Phoenix, AZ",
		"Nashville, TN",
		"Atlanta, GA",
		"Seattle, WA",
		"Miami, FL",
		"Chicago, IL",
		"New York, NY",
	}
)

func SeedListings() []Listing {
	return []Listing{
		{
			ID:       "1",
			SellerID: "2",
			Title:    "Established HVAC Service Company",
			Description: "Thriving HVAC business serving residential and commercial clients " +
				"for over 15 years. Strong customer base, experienced team, and excellent " +
				"reputation in the community.",
			Industry:        "Home Services",
			Location:        "Austin, TX",
			AskingPrice:     450000,
			AnnualRevenue:   650000,
			YearEstablished: 2008,
			EmployeeCount:   ptr(8),
			Status:          StatusPublished,
			Verified:        true,
			ConfidenceScore: ptr(92),
			Images:          []string{"/listings/hvac-1.jpg", "/listings/hvac-2.jpg", "/listings/hvac-3.jpg"},
			ViewCount:       234,
			FavoriteCount:   18,
			InquiryCount:    7,
			Financials: Financial{
				Revenues:    []int64{580000, 620000, 650000},
				Profits:     []int64{145000, 155000, 162500},
				Expenses:    []int64{435000, 465000, 487500},
				EBITDA:      ptr[int64](180000),
				CashFlow:    ptr[int64](155000),
				GrossMargin: ptr(0.32),
			},
			CreatedAt: day(2024, time.January, 20),
		},
		{
			ID:       "2",
			SellerID: "2",
			Title:    "Premium Pet Grooming Salon",
			Description: "High-end pet grooming salon in affluent neighborhood. Loyal customer " +
				"base, premium pricing, and growth potential.",
			Industry:        "Pet Services",
			Location:        "Beverly Hills, CA",
			AskingPrice:     180000,
			AnnualRevenue:   240000,
			YearEstablished: 2015,
			EmployeeCount:   ptr(4),
			Status:          StatusPublished,
			Verified:        true,
			ConfidenceScore: ptr(88),
			Images:          []string{"/listings/pet-grooming-1.jpg", "/listings/pet-grooming-2.jpg"},
			ViewCount:       156,
			FavoriteCount:   23,
			InquiryCount:    12,
			Financials: Financial{
				Revenues:    []int64{210000, 225000, 240000},
				Profits:     []int64{63000, 67500, 72000},
				Expenses:    []int64{147000, 157500, 168000},
				EBITDA:      ptr[int64](85000),
				CashFlow:    ptr[int64](68000),
				GrossMargin: ptr(0.38),
			},
			CreatedAt: day(2024, time.January, 18),
		},
		{
			ID:       "3",
			SellerID: "2",
			Title:    "Modern Dental Practice",
			Description: "State-of-the-art dental practice with digital equipment and " +
				"established patient base of 2,500+ active patients.",
			Industry:        "Healthcare",
			Location:        "Denver, CO",
			AskingPrice:     800000,
			AnnualRevenue:   1200000,
			YearEstablished: 2010,
			EmployeeCount:   ptr(12),
			Status:          StatusPublished,
			Verified:        true,
			ConfidenceScore: ptr(95),
			Images:          []string{"/listings/dental-1.jpg", "/listings/dental-2.jpg", "/listings/dental-3.jpg"},
			ViewCount:       342,
			FavoriteCount:   31,
			InquiryCount:    15,
			Financials: Financial{
				Revenues:    []int64{1050000, 1125000, 1200000},
				Profits:     []int64{315000, 337500, 360000},
				Expenses:    []int64{735000, 787500, 840000},
				EBITDA:      ptr[int64](420000),
				CashFlow:    ptr[int64](385000),
				GrossMargin: ptr(0.42),
			},
			CreatedAt: day(2024, time.January, 22),
		},
		{
			ID:       "4",
			SellerID: "2",
			Title:    "Express Car Wash Business",
			Description: "Automated car wash with consistent revenue stream. Prime location " +
				"with high traffic volume.",
			Industry:        "Automotive",
			Location:        "Phoenix, AZ",
			AskingPrice:     120000,
			AnnualRevenue:   180000,
			YearEstablished: 2018,
			EmployeeCount:   ptr(3),
			Status:          StatusPublished,
			Verified:        false,
			ConfidenceScore: ptr(75),
			Images:          []string{"/listings/carwash-1.jpg", "/listings/carwash-2.jpg"},
			ViewCount:       89,
			FavoriteCount:   8,
			InquiryCount:    4,
			Financials: Financial{
				Revenues:    []int64{165000, 172500, 180000},
				Profits:     []int64{49500, 51750, 54000},
				Expenses:    []int64{115500, 120750, 126000},
				EBITDA:      ptr[int64](62000),
				CashFlow:    ptr[int64](58000),
				GrossMargin: ptr(0.28),
			},
			CreatedAt: day(2024, time.January, 25),
		},
		{
			ID:       "5",
			SellerID: "2",
			Title:    "Boutique Accounting Firm",
			Description: "Full-service accounting firm specializing in small to medium " +
				"businesses. Strong recurring revenue model.",
			Industry:        "Professional Services",
			Location:        "Nashville, TN",
			AskingPrice:     300000,
			AnnualRevenue:   400000,
			YearEstablished: 2012,
			EmployeeCount:   ptr(6),
			Status:          StatusPublished,
			Verified:        true,
			ConfidenceScore: ptr(90),
			Images:          []string{"/listings/accounting-1.jpg", "/listings/accounting-2.jpg"},
			ViewCount:       178,
			FavoriteCount:   14,
			InquiryCount:    9,
			Financials: Financial{
				Revenues:    []int64{360000, 380000, 400000},
				Profits:     []int64{108000, 114000, 120000},
				Expenses:    []int64{252000, 266000, 280000},
				EBITDA:      ptr[int64](140000),
				CashFlow:    ptr[int64](125000),
				GrossMargin: ptr(0.35),
			},
			CreatedAt: day(2024, time.January, 21),
		},
	}
}
