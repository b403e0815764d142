// AngelaMos | 2026
// entity.go

package listing

import (
	"slices"
	"time"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusSold      = "SOLD"
	StatusWithdrawn = "WITHDRAWN"
)

type Listing struct {
	ID              string    `json:"id"`
	SellerID        string    `json:"sellerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Industry        string    `json:"industry"`
	Location        string    `json:"location"`
	AskingPrice     int64     `json:"askingPrice"`
	AnnualRevenue   int64     `json:"annualRevenue"`
	YearEstablished int       `json:"yearEstablished"`
	EmployeeCount   *int      `json:"employeeCount,omitempty"`
	Status          string    `json:"status"`
	Verified        bool      `json:"verified"`
	ConfidenceScore *int      `json:"confidenceScore,omitempty"`
	Images          []string  `json:"images"`
	ViewCount       int       `json:"viewCount"`
	FavoriteCount   int       `json:"favoriteCount"`
	InquiryCount    int       `json:"inquiryCount"`
	Financials      Financial `json:"financials"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Financial sequences run oldest year first.
type Financial struct {
	Revenues    []int64  `json:"revenues"`
	Profits     []int64  `json:"profits"`
	Expenses    []int64  `json:"expenses"`
	EBITDA      *int64   `json:"ebitda,omitempty"`
	CashFlow    *int64   `json:"cashFlow,omitempty"`
	GrossMargin *float64 `json:"grossMargin,omitempty"`
}

func (l *Listing) IsPublished() bool {
	return l.Status == StatusPublished
}

// clone copies l so callers never share slices with the store.
func (l Listing) clone() Listing {
	out := l
	out.Images = slices.Clone(l.Images)
	out.Financials.Revenues = slices.Clone(l.Financials.Revenues)
	out.Financials.Profits = slices.Clone(l.Financials.Profits)
	out.Financials.Expenses = slices.Clone(l.Financials.Expenses)
	return out
}
