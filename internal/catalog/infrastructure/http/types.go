package http

import (
	"time"

	"github.com/example/storefront/internal/catalog/domain"
)

type productResp struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceCents  int64           `json:"price_cents"`
	Stock       int             `json:"stock"`
	Category    domain.Category `json:"category"`
	SellerID    string          `json:"seller_id"`
	Images      []domain.Image  `json:"images"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"num_reviews"`
	Reviews     []reviewResp    `json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type reviewResp struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResp(r domain.Review) reviewResp {
	return reviewResp{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toProductResp(p domain.Product) productResp {
	resp := productResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		Category:    p.Category,
		SellerID:    p.SellerID,
		Images:      p.Images,
		Rating:      p.Rating,
		NumReviews:  p.NumReviews,
		CreatedAt:   p.CreatedAt,
	}
	for _, r := range p.Reviews {
		resp.Reviews = append(resp.Reviews, toReviewResp(r))
	}
	return resp
}
