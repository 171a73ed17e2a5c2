package domain

import "time"

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryCameras     Category = "Cameras"
	CategoryLaptops     Category = "Laptops"
	CategoryAccessories Category = "Accessories"
	CategoryHeadphones  Category = "Headphones"
	CategoryFood        Category = "Food"
	CategoryBooks       Category = "Books"
	CategoryClothes     Category = "Clothes"
	CategoryBeauty      Category = "Beauty"
	CategorySports      Category = "Sports"
	CategoryOutdoor     Category = "Outdoor"
	CategoryHome        Category = "Home"
)

var Categories = []Category{
	CategoryElectronics, CategoryCameras, CategoryLaptops, CategoryAccessories,
	CategoryHeadphones, CategoryFood, CategoryBooks, CategoryClothes,
	CategoryBeauty, CategorySports, CategoryOutdoor, CategoryHome,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Image references an uploaded product picture by its public URL and object
// storage key.
type Image struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	Category    Category
	SellerID    string
	Images      []Image
	Reviews     []Review
	Rating      float64
	NumReviews  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(id, name, description string, priceCents int64, stock int, category Category, sellerID string, images []Image) Product {
	now := time.Now().UTC()
	return Product{
		ID:          id,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Stock:       stock,
		Category:    category,
		SellerID:    sellerID,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
