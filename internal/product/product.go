package product

// Gender values a perfume can target.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// ProductType distinguishes how a perfume is sold.
type ProductType string

const (
	TypeFullBottle ProductType = "full_bottle"
	TypeDecant     ProductType = "decant"
	TypeSample     ProductType = "sample"
	TypeGiftSet    ProductType = "gift_set"
)

// Product maps to the `products` table. Prices are VND amounts; image_urls
// and scent_notes are stored as JSON columns.
type Product struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	Price         float64           `json:"price"`
	SalePrice     *float64          `json:"sale_price,omitempty"`
	StockQuantity int               `json:"stock_quantity"`
	VolumeML      int               `json:"volume_ml,omitempty"`
	Concentration string            `json:"concentration,omitempty"`
	Gender        Gender            `json:"gender,omitempty"`
	ProductType   ProductType       `json:"product_type,omitempty"`
	OriginCountry string            `json:"origin_country,omitempty"`
	ReleaseYear   *int              `json:"release_year,omitempty"`
	ImageURLs     []string          `json:"image_urls"`
	ScentNotes    map[string]string `json:"scent_notes"`
	IsFeatured    bool              `json:"is_featured"`
	IsNewArrival  bool              `json:"is_new_arrival"`
	IsOnSale      bool              `json:"is_on_sale"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     string            `json:"created_at,omitempty"`
	UpdatedAt     string            `json:"updated_at,omitempty"`
}

// FirstImage returns the primary product image, or "" when none is stored.
func (p Product) FirstImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// ListFilter holds the catalog query parameters. Zero values mean "no filter".
type ListFilter struct {
	Search        string
	Brand         string
	Category      string
	Gender        string
	ProductType   string
	Concentration string
	MinPrice      float64
	MaxPrice      float64
	VolumeML      int
	Featured      bool
	NewArrival    bool
	OnSale        bool
	Sort          string
	Page          int
	Limit         int
}

// AllowedSorts are the accepted values of the `sort` query parameter.
var AllowedSorts = []string{"newest", "oldest", "price_asc", "price_desc", "name_asc", "name_desc", "bestseller"}
