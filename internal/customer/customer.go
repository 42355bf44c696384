package customer

// VIPStatus is the loyalty tier derived from a customer's lifetime spend.
type VIPStatus string

const (
	StatusStandard VIPStatus = "standard"
	StatusSilver   VIPStatus = "silver"
	StatusGold     VIPStatus = "gold"
	StatusPlatinum VIPStatus = "platinum"
	StatusDiamond  VIPStatus = "diamond"
)

// Tier thresholds in VND. The diamond boundary is exclusive while the rest
// are inclusive; the asymmetry is intentional and must not be "fixed".
const (
	diamondAbove  = 70_000_000
	platinumFloor = 50_000_000
	goldFloor     = 25_000_000
	silverFloor   = 10_000_000
)

// StatusForSpend returns the tier for a cumulative lifetime spend.
func StatusForSpend(totalSpent float64) VIPStatus {
	switch {
	case totalSpent > diamondAbove:
		return StatusDiamond
	case totalSpent >= platinumFloor:
		return StatusPlatinum
	case totalSpent >= goldFloor:
		return StatusGold
	case totalSpent >= silverFloor:
		return StatusSilver
	default:
		return StatusStandard
	}
}

// Customer is keyed by email. Contact fields track the latest order
// submission; totals accumulate across orders.
type Customer struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	VIPStatus   VIPStatus `json:"vip_status"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// Contact is the contact-field set submitted with an order.
type Contact struct {
	Email       string
	Name        string
	Phone       string
	Address     string
	City        string
	Country     string
	DateOfBirth string
	Gender      string
}

// Aggregate applies one order to an existing customer record and returns the
// updated record. Name, phone and address are always overwritten with the
// latest submission; city, country, date_of_birth and gender keep the stored
// value when the submission leaves them empty.
func Aggregate(existing Customer, contact Contact, orderTotal float64) Customer {
	updated := existing
	updated.Name = contact.Name
	updated.Phone = contact.Phone
	updated.Address = contact.Address
	updated.City = coalesce(contact.City, existing.City)
	updated.Country = coalesce(contact.Country, existing.Country)
	updated.DateOfBirth = coalesce(contact.DateOfBirth, existing.DateOfBirth)
	updated.Gender = coalesce(contact.Gender, existing.Gender)
	updated.TotalOrders = existing.TotalOrders + 1
	updated.TotalSpent = existing.TotalSpent + orderTotal
	updated.VIPStatus = StatusForSpend(updated.TotalSpent)
	return updated
}

// New builds the customer record created by a first order.
func New(contact Contact, orderTotal float64) Customer {
	return Customer{
		Email:       contact.Email,
		Name:        contact.Name,
		Phone:       contact.Phone,
		Address:     contact.Address,
		City:        contact.City,
		Country:     contact.Country,
		DateOfBirth: contact.DateOfBirth,
		Gender:      contact.Gender,
		TotalOrders: 1,
		TotalSpent:  orderTotal,
		VIPStatus:   StatusForSpend(orderTotal),
	}
}

func coalesce(submitted, stored string) string {
	if submitted != "" {
		return submitted
	}
	return stored
}
