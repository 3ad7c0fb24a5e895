package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Roles accepted by the backend.
const (
	RoleCustomer = "customer"
	RoleArtisan  = "artisan"
)

// ArtisanDetails carries the seller profile attached to artisan accounts.
type ArtisanDetails struct {
	CompanyName string `json:"companyName"`
	Description string `json:"description,omitempty"`
}

// Principal is the authenticated identity returned by login/register,
// including the opaque bearer credential.
type Principal struct {
	ID             string          `json:"_id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Token          string          `json:"token"`
	ArtisanDetails *ArtisanDetails `json:"artisanDetails,omitempty"`
}

// IsArtisan reports whether the principal may manage products.
func (p Principal) IsArtisan() bool { return p.Role == RoleArtisan }

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register. ArtisanDetails is
// sent only for artisan registrations.
type RegisterRequest struct {
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Role           string          `json:"role"`
	ArtisanDetails *ArtisanDetails `json:"artisanDetails,omitempty"`
}

// ArtisanSummary is one entry of the public artisan directory.
type ArtisanSummary struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	CompanyName    string `json:"companyName,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UserSummary is the public view of a single account.
type UserSummary struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	CompanyName string `json:"companyName,omitempty"`
}

// ProductArtisan identifies the seller on a product. The backend returns
// either a populated object or a bare identifier string depending on the
// endpoint, so decoding accepts both shapes.
type ProductArtisan struct {
	ID          string `json:"_id"`
	Username    string `json:"username,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// UnmarshalJSON accepts both the populated object and the bare id string.
func (a *ProductArtisan) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return err
		}
		*a = ProductArtisan{ID: id}
		return nil
	}
	type alias ProductArtisan
	var decoded alias
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*a = ProductArtisan(decoded)
	return nil
}

// Product mirrors the backend catalog entry. Quantity is the stock available
// at the time of the response; it becomes the stock ceiling of a cart line.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
	Artisan     ProductArtisan  `json:"artisan"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// ProductInput is the create/update payload for the artisan dashboard.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Quantity    int             `json:"quantity"`
}

// ShippingAddress is the four-field delivery address captured at checkout.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItemInput is one line of an order-creation request.
type OrderItemInput struct {
	Product string          `json:"product"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Price   decimal.Decimal `json:"price"`
	Qty     int             `json:"qty"`
}

// CreateOrderRequest is the single atomic payload converting cart state into
// a persisted order.
type CreateOrderRequest struct {
	OrderItems      []OrderItemInput `json:"orderItems"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal  `json:"itemsPrice"`
	TaxPrice        decimal.Decimal  `json:"taxPrice"`
	ShippingPrice   decimal.Decimal  `json:"shippingPrice"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
}

// OrderUser is the owning account embedded in a returned order.
type OrderUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// OrderItem is one fulfilled line of a returned order.
type OrderItem struct {
	ID      string          `json:"_id"`
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Image   string          `json:"image"`
	Price   decimal.Decimal `json:"price"`
	Product ProductArtisan  `json:"product,omitempty"`
	Artisan ProductArtisan  `json:"artisan,omitempty"`
}

// PaymentResult is the gateway confirmation attached once an order is paid.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order is the immutable snapshot returned by the backend.
type Order struct {
	ID              string          `json:"_id"`
	User            OrderUser       `json:"user"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderSummaryItem is the thumbnail view of a line inside an order listing.
type OrderSummaryItem struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Qty      int    `json:"qty"`
}

// OrderSummary is one row of the order-history listing.
type OrderSummary struct {
	ID          string             `json:"_id"`
	CreatedAt   time.Time          `json:"createdAt"`
	TotalPrice  decimal.Decimal    `json:"totalPrice"`
	IsPaid      bool               `json:"isPaid"`
	PaidAt      *time.Time         `json:"paidAt,omitempty"`
	IsDelivered bool               `json:"isDelivered"`
	DeliveredAt *time.Time         `json:"deliveredAt,omitempty"`
	OrderItems  []OrderSummaryItem `json:"orderItems"`
}
