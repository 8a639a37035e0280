package data

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSON is a raw JSON document stored in a JSON (MySQL) or TEXT (SQLite)
// column. It scans from both []byte and string driver values.
type JSON json.RawMessage

// Scan implements sql.Scanner.
func (j *JSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("data: cannot scan %T into JSON", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

// MarshalJSON emits the document unchanged.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores a copy of the document.
func (j *JSON) UnmarshalJSON(b []byte) error {
	*j = append((*j)[0:0], b...)
	return nil
}

// User is an identity that signed in through the OIDC provider.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"-"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Store is a tenant's shop.
type Store struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Currency    string    `db:"currency" json:"currency"`
	OwnerID     int64     `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PageType enumerates the kinds of storefront pages.
type PageType string

const (
	PageTypeHome       PageType = "HOME"
	PageTypeAbout      PageType = "ABOUT"
	PageTypeContact    PageType = "CONTACT"
	PageTypeCollection PageType = "COLLECTION"
	PageTypeProduct    PageType = "PRODUCT"
	PageTypePolicy     PageType = "POLICY"
	PageTypeCustom     PageType = "CUSTOM"
)

// Page is one storefront URL built from ordered components.
type Page struct {
	ID          int64     `db:"id"`
	StoreID     int64     `db:"store_id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	PageType    PageType  `db:"page_type"`
	IsPublished bool      `db:"is_published"`
	PageOrder   int       `db:"page_order"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Component is a typed content block on a page. Type holds the upper-case
// tag; at most one component of each type exists per page.
type Component struct {
	ID        int64     `db:"id" json:"id"`
	PageID    int64     `db:"page_id" json:"pageId"`
	Type      string    `db:"component_type" json:"componentType"`
	Content   JSON      `db:"content" json:"content"`
	Order     int       `db:"sort_order" json:"order"`
	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ComponentUpdate is one entry of a batch update. Version, when set, must
// match the stored version of an existing component.
type ComponentUpdate struct {
	Type    string
	Content JSON
	Version *int64
}

// NewComponent describes a component created together with its page.
type NewComponent struct {
	Type    string
	Content JSON
	Order   *int
}

// NewPage describes a page created through the bulk page endpoint.
type NewPage struct {
	Title       string
	Slug        string
	PageType    PageType
	IsPublished bool
	PageOrder   *int
	Components  []NewComponent
}

// PageFilter narrows a store's page listing. Empty fields match everything.
type PageFilter struct {
	Slug          string
	PageType      PageType
	PublishedOnly bool
}

// Category groups products within a store.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"storeId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Product is a catalog entry. Prices are in minor currency units.
type Product struct {
	ID              int64     `db:"id" json:"id"`
	StoreID         int64     `db:"store_id" json:"storeId"`
	CategoryID      *int64    `db:"category_id" json:"categoryId"`
	Name            string    `db:"name" json:"name"`
	Slug            string    `db:"slug" json:"slug"`
	Description     string    `db:"description" json:"description"`
	DescriptionHTML string    `db:"description_html" json:"descriptionHtml"`
	PriceCents      int64     `db:"price_cents" json:"priceCents"`
	Stock           int       `db:"stock" json:"stock"`
	ImageURL        string    `db:"image_url" json:"imageUrl"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Customer is a shopper known to a store.
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"storeId"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a customer purchase.
type Order struct {
	ID            int64       `db:"id" json:"id"`
	StoreID       int64       `db:"store_id" json:"storeId"`
	CustomerID    int64       `db:"customer_id" json:"customerId"`
	Status        OrderStatus `db:"status" json:"status"`
	SubtotalCents int64       `db:"subtotal_cents" json:"subtotalCents"`
	DiscountCents int64       `db:"discount_cents" json:"discountCents"`
	TotalCents    int64       `db:"total_cents" json:"totalCents"`
	DiscountCode  string      `db:"discount_code" json:"discountCode,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
	Items         []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is one line of an order, priced at checkout time.
type OrderItem struct {
	ID             int64  `db:"id" json:"id"`
	OrderID        int64  `db:"order_id" json:"orderId"`
	ProductID      *int64 `db:"product_id" json:"productId"`
	Name           string `db:"name" json:"name"`
	UnitPriceCents int64  `db:"unit_price_cents" json:"unitPriceCents"`
	Quantity       int    `db:"quantity" json:"quantity"`
}

// DiscountKind says how a discount's value is interpreted.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "PERCENTAGE"
	DiscountFixed      DiscountKind = "FIXED"
)

// Discount is a coupon code. For FIXED discounts Value is in minor units,
// for PERCENTAGE it is a whole percent.
type Discount struct {
	ID        int64        `db:"id" json:"id"`
	StoreID   int64        `db:"store_id" json:"storeId"`
	Code      string       `db:"code" json:"code"`
	Kind      DiscountKind `db:"kind" json:"kind"`
	Value     int64        `db:"value" json:"value"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

// PaymentGateway is a store's payment provider configuration.
type PaymentGateway struct {
	StoreID   int64     `db:"store_id" json:"storeId"`
	Provider  string    `db:"provider" json:"provider"`
	PublicKey string    `db:"public_key" json:"publicKey"`
	SecretKey string    `db:"secret_key" json:"secretKey"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Media is an uploaded file hosted by the upload provider.
type Media struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"storeId"`
	URL       string    `db:"url" json:"url"`
	PublicID  string    `db:"public_id" json:"publicId"`
	Filename  string    `db:"filename" json:"filename"`
	SizeBytes int64     `db:"size_bytes" json:"sizeBytes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StoreSummary holds the dashboard counters of a store.
type StoreSummary struct {
	Products     int   `json:"products"`
	Orders       int   `json:"orders"`
	Customers    int   `json:"customers"`
	RevenueCents int64 `json:"revenueCents"`
}
