package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Repositories are built per
// transaction and never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&productRecord{},
		&discountRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&salesCaseRecord{},
		&salesCaseItemRecord{},
		&checkoutIdempotencyRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	FullName  string    `gorm:"column:full_name"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:customer"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

// Product schema mirrors the catalog Postgres adapter. The check constraint
// backs the 0 <= on_loan_quantity <= stock_quantity invariant.
type productRecord struct {
	ID             int64            `gorm:"primaryKey;column:id"`
	Name           string           `gorm:"column:name;not null;index"`
	Description    string           `gorm:"column:description"`
	Barcode        *string          `gorm:"column:barcode;uniqueIndex"`
	ImageURL       string           `gorm:"column:image_url"`
	CostPrice      decimal.Decimal  `gorm:"column:cost_price;type:numeric(10,2);not null"`
	SellingPrice   decimal.Decimal  `gorm:"column:selling_price;type:numeric(10,2);not null"`
	StockQuantity  int              `gorm:"column:stock_quantity;not null;default:0;check:chk_products_stock,stock_quantity >= 0"`
	OnLoanQuantity int              `gorm:"column:on_loan_quantity;not null;default:0;check:chk_products_on_loan,on_loan_quantity BETWEEN 0 AND stock_quantity"`
	CreatedAt      time.Time        `gorm:"column:created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
	Discounts      []discountRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (productRecord) TableName() string { return "products" }

// Discount schema mirrors the catalog Postgres adapter.
type discountRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	ProductID     int64           `gorm:"column:product_id;not null;index:idx_discounts_product_window"`
	DiscountPrice decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2);not null"`
	StartTime     time.Time       `gorm:"column:start_time;not null;index:idx_discounts_product_window"`
	EndTime       time.Time       `gorm:"column:end_time;not null;index:idx_discounts_product_window"`
}

func (discountRecord) TableName() string { return "discounts" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	UserID    int64             `gorm:"column:user_id;index:idx_orders_user_created"`
	Status    string            `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt time.Time         `gorm:"column:created_at;index:idx_orders_user_created"`
	Items     []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	OrderID         int64           `gorm:"column:order_id;index;not null"`
	ProductID       int64           `gorm:"column:product_id;index;not null"`
	Quantity        int             `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Sales case schema mirrors the sales cases Postgres adapter.
type salesCaseRecord struct {
	ID           int64                 `gorm:"primaryKey;column:id"`
	SalesRepID   int64                 `gorm:"column:sales_rep_id;not null;index"`
	LoanDate     time.Time             `gorm:"column:loan_date;not null"`
	ReturnByDate time.Time             `gorm:"column:return_by_date;not null;index:idx_sales_cases_status_due"`
	Status       string                `gorm:"column:status;type:varchar(32);not null;index:idx_sales_cases_status_due"`
	ReturnedAt   *time.Time            `gorm:"column:returned_at"`
	Items        []salesCaseItemRecord `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

func (salesCaseRecord) TableName() string { return "sales_cases" }

type salesCaseItemRecord struct {
	ID        int64 `gorm:"primaryKey;column:id"`
	CaseID    int64 `gorm:"column:case_id;not null;index"`
	ProductID int64 `gorm:"column:product_id;not null;index"`
	Quantity  int   `gorm:"column:quantity;not null;check:chk_sales_case_items_quantity,quantity > 0"`
}

func (salesCaseItemRecord) TableName() string { return "sales_case_items" }

// Checkout idempotency schema mirrors the orders idempotency store.
type checkoutIdempotencyRecord struct {
	UserID      int64     `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (checkoutIdempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
