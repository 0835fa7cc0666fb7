package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	"github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The handle may be a
// transaction; the repository never commits on its own.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	UserID    int64             `gorm:"column:user_id;index:idx_orders_user_created"`
	Status    string            `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt time.Time         `gorm:"column:created_at;index:idx_orders_user_created"`
	Items     []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	OrderID         int64           `gorm:"column:order_id;index;not null"`
	ProductID       int64           `gorm:"column:product_id;index;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.withItems(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, page repository.Page) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.withItems(ctx).Order("id").Offset(page.Skip).Limit(page.Limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(records), nil
}

// ListForUser returns the user's orders newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int64, page repository.Page) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(records), nil
}

// Create inserts the order and its items in one statement batch.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update changes the order status. Items are immutable once created.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", order.ID).Update("status", string(order.Status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, order.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
		return err
	}
	result := db.Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		UserID:    order.UserID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Items:     make([]domain.OrderItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:              item.ID,
			OrderID:         item.OrderID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return order
}

func toDomainOrders(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
