package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var (
	_ ports.ProductRepository  = (*ProductRepository)(nil)
	_ ports.DiscountRepository = (*DiscountRepository)(nil)
)

type productRecord struct {
	ID             int64           `gorm:"primaryKey;column:id"`
	Name           string          `gorm:"column:name;not null;index"`
	Description    string          `gorm:"column:description"`
	Barcode        *string         `gorm:"column:barcode;uniqueIndex"`
	ImageURL       string          `gorm:"column:image_url"`
	CostPrice      decimal.Decimal `gorm:"column:cost_price;type:numeric(10,2);not null"`
	SellingPrice   decimal.Decimal `gorm:"column:selling_price;type:numeric(10,2);not null"`
	StockQuantity  int             `gorm:"column:stock_quantity;not null;default:0"`
	OnLoanQuantity int             `gorm:"column:on_loan_quantity;not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type discountRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	ProductID     int64           `gorm:"column:product_id;not null;index"`
	DiscountPrice decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2);not null"`
	StartTime     time.Time       `gorm:"column:start_time;not null"`
	EndTime       time.Time       `gorm:"column:end_time;not null"`
}

func (discountRecord) TableName() string { return "discounts" }

// ProductRepository persists products in PostgreSQL using GORM. The handle
// may be a transaction; the repository never commits on its own.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// GetForUpdate issues SELECT ... FOR UPDATE; the lock lives until the surrounding transaction ends.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ports.ErrProductNotFound
	}
	return r.first(r.db.WithContext(ctx), "barcode = ?", barcode)
}

func (r *ProductRepository) first(query *gorm.DB, cond string, arg any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := query.First(&record, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, page repository.Page) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Skip).Limit(page.Limit).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateProductError(err)
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":             record.Name,
		"description":      record.Description,
		"barcode":          record.Barcode,
		"image_url":        record.ImageURL,
		"cost_price":       record.CostPrice,
		"selling_price":    record.SellingPrice,
		"stock_quantity":   record.StockQuantity,
		"on_loan_quantity": record.OnLoanQuantity,
		"updated_at":       time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, translateProductError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrProductNotFound
	}
	return r.Get(ctx, record.ID)
}

// Delete removes the product and its discounts.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&discountRecord{}).Error; err != nil {
		return err
	}
	result := db.Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func translateProductError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateBarcode
	}
	return err
}

// DiscountRepository persists discounts in PostgreSQL using GORM.
type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Get(ctx context.Context, id int64) (*domain.Discount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record discountRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrDiscountNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DiscountRepository) List(ctx context.Context, page repository.Page) ([]*domain.Discount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []discountRecord
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Skip).Limit(page.Limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return discountsToDomain(records), nil
}

func (r *DiscountRepository) Create(ctx context.Context, discount *domain.Discount) (*domain.Discount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, errors.New("discount is nil")
	}
	record := toDiscountRecord(discount)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DiscountRepository) Update(ctx context.Context, discount *domain.Discount) (*domain.Discount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, errors.New("discount is nil")
	}
	record := toDiscountRecord(discount)
	result := r.db.WithContext(ctx).Model(&discountRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"discount_price": record.DiscountPrice,
		"start_time":     record.StartTime,
		"end_time":       record.EndTime,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrDiscountNotFound
	}
	return r.Get(ctx, record.ID)
}

func (r *DiscountRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&discountRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrDiscountNotFound
	}
	return nil
}

func (r *DiscountRepository) ActiveFor(ctx context.Context, productID int64, asOf time.Time) ([]*domain.Discount, error) {
	return r.ActiveForProducts(ctx, []int64{productID}, asOf)
}

// ActiveForProducts loads every discount active at asOf for the given products in one query.
func (r *DiscountRepository) ActiveForProducts(ctx context.Context, productIDs []int64, asOf time.Time) ([]*domain.Discount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return nil, nil
	}
	var records []discountRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ANY(?) AND start_time <= ? AND end_time >= ?", pq.Array(productIDs), asOf, asOf).
		Order("discount_price ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return discountsToDomain(records), nil
}

func (r *DiscountRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres discount repository not configured")
	}
	return nil
}

func toProductRecord(p *domain.Product) productRecord {
	var barcode *string
	if b := strings.TrimSpace(p.Barcode); b != "" {
		barcode = &b
	}
	return productRecord{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Barcode:        barcode,
		ImageURL:       p.ImageURL,
		CostPrice:      p.CostPrice,
		SellingPrice:   p.SellingPrice,
		StockQuantity:  p.StockQuantity,
		OnLoanQuantity: p.OnLoanQuantity,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	product := &domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		CostPrice:      r.CostPrice,
		SellingPrice:   r.SellingPrice,
		StockQuantity:  r.StockQuantity,
		OnLoanQuantity: r.OnLoanQuantity,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Barcode != nil {
		product.Barcode = *r.Barcode
	}
	return product
}

func toDiscountRecord(d *domain.Discount) discountRecord {
	return discountRecord{
		ID:            d.ID,
		ProductID:     d.ProductID,
		DiscountPrice: d.DiscountPrice,
		StartTime:     d.StartTime.UTC(),
		EndTime:       d.EndTime.UTC(),
	}
}

func (r discountRecord) toDomain() *domain.Discount {
	return &domain.Discount{
		ID:            r.ID,
		ProductID:     r.ProductID,
		DiscountPrice: r.DiscountPrice,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}
}

func discountsToDomain(records []discountRecord) []*domain.Discount {
	out := make([]*domain.Discount, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out
}
