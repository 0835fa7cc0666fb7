package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists sales cases in PostgreSQL using GORM. The handle may be
// a transaction; the repository never commits on its own.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type salesCaseRecord struct {
	ID           int64                 `gorm:"primaryKey;column:id"`
	SalesRepID   int64                 `gorm:"column:sales_rep_id;not null;index"`
	LoanDate     time.Time             `gorm:"column:loan_date;not null"`
	ReturnByDate time.Time             `gorm:"column:return_by_date;not null;index:idx_sales_cases_status_due"`
	Status       string                `gorm:"column:status;type:varchar(32);not null;index:idx_sales_cases_status_due"`
	ReturnedAt   *time.Time            `gorm:"column:returned_at"`
	Items        []salesCaseItemRecord `gorm:"foreignKey:CaseID"`
}

func (salesCaseRecord) TableName() string { return "sales_cases" }

type salesCaseItemRecord struct {
	ID        int64 `gorm:"primaryKey;column:id"`
	CaseID    int64 `gorm:"column:case_id;not null;index"`
	ProductID int64 `gorm:"column:product_id;not null;index"`
	Quantity  int   `gorm:"column:quantity;not null"`
}

func (salesCaseItemRecord) TableName() string { return "sales_case_items" }

func (r *Repository) Get(ctx context.Context, id int64) (*domain.SalesCase, error) {
	return r.first(r.withItems(ctx), id)
}

// GetForUpdate locks the case row; a concurrent return of the same case waits
// and then observes the returned status.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var header salesCaseRecord
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("case_id = ?", id).Order("id").Find(&header.Items).Error; err != nil {
		return nil, err
	}
	return header.toDomain(), nil
}

func (r *Repository) first(query *gorm.DB, id int64) (*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record salesCaseRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, page repository.Page) ([]*domain.SalesCase, error) {
	return r.ListFiltered(ctx, domain.Filter{}, page)
}

func (r *Repository) ListFiltered(ctx context.Context, filter domain.Filter, page repository.Page) ([]*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.withItems(ctx)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.SalesRepID != 0 {
		query = query.Where("sales_rep_id = ?", filter.SalesRepID)
	}
	var records []salesCaseRecord
	if err := query.Order("id").Offset(page.Skip).Limit(page.Limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainCases(records), nil
}

func (r *Repository) ListOnLoanDueBefore(ctx context.Context, asOf time.Time) ([]*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []salesCaseRecord
	err := r.withItems(ctx).
		Where("status = ? AND return_by_date < ?", string(domain.StatusOnLoan), asOf).
		Order("return_by_date, id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainCases(records), nil
}

func (r *Repository) Create(ctx context.Context, salesCase *domain.SalesCase) (*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if salesCase == nil {
		return nil, errors.New("sales case is nil")
	}
	record := toRecord(salesCase)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update persists the case header. Items are fixed once the case is opened.
func (r *Repository) Update(ctx context.Context, salesCase *domain.SalesCase) (*domain.SalesCase, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if salesCase == nil {
		return nil, errors.New("sales case is nil")
	}
	result := r.db.WithContext(ctx).Model(&salesCaseRecord{}).Where("id = ?", salesCase.ID).Updates(map[string]any{
		"status":         string(salesCase.Status),
		"return_by_date": salesCase.ReturnByDate,
		"returned_at":    salesCase.ReturnedAt,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Get(ctx, salesCase.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("case_id = ?", id).Delete(&salesCaseItemRecord{}).Error; err != nil {
		return err
	}
	result := db.Delete(&salesCaseRecord{}, "id = ?", id)
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
		return db.Order("sales_case_items.id")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres sales case repository not configured")
	}
	return nil
}

func toRecord(c *domain.SalesCase) salesCaseRecord {
	record := salesCaseRecord{
		ID:           c.ID,
		SalesRepID:   c.SalesRepID,
		LoanDate:     c.LoanDate,
		ReturnByDate: c.ReturnByDate,
		Status:       string(c.Status),
		ReturnedAt:   c.ReturnedAt,
	}
	for _, item := range c.Items {
		record.Items = append(record.Items, salesCaseItemRecord{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return record
}

func (r salesCaseRecord) toDomain() *domain.SalesCase {
	c := &domain.SalesCase{
		ID:           r.ID,
		SalesRepID:   r.SalesRepID,
		LoanDate:     r.LoanDate,
		ReturnByDate: r.ReturnByDate,
		Status:       domain.Status(r.Status),
		ReturnedAt:   r.ReturnedAt,
		Items:        make([]domain.SalesCaseItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		c.Items = append(c.Items, domain.SalesCaseItem{ID: item.ID, CaseID: item.CaseID, ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return c
}

func toDomainCases(records []salesCaseRecord) []*domain.SalesCase {
	cases := make([]*domain.SalesCase, 0, len(records))
	for i := range records {
		cases = append(cases, records[i].toDomain())
	}
	return cases
}
