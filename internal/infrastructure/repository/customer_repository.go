package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) search(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	p := likePattern(search)
	return query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", p, p, p)
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.search(conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx)), search)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// ListWithCursor returns customers using cursor-based pagination
// Fetches limit+1 items to detect if there are more results
func (r *customerRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	var customers []entity.Customer

	params.Validate()
	query := r.search(conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx)), search)

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}
	query = applyCursor(query, cursor, params.Direction, "")

	err = query.Limit(params.Limit + 1).
		Order(keysetOrder(params)).
		Find(&customers).Error

	return customers, err
}

// applyCursor filters on the (created_at, id) keyset of table.
func applyCursor(query *gorm.DB, cursor *pagination.Cursor, direction pagination.CursorDirection, table string) *gorm.DB {
	if cursor == nil {
		return query
	}
	createdAt, id := "created_at", "id"
	if table != "" {
		createdAt, id = table+"."+createdAt, table+"."+id
	}
	if direction == pagination.CursorDirectionPrev {
		return query.Where("("+createdAt+" < ?) OR ("+createdAt+" = ? AND "+id+" < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	return query.Where("("+createdAt+" > ?) OR ("+createdAt+" = ? AND "+id+" > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
}

// keysetOrder reads backwards from a prev cursor so the nearest rows come first
func keysetOrder(params *pagination.CursorParams) string {
	if params.Backward() {
		return "created_at DESC, id DESC"
	}
	return "created_at ASC, id ASC"
}
