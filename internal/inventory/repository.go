package inventory

import (
	"context" // Request scoped queries
	"strings" // LIKE pattern escaping

	"vegetable_inventory/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// ErrNotFound is returned when no vegetable has the requested id
var ErrNotFound = errors.New("vegetable not found")

// Repository is the storage contract for vegetables
type Repository interface {
	Create(ctx context.Context, in VegetableInput) (*domain.Vegetable, error)
	ListAll(ctx context.Context) ([]domain.Vegetable, error)
	FindBySubstring(ctx context.Context, fragment string) ([]domain.Vegetable, error)
	SumTotalValue(ctx context.Context) (float64, error)
	GetByID(ctx context.Context, id uint) (*domain.Vegetable, error)
	Update(ctx context.Context, id uint, in VegetableInput) (*domain.Vegetable, error)
	Delete(ctx context.Context, id uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a Repository backed by GORM
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, in VegetableInput) (*domain.Vegetable, error) {
	v := in.Model()
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create vegetable")
	}
	return &v, nil
}

func (r *gormRepository) ListAll(ctx context.Context) ([]domain.Vegetable, error) {
	vegetables := []domain.Vegetable{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&vegetables).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list vegetables")
	}
	return vegetables, nil
}

// likeEscaper makes % and _ in a search fragment match literally
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FindBySubstring matches names containing fragment, ignoring case
func (r *gormRepository) FindBySubstring(ctx context.Context, fragment string) ([]domain.Vegetable, error) {
	pattern := "%" + likeEscaper.Replace(fragment) + "%"
	vegetables := []domain.Vegetable{}
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) ESCAPE '!'", pattern).
		Order("id asc").
		Find(&vegetables).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to search vegetables")
	}
	return vegetables, nil
}

// SumTotalValue returns 0 for an empty table
func (r *gormRepository) SumTotalValue(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&domain.Vegetable{}).
		Select("COALESCE(SUM(total_value), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum total value")
	}
	return sum, nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*domain.Vegetable, error) {
	var v domain.Vegetable
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get vegetable")
	}
	return &v, nil
}

// Update overwrites all four business fields in one transaction
func (r *gormRepository) Update(ctx context.Context, id uint, in VegetableInput) (*domain.Vegetable, error) {
	var v domain.Vegetable
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&v, id).Error; err != nil {
			return err // Return error to rollback
		}
		v.Name = in.Name
		v.Quantity = in.Quantity
		v.Price = in.Price
		v.TotalValue = in.TotalValue
		return tx.Save(&v).Error // Commit transaction
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update vegetable")
	}
	return &v, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Vegetable{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete vegetable")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
