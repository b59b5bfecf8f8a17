// Package loans provides database operations for loan records.
//
// Loans are never deleted. Book and member data is not joined here; callers
// combine records in memory.
package loans

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/utils"
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveLoan inserts a new loan and assigns its ID.
func (r *Repository) SaveLoan(loan *entities.Loan) error {
	return r.db.Create(loan).Error
}

// GetLoan retrieves a loan by ID.
func (r *Repository) GetLoan(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	if err := r.db.First(&loan, id).Error; err != nil {
		return nil, translate(err)
	}
	return &loan, nil
}

// UpdateLoan writes the mutable loan columns. A nil return date is stored as NULL.
func (r *Repository) UpdateLoan(loan *entities.Loan) error {
	result := r.db.Model(loan).
		Select("expected_return_date", "actual_return_date", "penalty", "needs_reconciliation", "updated_at").
		Updates(loan)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&entities.Loan{}).Where("id = ?", loan.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entities.ErrNotFound
		}
	}
	return nil
}

// FindAll returns every loan, oldest first.
func (r *Repository) FindAll() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Order("id ASC").Find(&loans).Error
	return loans, err
}

// FindOutstanding returns loans that have not been returned.
func (r *Repository) FindOutstanding() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("actual_return_date IS NULL").Order("id ASC").Find(&loans).Error
	return loans, err
}

// FindOverdue returns loans still out after their expected date as of today,
// and loans that were returned late.
func (r *Repository) FindOverdue(today time.Time) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.
		Where("(actual_return_date IS NULL AND expected_return_date < ?) OR "+
			"(actual_return_date IS NOT NULL AND actual_return_date > expected_return_date)",
			utils.CivilDate(today)).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// FindByMember returns every loan of a member, oldest first.
func (r *Repository) FindByMember(memberID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("member_id = ?", memberID).Order("id ASC").Find(&loans).Error
	return loans, err
}

// CountOutstanding counts a member's unreturned loans.
func (r *Repository) CountOutstanding(memberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("member_id = ? AND actual_return_date IS NULL", memberID).
		Count(&count).Error
	return count, err
}

// CountOutstandingForBook counts unreturned loans of one book.
func (r *Repository) CountOutstandingForBook(isbn string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("book_isbn = ? AND actual_return_date IS NULL", isbn).
		Count(&count).Error
	return count, err
}

// FindNeedingReconciliation returns loans whose book write failed.
func (r *Repository) FindNeedingReconciliation() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Where("needs_reconciliation = ?", true).Order("id ASC").Find(&loans).Error
	return loans, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}
