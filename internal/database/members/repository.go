// Package members provides database operations for library membership.
package members

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveMember inserts a new member and assigns its ID.
func (r *Repository) SaveMember(member *entities.Member) error {
	return r.db.Create(member).Error
}

// GetMemberByID retrieves a member by ID.
func (r *Repository) GetMemberByID(id uint) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// GetMemberByEmail retrieves a member by email address.
func (r *Repository) GetMemberByEmail(email string) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// MemberExistsByEmail reports whether any member uses the email address.
func (r *Repository) MemberExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateMember writes names, email and the active flag.
func (r *Repository) UpdateMember(member *entities.Member) error {
	result := r.db.Model(member).
		Select("first_name", "last_name", "email", "active", "updated_at").
		Updates(member)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&entities.Member{}).Where("id = ?", member.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entities.ErrNotFound
		}
	}
	return nil
}

// ListMembers returns every member ordered by last and first name.
func (r *Repository) ListMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Order("last_name ASC, first_name ASC, id ASC").Find(&members).Error
	return members, err
}

// ListActiveMembers returns members allowed to borrow.
func (r *Repository) ListActiveMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Where("active = ?", true).Order("last_name ASC, first_name ASC, id ASC").Find(&members).Error
	return members, err
}

// CountMembers returns the total number of members and how many are active.
func (r *Repository) CountMembers() (total int64, active int64, err error) {
	if err = r.db.Model(&entities.Member{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&entities.Member{}).Where("active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	return err
}
