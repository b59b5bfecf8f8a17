// Package membership validates and manages library members.
package membership

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/utils"
	"github.com/mrlokans/librarian/internal/validation"
)

var (
	ErrDuplicateEmail = errors.New("a member with this email already exists")
	ErrMemberNotFound = errors.New("member not found")
)

type Store interface {
	GetMemberByID(id uint) (*entities.Member, error)
	GetMemberByEmail(email string) (*entities.Member, error)
	MemberExistsByEmail(email string) (bool, error)
	SaveMember(member *entities.Member) error
	UpdateMember(member *entities.Member) error
	ListMembers() ([]entities.Member, error)
	ListActiveMembers() ([]entities.Member, error)
	CountMembers() (total int64, active int64, err error)
}

type Stats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Register validates and stores a new, active member registered today.
func (s *Service) Register(member *entities.Member) error {
	normalize(member)
	if err := validate(member); err != nil {
		return err
	}

	exists, err := s.store.MemberExistsByEmail(member.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, member.Email)
	}

	member.ID = 0
	member.Active = true
	member.RegisteredAt = utils.CivilDate(s.now())
	if err := s.store.SaveMember(member); err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

// Update replaces names and email of an existing member. Registration date and
// active flag are kept as stored.
func (s *Service) Update(member *entities.Member) error {
	normalize(member)
	if err := validate(member); err != nil {
		return err
	}

	current, err := s.GetMember(member.ID)
	if err != nil {
		return err
	}

	if member.Email != current.Email {
		other, err := s.store.GetMemberByEmail(member.Email)
		switch {
		case err == nil && other.ID != member.ID:
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, member.Email)
		case err != nil && !errors.Is(err, entities.ErrNotFound):
			return fmt.Errorf("failed to check email: %w", err)
		}
	}

	member.Active = current.Active
	member.RegisteredAt = current.RegisteredAt
	member.CreatedAt = current.CreatedAt
	return s.save(member)
}

// SetActive activates or deactivates a member.
func (s *Service) SetActive(id uint, active bool) (*entities.Member, error) {
	member, err := s.GetMember(id)
	if err != nil {
		return nil, err
	}
	if member.Active == active {
		return member, nil
	}

	member.Active = active
	if err := s.save(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) GetMember(id uint) (*entities.Member, error) {
	member, err := s.store.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMemberNotFound, id)
		}
		return nil, fmt.Errorf("failed to get member %d: %w", id, err)
	}
	return member, nil
}

func (s *Service) GetByEmail(email string) (*entities.Member, error) {
	email = validation.NormalizeEmail(email)
	member, err := s.store.GetMemberByEmail(email)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, email)
		}
		return nil, fmt.Errorf("failed to get member %s: %w", email, err)
	}
	return member, nil
}

func (s *Service) List() ([]entities.Member, error) {
	return s.store.ListMembers()
}

func (s *Service) ListActive() ([]entities.Member, error) {
	return s.store.ListActiveMembers()
}

// Search matches first name, last name, full name or email, case-insensitively.
// A blank query lists every member.
func (s *Service) Search(query string) ([]entities.Member, error) {
	members, err := s.store.ListMembers()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return members, nil
	}

	var found []entities.Member
	for _, m := range members {
		if matches(m, query) {
			found = append(found, m)
		}
	}
	return found, nil
}

func (s *Service) Stats() (Stats, error) {
	total, active, err := s.store.CountMembers()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Active: active, Inactive: total - active}, nil
}

func (s *Service) save(member *entities.Member) error {
	if err := s.store.UpdateMember(member); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrMemberNotFound, member.ID)
		}
		return fmt.Errorf("failed to update member %d: %w", member.ID, err)
	}
	return nil
}

func matches(m entities.Member, query string) bool {
	for _, field := range []string{m.FirstName, m.LastName, m.FullName(), m.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func normalize(member *entities.Member) {
	member.FirstName = strings.TrimSpace(member.FirstName)
	member.LastName = strings.TrimSpace(member.LastName)
	member.Email = validation.NormalizeEmail(member.Email)
}

func validate(member *entities.Member) error {
	return validation.Collect(
		validation.NotBlank("first_name", member.FirstName),
		validation.MaxLength("first_name", member.FirstName, 100),
		validation.NotBlank("last_name", member.LastName),
		validation.MaxLength("last_name", member.LastName, 100),
		validation.Email("email", member.Email),
		validation.MaxLength("email", member.Email, 255),
	)
}
