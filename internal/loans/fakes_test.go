package loans

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/utils"
)

var errDiskFull = errors.New("disk full")

// memStore keeps books, members and loans in memory and can fail book writes on demand.
type memStore struct {
	mu      sync.Mutex
	books   map[string]entities.Book
	members map[uint]entities.Member
	loans   map[uint]entities.Loan
	nextID  uint

	bookWriteFailures int // remaining UpdateBook calls that fail
	bookWrites        int
	loanUpdateErr     error
}

func newMemStore() *memStore {
	return &memStore{
		books:   make(map[string]entities.Book),
		members: make(map[uint]entities.Member),
		loans:   make(map[uint]entities.Loan),
	}
}

func (s *memStore) addBook(b entities.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ISBN] = b
}

func (s *memStore) addMember(m entities.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
}

func (s *memStore) book(isbn string) entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[isbn]
}

func (s *memStore) loan(id uint) entities.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loans[id]
}

func (s *memStore) loanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loans)
}

func (s *memStore) failBookWrites(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookWriteFailures = n
}

func (s *memStore) GetBook(isbn string) (*entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[isbn]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) UpdateBook(book *entities.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookWrites++
	if s.bookWriteFailures > 0 {
		s.bookWriteFailures--
		return errDiskFull
	}
	if _, ok := s.books[book.ISBN]; !ok {
		return entities.ErrNotFound
	}
	s.books[book.ISBN] = *book
	return nil
}

func (s *memStore) GetMemberByID(id uint) (*entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) SaveLoan(loan *entities.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	loan.ID = s.nextID
	s.loans[loan.ID] = *loan
	return nil
}

func (s *memStore) GetLoan(id uint) (*entities.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &l, nil
}

func (s *memStore) UpdateLoan(loan *entities.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loanUpdateErr != nil {
		return s.loanUpdateErr
	}
	if _, ok := s.loans[loan.ID]; !ok {
		return entities.ErrNotFound
	}
	s.loans[loan.ID] = *loan
	return nil
}

func (s *memStore) filter(keep func(entities.Loan) bool) []entities.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Loan
	for _, l := range s.loans {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) FindAll() ([]entities.Loan, error) {
	return s.filter(func(entities.Loan) bool { return true }), nil
}

func (s *memStore) FindOutstanding() ([]entities.Loan, error) {
	return s.filter(entities.Loan.IsOutstanding), nil
}

func (s *memStore) FindOverdue(today time.Time) ([]entities.Loan, error) {
	return s.filter(func(l entities.Loan) bool {
		if l.ActualReturnDate == nil {
			return utils.CivilDate(today).After(l.ExpectedReturnDate)
		}
		return l.ActualReturnDate.After(l.ExpectedReturnDate)
	}), nil
}

func (s *memStore) FindByMember(memberID uint) ([]entities.Loan, error) {
	return s.filter(func(l entities.Loan) bool { return l.MemberID == memberID }), nil
}

func (s *memStore) CountOutstanding(memberID uint) (int64, error) {
	return int64(len(s.filter(func(l entities.Loan) bool {
		return l.MemberID == memberID && l.IsOutstanding()
	}))), nil
}

func (s *memStore) CountOutstandingForBook(isbn string) (int64, error) {
	return int64(len(s.filter(func(l entities.Loan) bool {
		return l.BookISBN == isbn && l.IsOutstanding()
	}))), nil
}

func (s *memStore) FindNeedingReconciliation() ([]entities.Loan, error) {
	return s.filter(func(l entities.Loan) bool { return l.NeedsReconciliation }), nil
}

// recordingReconciler remembers every scheduled loan id.
type recordingReconciler struct {
	mu        sync.Mutex
	scheduled []uint
	err       error
}

func (r *recordingReconciler) ScheduleReconciliation(loanID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, loanID)
	return r.err
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(y int, m time.Month, d int) *clock {
	return &clock{now: time.Date(y, m, d, 10, 30, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) set(y int, m time.Month, d int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(y, m, d, 16, 45, 0, 0, time.UTC)
}
