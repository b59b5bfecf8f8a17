package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/tasks"
	"github.com/mrlokans/librarian/internal/utils"
	"github.com/mrlokans/librarian/internal/validation"
)

// BorrowRequest is the body of POST /api/loans.
type BorrowRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	MemberID uint   `json:"member_id" binding:"required"`
	DueDate  string `json:"due_date"` // optional, YYYY-MM-DD
}

type LoansController struct {
	engine LoanEngine
	queue  tasks.Enqueuer
}

// NewLoansController creates the loans controller. queue may be nil, in which
// case the reconciliation sweep runs inside the request.
func NewLoansController(engine LoanEngine, queue tasks.Enqueuer) *LoansController {
	return &LoansController{engine: engine, queue: queue}
}

// List returns loans filtered by status.
// GET /api/loans?status=outstanding|overdue
func (lc *LoansController) List(c *gin.Context) {
	var (
		result []entities.Loan
		err    error
	)
	switch status := c.Query("status"); status {
	case "":
		result, err = lc.engine.ListLoans()
	case "outstanding":
		result, err = lc.engine.ListOutstanding()
	case "overdue":
		result, err = lc.engine.ListOverdue()
	default:
		respondBadRequest(c, "invalid status: "+status)
		return
	}
	if err != nil {
		respondDomainError(c, err, "list loans")
		return
	}

	if result == nil {
		result = []entities.Loan{}
	}
	c.JSON(http.StatusOK, result)
}

// Get returns a loan with its book title, member name and overdue status.
// GET /api/loans/:id
func (lc *LoansController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := lc.engine.Details(id)
	if err != nil {
		respondDomainError(c, err, "get loan")
		return
	}
	c.JSON(http.StatusOK, details)
}

// Borrow lends a book to a member.
// POST /api/loans
func (lc *LoansController) Borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and member_id are required")
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := utils.ParseDate(req.DueDate)
		if err != nil {
			respondBadRequest(c, "due_date must be formatted as "+utils.DateLayout)
			return
		}
		due = &parsed
	}

	isbn := validation.NormalizeIdentifier(req.BookID)
	loan, err := lc.engine.BorrowBook(c.Request.Context(), isbn, req.MemberID, due)
	if lc.respondLoanWrite(c, loan, err, "borrow book") {
		respondCreated(c, loan)
	}
}

// Return closes a loan and reports its penalty.
// POST /api/loans/:id/return
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.engine.ReturnBook(c.Request.Context(), id)
	if lc.respondLoanWrite(c, loan, err, "return book") {
		c.JSON(http.StatusOK, loan)
	}
}

// Reconcile repairs the book availability behind one loan.
// POST /api/loans/:id/reconcile
func (lc *LoansController) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repaired, err := lc.engine.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "reconcile loan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan_id": id, "repaired": repaired})
}

// ReconcileAll queues the reconciliation sweep, or runs it inline when no
// task queue is configured.
// POST /api/admin/reconcile
func (lc *LoansController) ReconcileAll(c *gin.Context) {
	if lc.queue != nil {
		ids, err := lc.queue.Enqueue(tasks.ReconcileAllLoansTask{})
		if err != nil {
			respondInternalError(c, err, "enqueue reconciliation sweep")
			return
		}
		respondAccepted(c, "reconciliation sweep queued", "", gin.H{"task_id": firstID(ids)})
		return
	}

	result, err := lc.engine.ReconcileAll(c.Request.Context())
	if err != nil && result.Checked == 0 {
		respondInternalError(c, err, "reconcile all loans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondLoanWrite handles the error side of borrow and return. A loan whose
// book write is still pending gets a 202 and the caller writes nothing more.
// It returns true when the caller should write the success response.
func (lc *LoansController) respondLoanWrite(c *gin.Context, loan *entities.Loan, err error, context string) bool {
	if err == nil {
		return true
	}

	var consistency *loans.ConsistencyError
	if errors.As(err, &consistency) && loan != nil {
		respondAccepted(c, consistency.Error(), CodeReconciliationPending, loan)
		return false
	}

	respondDomainError(c, err, context)
	return false
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
