package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
)

// MemberRequest is the body of POST /api/members and PUT /api/members/:id.
type MemberRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type MembersController struct {
	members MembershipService
	loans   LoanEngine
}

func NewMembersController(members MembershipService, loans LoanEngine) *MembersController {
	return &MembersController{members: members, loans: loans}
}

// List returns members, optionally searched or limited to active ones.
// GET /api/members?q=&active=true
func (mc *MembersController) List(c *gin.Context) {
	activeOnly, ok := parseBoolQuery(c, "active")
	if !ok {
		return
	}

	var (
		members []entities.Member
		err     error
	)
	switch q := c.Query("q"); {
	case q != "":
		members, err = mc.members.Search(q)
		if err == nil && activeOnly {
			members = filterActive(members)
		}
	case activeOnly:
		members, err = mc.members.ListActive()
	default:
		members, err = mc.members.List()
	}
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}

	if members == nil {
		members = []entities.Member{}
	}
	c.JSON(http.StatusOK, members)
}

// Get returns one member.
// GET /api/members/:id
func (mc *MembersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.members.GetMember(id)
	if err != nil {
		respondDomainError(c, err, "get member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Register creates a new active member.
// POST /api/members
func (mc *MembersController) Register(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	member := &entities.Member{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	if err := mc.members.Register(member); err != nil {
		respondDomainError(c, err, "register member")
		return
	}
	respondCreated(c, member)
}

// Update changes names and email of a member.
// PUT /api/members/:id
func (mc *MembersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	member := &entities.Member{ID: id, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	if err := mc.members.Update(member); err != nil {
		respondDomainError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Activate allows a member to borrow again.
// POST /api/members/:id/activate
func (mc *MembersController) Activate(c *gin.Context) {
	mc.setActive(c, true)
}

// Deactivate stops a member from starting new loans.
// POST /api/members/:id/deactivate
func (mc *MembersController) Deactivate(c *gin.Context) {
	mc.setActive(c, false)
}

func (mc *MembersController) setActive(c *gin.Context, active bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.members.SetActive(id, active)
	if err != nil {
		respondDomainError(c, err, "set member active")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Loans lists every loan of a member.
// GET /api/members/:id/loans
func (mc *MembersController) Loans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loans, err := mc.loans.ListByMember(id)
	if err != nil {
		respondDomainError(c, err, "list member loans")
		return
	}
	if loans == nil {
		loans = []entities.Loan{}
	}
	c.JSON(http.StatusOK, loans)
}

// OutstandingCount reports how many loans a member has out.
// GET /api/members/:id/loans/count
func (mc *MembersController) OutstandingCount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := mc.members.GetMember(id); err != nil {
		respondDomainError(c, err, "get member")
		return
	}

	count, err := mc.loans.CountOutstanding(id)
	if err != nil {
		respondDomainError(c, err, "count outstanding loans")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": id, "outstanding": count})
}

func filterActive(members []entities.Member) []entities.Member {
	var out []entities.Member
	for _, m := range members {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}
