package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/membership"
)

type LoanStats struct {
	Outstanding int `json:"outstanding"`
	Overdue     int `json:"overdue"`
}

type StatsResponse struct {
	Catalog    catalog.Stats    `json:"catalog"`
	Membership membership.Stats `json:"membership"`
	Loans      LoanStats        `json:"loans"`
}

type StatsController struct {
	catalog CatalogService
	members MembershipService
	loans   LoanEngine
}

func NewStatsController(catalog CatalogService, members MembershipService, loans LoanEngine) *StatsController {
	return &StatsController{catalog: catalog, members: members, loans: loans}
}

// Get returns library-wide counters.
// GET /api/stats
func (sc *StatsController) Get(c *gin.Context) {
	catalogStats, err := sc.catalog.Stats()
	if err != nil {
		respondInternalError(c, err, "catalog stats")
		return
	}

	memberStats, err := sc.members.Stats()
	if err != nil {
		respondInternalError(c, err, "membership stats")
		return
	}

	outstanding, err := sc.loans.ListOutstanding()
	if err != nil {
		respondDomainError(c, err, "outstanding loans")
		return
	}

	overdue, err := sc.loans.ListOverdue()
	if err != nil {
		respondDomainError(c, err, "overdue loans")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Catalog:    catalogStats,
		Membership: memberStats,
		Loans:      LoanStats{Outstanding: len(outstanding), Overdue: len(overdue)},
	})
}
