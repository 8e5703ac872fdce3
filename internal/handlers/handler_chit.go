package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// chitHandler handles chit groups and their auctions.
type chitHandler struct {
	catalogService portssvc.ChitGroupSvc
	chitService    portssvc.ChitSvcFacade
}

// registerChitRoutes registers routes related to chit funds.
func registerChitRoutes(rg *gin.RouterGroup, catalogService portssvc.ChitGroupSvc, chitService portssvc.ChitSvcFacade) {
	h := &chitHandler{catalogService: catalogService, chitService: chitService}

	groups := rg.Group("/chit-groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("/:id", h.getGroup)
		groups.POST("/:id/auctions", h.settleAuction)
		groups.GET("/:id/auctions", h.listAuctions)
	}
}

// createGroup godoc
// @Summary Create a chit group
// @Tags chit
// @Accept  json
// @Produce  json
// @Param   group body dto.CreateChitGroupRequest true "Group details"
// @Success 201 {object} domain.ChitGroup
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Member customer not found"
// @Security BearerAuth
// @Router /chit-groups [post]
func (h *chitHandler) createGroup(c *gin.Context) {
	var req dto.CreateChitGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	g, err := h.catalogService.CreateChitGroup(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create chit group")
		return
	}
	c.JSON(http.StatusCreated, g)
}

// getGroup godoc
// @Summary Get a chit group
// @Tags chit
// @Produce  json
// @Param   id path int true "Group ID"
// @Success 200 {object} domain.ChitGroup
// @Security BearerAuth
// @Router /chit-groups/{id} [get]
func (h *chitHandler) getGroup(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	g, err := h.catalogService.GetChitGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve chit group")
		return
	}
	c.JSON(http.StatusOK, g)
}

// settleAuction godoc
// @Summary Settle an auction round
// @Description Records the prize payout and every other member's net contribution atomically.
// @Tags chit
// @Accept  json
// @Produce  json
// @Param   id path int true "Group ID"
// @Param   auction body dto.SettleAuctionRequest true "Auction outcome"
// @Success 201 {object} domain.ChitSettlement
// @Failure 400 {object} map[string]string "Invalid bid or member"
// @Failure 409 {object} map[string]string "Member already prized"
// @Security BearerAuth
// @Router /chit-groups/{id}/auctions [post]
func (h *chitHandler) settleAuction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SettleAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	s, err := h.chitService.SettleAuction(c.Request.Context(), req.ToDraft(id), userID)
	if err != nil {
		respondError(c, err, "settle auction")
		return
	}
	c.JSON(http.StatusCreated, s)
}

// listAuctions godoc
// @Summary List settled auction rounds
// @Tags chit
// @Produce  json
// @Param   id path int true "Group ID"
// @Success 200 {array} domain.ChitAuction
// @Security BearerAuth
// @Router /chit-groups/{id}/auctions [get]
func (h *chitHandler) listAuctions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	auctions, err := h.chitService.ListAuctions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "list auctions")
		return
	}
	c.JSON(http.StatusOK, auctions)
}
