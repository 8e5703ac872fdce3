package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/dto"
)

// catalogHandler handles master data: parties, products, agreements and the category taxonomy.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// registerCatalogRoutes registers routes related to master data.
func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogService: catalogService}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
	}
	entities := rg.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("", h.listEntities)
		entities.GET("/:id", h.getEntity)
	}
	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
	}
	agreements := rg.Group("/agreements")
	{
		agreements.POST("", h.createAgreement)
		agreements.GET("", h.listAgreements)
		agreements.GET("/:id", h.getAgreement)
	}
	rg.GET("/categories", h.listCategories)
}

// createCustomer godoc
// @Summary Create a customer
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} domain.Customer
// @Security BearerAuth
// @Router /customers [post]
func (h *catalogHandler) createCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	customer, err := h.catalogService.CreateCustomer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// @Summary List customers
// @Tags catalog
// @Produce  json
// @Success 200 {array} domain.Customer
// @Security BearerAuth
// @Router /customers [get]
func (h *catalogHandler) listCustomers(c *gin.Context) {
	customers, err := h.catalogService.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err, "list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// @Summary Get a customer
// @Tags catalog
// @Produce  json
// @Param   id path int true "Customer ID"
// @Success 200 {object} domain.Customer
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *catalogHandler) getCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.catalogService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// createEntity godoc
// @Summary Create a supplier, lender or other entity
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} domain.ExternalEntity
// @Failure 400 {object} map[string]string "Opening payable on a non-supplier"
// @Security BearerAuth
// @Router /entities [post]
func (h *catalogHandler) createEntity(c *gin.Context) {
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	e, err := h.catalogService.CreateEntity(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create entity")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *catalogHandler) listEntities(c *gin.Context) {
	entities, err := h.catalogService.ListEntities(c.Request.Context())
	if err != nil {
		respondError(c, err, "list entities")
		return
	}
	c.JSON(http.StatusOK, entities)
}

func (h *catalogHandler) getEntity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	e, err := h.catalogService.GetEntity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve entity")
		return
	}
	c.JSON(http.StatusOK, e)
}

// createProduct godoc
// @Summary Create a product
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Security BearerAuth
// @Router /products [post]
func (h *catalogHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.catalogService.CreateProduct(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *catalogHandler) listProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *catalogHandler) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// createAgreement godoc
// @Summary Create a financing agreement
// @Tags agreements
// @Accept  json
// @Produce  json
// @Param   agreement body dto.CreateAgreementRequest true "Agreement details"
// @Success 201 {object} domain.Agreement
// @Failure 404 {object} map[string]string "Counterparty not found"
// @Security BearerAuth
// @Router /agreements [post]
func (h *catalogHandler) createAgreement(c *gin.Context) {
	var req dto.CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	a, err := h.catalogService.CreateAgreement(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create agreement")
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *catalogHandler) listAgreements(c *gin.Context) {
	agreements, err := h.catalogService.ListAgreements(c.Request.Context())
	if err != nil {
		respondError(c, err, "list agreements")
		return
	}
	c.JSON(http.StatusOK, agreements)
}

func (h *catalogHandler) getAgreement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	a, err := h.catalogService.GetAgreement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve agreement")
		return
	}
	c.JSON(http.StatusOK, a)
}

// listCategories godoc
// @Summary List transaction categories
// @Tags catalog
// @Produce  json
// @Success 200 {array} domain.Category
// @Security BearerAuth
// @Router /categories [get]
func (h *catalogHandler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.ListCategories(c.Request.Context()))
}
