package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bizbooks/internal/core/domain"
	"github.com/SscSPs/bizbooks/internal/core/services"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
	"github.com/SscSPs/bizbooks/internal/dto"
	"github.com/SscSPs/bizbooks/internal/handlers"
	"github.com/SscSPs/bizbooks/internal/middleware"
	"github.com/SscSPs/bizbooks/internal/repositories/database/memory"
)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	store     *memory.Store
	jwtSecret string
	token     string
}

// generateTestToken creates a dummy JWT for testing.
func generateTestToken(secret, userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "bizbooks-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.store = memory.NewStore()
	profile := domain.BusinessProfile{
		State:              "Karnataka",
		OpeningCashBalance: decimal.NewFromInt(1000),
		OpeningBankBalance: decimal.Zero,
	}
	container := services.NewServiceContainer(memory.NewRepositoryProvider(suite.store), taxonomy.Default(), profile)
	handlers.RegisterAPIRoutes(suite.router.Group("/api/v1"), container)

	token, err := generateTestToken(suite.jwtSecret, uuid.NewString())
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	suite.token = token
}

func (suite *TransactionHandlerTestSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, target, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) postRent(date, amount string) dto.TransactionResponse {
	w := suite.do(http.MethodPost, "/api/v1/transactions", dto.CreateTransactionRequest{
		Date:     date,
		Category: "Rent Expense (Cash)",
		Amount:   decimal.RequireFromString(amount),
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateAndGet() {
	created := suite.postRent("2024-02-01", "-500")
	suite.Positive(created.ID)
	suite.Equal("Rent Expense (Cash)", created.Category)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", created.ID), nil)
	suite.Equal(http.StatusOK, w.Code)
	var got domain.Transaction
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.Amount.Equal(decimal.NewFromInt(-500)))
}

func (suite *TransactionHandlerTestSuite) TestCreate_Rejections() {
	w := suite.do(http.MethodPost, "/api/v1/transactions", dto.CreateTransactionRequest{
		Date: "2024-02-01", Category: "Rent Expense (Crypto)", Amount: decimal.NewFromInt(-5),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "unknown category")

	w = suite.do(http.MethodPost, "/api/v1/transactions", dto.CreateTransactionRequest{
		Date: "01/02/2024", Category: "Rent Expense (Cash)", Amount: decimal.NewFromInt(-5),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid request format")

	w = suite.do(http.MethodPost, "/api/v1/transactions", dto.CreateTransactionRequest{
		Date: "2024-02-01", Category: "Rent Expense (Cash)", Amount: decimal.NewFromInt(5),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestList_Pages() {
	first := suite.postRent("2024-02-01", "-100")
	second := suite.postRent("2024-02-02", "-200")
	third := suite.postRent("2024-02-02", "-300")

	w := suite.do(http.MethodGet, "/api/v1/transactions?limit=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Require().Len(page.Transactions, 2)
	suite.Equal(first.ID, page.Transactions[0].ID)
	suite.Equal(second.ID, page.Transactions[1].ID)
	suite.Require().NotNil(page.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/transactions?limit=2&nextToken="+url.QueryEscape(*page.NextToken), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	page = dto.ListTransactionsResponse{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Require().Len(page.Transactions, 1)
	suite.Equal(third.ID, page.Transactions[0].ID)
	suite.Nil(page.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/transactions?nextToken=not-a-token", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestDelete() {
	created := suite.postRent("2024-02-01", "-500")

	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", created.ID), nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", created.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/transactions/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCashLedgerAndCategories() {
	suite.postRent("2024-02-01", "-500")

	w := suite.do(http.MethodGet, "/api/v1/ledgers/cash", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var snap domain.LedgerSnapshot
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &snap))
	suite.True(snap.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(snap.ClosingBalance.Equal(decimal.NewFromInt(500)), snap.ClosingBalance.String())

	w = suite.do(http.MethodGet, "/api/v1/categories", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var cats []domain.Category
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &cats))
	suite.NotEmpty(cats)
}

func (suite *TransactionHandlerTestSuite) TestCatalogRoutes() {
	w := suite.do(http.MethodPost, "/api/v1/customers", dto.CreateCustomerRequest{Name: "Asha Traders", State: "Karnataka"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var customer domain.Customer
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &customer))

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/customers/%d", customer.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/customers/999", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/entities", dto.CreateEntityRequest{
		Name: "Town Finance", EntityType: domain.EntityLender, OpeningPayableBalance: decimal.NewFromInt(10),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestInvoicePreview() {
	w := suite.do(http.MethodPost, "/api/v1/customers", dto.CreateCustomerRequest{Name: "Asha Traders", State: "Karnataka"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var customer domain.Customer
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &customer))

	w = suite.do(http.MethodPost, "/api/v1/products", dto.CreateProductRequest{
		Name: "Rice 25kg", OpeningStock: 10, CostPrice: decimal.NewFromInt(900), SalePrice: decimal.NewFromInt(1000),
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var product domain.Product
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &product))

	body := map[string]any{
		"number":      "INV-001",
		"customerID":  customer.ID,
		"invoiceDate": "2024-03-01",
		"gstRate":     "18",
		"lines": []map[string]any{
			{"productID": product.ID, "quantity": 2, "unitPrice": "1000"},
		},
	}
	w = suite.do(http.MethodPost, "/api/v1/invoices/preview", body)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var receipt domain.InvoiceReceipt
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &receipt))
	suite.True(receipt.Totals.GrandTotal.Equal(decimal.NewFromInt(2360)), receipt.Totals.GrandTotal.String())
	suite.True(receipt.Totals.CGST.Equal(decimal.NewFromInt(180)))
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
