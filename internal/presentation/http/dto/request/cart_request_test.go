package request

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindAddItem(t *testing.T, body string) (AddCartItemRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req AddCartItemRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestAddCartItemRequest_OmittedQuantityAccepted(t *testing.T) {
	req, err := bindAddItem(t, `{"product_id":"9b8e1c51-2c3d-4f6a-9b21-0f4e8a7d6c5b"}`)
	require.NoError(t, err, "a scan without a count must not be rejected")
	assert.Zero(t, req.Quantity)
}

func TestAddCartItemRequest_NegativeQuantityRejected(t *testing.T) {
	_, err := bindAddItem(t, `{"product_id":"9b8e1c51-2c3d-4f6a-9b21-0f4e8a7d6c5b","quantity":-1}`)
	assert.Error(t, err)
}

func TestAddCartItemRequest_ProductIDRequired(t *testing.T) {
	_, err := bindAddItem(t, `{"quantity":2}`)
	assert.Error(t, err)
}
