package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/dto"
)

type decimalQuery struct {
	Amount string `form:"amount" binding:"required,decimal"`
}

func TestSetupValidator_DecimalRule(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		var q decimalQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("accepts a parsable amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test?amount=150.50", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test?amount=abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "amount", resp.Details[0].Field)
		assert.Equal(t, "Must be a decimal amount", resp.Details[0].Message)
	})

	t.Run("reports missing required field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "This field is required", resp.Details[0].Message)
	})
}
