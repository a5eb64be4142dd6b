package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func identityRouter(captured *primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	r.GET("/probe", func(c *gin.Context) {
		*captured = UserID(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestIdentityRejectsMissingHeader(t *testing.T) {
	var captured primitive.ObjectID
	r := identityRouter(&captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, captured.IsZero())
}

func TestIdentityRejectsMalformedHeader(t *testing.T) {
	var captured primitive.ObjectID
	r := identityRouter(&captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "not-hex")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityPassesValidID(t *testing.T) {
	var captured primitive.ObjectID
	r := identityRouter(&captured)
	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", userID.Hex())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured)
}
