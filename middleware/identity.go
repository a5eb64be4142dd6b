package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const headerUserID = "X-User-Id"

// ContextKeyUserID is the gin context key holding the authenticated
// user's ObjectID.
const ContextKeyUserID = "user_id"

// Identity reads the user id stamped by the upstream auth layer and
// rejects requests without a valid one.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(headerUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + headerUserID + " header"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid " + headerUserID + " header"})
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) primitive.ObjectID {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(primitive.ObjectID); ok {
			return id
		}
	}
	return primitive.NilObjectID
}
