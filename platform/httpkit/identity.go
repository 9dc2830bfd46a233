package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the acting user's identity. It abstracts identity
// extraction from the web framework so handlers can attribute actions
// without depending on Gin internals.
type Identity interface {
	// UserID returns the acting user's ID.
	UserID() uuid.UUID
	// IsAuthenticated returns true if the user was identified.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	return &identity{userID: uid, authenticated: true}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not identified, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
