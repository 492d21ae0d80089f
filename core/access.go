package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireOwner parses the :user_id path segment and checks it against the
// authenticated identity. A mismatch responds exactly like a missing
// resource, so task and user ids cannot be probed across accounts. Do not
// "fix" this to a 403: the ambiguity is the contract.
func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := identityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required")
		c.Abort()
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(c.Param("user_id"))
	if err != nil || !identity.Owns(ownerID) {
		respondNotFound(c)
		c.Abort()
		return uuid.Nil, false
	}
	return ownerID, true
}

// respondNotFound is the single not-found shape shared by missing resources
// and denied access.
func respondNotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}
