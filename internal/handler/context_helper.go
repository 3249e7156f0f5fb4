package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/middleware"
	"github.com/noah-isme/lms-api/internal/models"
)

func identityFromContext(c *gin.Context) *models.Identity {
	identity, ok := middleware.Identity(c)
	if !ok {
		return nil
	}
	return identity
}

func claimsFromContext(c *gin.Context) *models.AccessClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}
