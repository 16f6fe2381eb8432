package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgeduc/sge-backend/internal/response"
)

// RequireRole checks that the JWT carries one of the allowed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}

// RequireSchool checks that the JWT belongs to the school named in the
// :schoolId path param. Coordinators and teachers only ever act within
// their own school.
func RequireSchool() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		schoolID := c.Param("schoolId")
		if schoolID != "" && schoolID != claims.SchoolID {
			response.AbortFail(c, http.StatusForbidden, response.ErrSchoolMismatch)
			return
		}

		c.Next()
	}
}
