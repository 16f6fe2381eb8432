package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseUUIDParam parses a UUID path parameter.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// parseUUIDs converts request-level string ids into UUIDs.
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// parseYearTerm reads the mandatory ?year= and ?term= query params.
func parseYearTerm(c *gin.Context) (year, term int, err error) {
	year, err = strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year: %w", err)
	}
	term, err = strconv.Atoi(c.Query("term"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid term: %w", err)
	}
	return year, term, nil
}
