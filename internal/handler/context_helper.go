package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarship-approval-api/internal/middleware"
	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/response"
)

// requireClaims writes 401 and returns nil when the request carries no identity.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return claims
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, key+" must be a number")
	}
	return &v, nil
}

// listQuery reads the listing filters shared by every approval collection.
func listQuery(c *gin.Context) (service.ListQuery, error) {
	q := service.ListQuery{Search: strings.TrimSpace(c.Query("search"))}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.ApprovalStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return q, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
		q.Status = &status
	}
	var err error
	if q.Month, err = optionalInt(c, "month"); err != nil {
		return q, err
	}
	if q.Year, err = optionalInt(c, "year"); err != nil {
		return q, err
	}
	if page, err := optionalInt(c, "page"); err != nil {
		return q, err
	} else if page != nil {
		q.Page = *page
	}
	if size, err := optionalInt(c, "page_size"); err != nil {
		return q, err
	} else if size != nil {
		q.PageSize = *size
	}
	return q, nil
}

// listed writes a projected page along with the response metadata.
func listed(c *gin.Context, items interface{}, pagination *models.Pagination) {
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}
