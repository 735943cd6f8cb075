package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/api/middleware"
	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/coupon"
	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/service"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

// CouponManager is the coupon surface of the admin console
type CouponManager interface {
	Create(ctx context.Context, draft coupon.Draft, token string) (*service.CreatedCoupon, error)
	List(ctx context.Context, token string) ([]backend.CouponResponse, error)
	Submissions(ctx context.Context, code string, limit int, token string) ([]*domain.SubmissionEvent, error)
}

// formValue accepts a JSON string or number as typed into the form
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = formValue(s)
		return nil
	}
	*v = formValue(raw)
	return nil
}

// CreateCouponRequest represents the coupon form payload. Field rules are
// checked by the coupon gate so every violation is reported per field.
type CreateCouponRequest struct {
	Code               formValue `json:"code"`
	DiscountPercentage formValue `json:"discountPercentage"`
	ValidityStartDate  formValue `json:"validityStartDate"`
	ValidityEndDate    formValue `json:"validityEndDate"`
	MinimumOrderValue  formValue `json:"minimumOrderValue"`
}

func (r CreateCouponRequest) draft() coupon.Draft {
	return coupon.Draft{
		Code:               string(r.Code),
		DiscountPercentage: string(r.DiscountPercentage),
		ValidityStartDate:  string(r.ValidityStartDate),
		ValidityEndDate:    string(r.ValidityEndDate),
		MinimumOrderValue:  string(r.MinimumOrderValue),
	}
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID                 int64  `json:"id,omitempty"`
	Code               string `json:"code"`
	DiscountPercentage string `json:"discountPercentage"`
	ValidityStartDate  string `json:"validityStartDate"`
	ValidityEndDate    string `json:"validityEndDate"`
	MinimumOrderValue  string `json:"minimumOrderValue"`
	Active             *bool  `json:"active,omitempty"`
}

func toCouponResponse(id int64, c domain.Coupon) CouponResponse {
	return CouponResponse{
		ID:                 id,
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage.String(),
		ValidityStartDate:  c.ValidityStartDate.UTC().Format(domain.TimestampLayout),
		ValidityEndDate:    c.ValidityEndDate.UTC().Format(domain.TimestampLayout),
		MinimumOrderValue:  c.MinimumOrderValue.String(),
	}
}

// SubmissionsQuery represents the query of the submission history endpoint
type SubmissionsQuery struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

// SubmissionResponse represents one audit entry
type SubmissionResponse struct {
	ID        string                  `json:"id"`
	Status    domain.SubmissionStatus `json:"status"`
	Message   string                  `json:"message,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
	CreatedAt string                  `json:"created_at"`
}

// HandleCreateCoupon handles POST /v1/admin/coupons
func HandleCreateCoupon(coupons CouponManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.GetAuthToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}

		created, err := coupons.Create(c.Request.Context(), req.draft(), token)
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": coupon.SuccessMessage,
			"coupon":  toCouponResponse(created.ID, created.Coupon),
		})
	}
}

// HandleListCoupons handles GET /v1/admin/coupons
func HandleListCoupons(coupons CouponManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.GetAuthToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		list, err := coupons.List(c.Request.Context(), token)
		if err != nil {
			respondError(c, err, logger)
			return
		}

		out := make([]CouponResponse, 0, len(list))
		for _, item := range list {
			resp := toCouponResponse(item.ID, item.Coupon)
			active := item.IsActive
			resp.Active = &active
			out = append(out, resp)
		}

		c.JSON(http.StatusOK, gin.H{
			"coupons": out,
			"total":   len(out),
		})
	}
}

// HandleListSubmissions handles GET /v1/admin/coupons/:code/submissions
func HandleListSubmissions(coupons CouponManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.GetAuthToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var query SubmissionsQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid query",
				"details": err.Error(),
			})
			return
		}

		code := c.Param("code")
		events, err := coupons.Submissions(c.Request.Context(), code, query.Limit, token)
		if err != nil {
			var subErr *apperrors.SubmissionError
			if errors.As(err, &subErr) {
				respondError(c, err, logger)
				return
			}
			logger.Error("Failed to list submissions", zap.String("code", code), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		out := make([]SubmissionResponse, 0, len(events))
		for _, e := range events {
			out = append(out, SubmissionResponse{
				ID:        e.ID.String(),
				Status:    e.Status,
				Message:   e.Message,
				RequestID: e.RequestID,
				CreatedAt: e.CreatedAt.UTC().Format(domain.TimestampLayout),
			})
		}

		c.JSON(http.StatusOK, gin.H{"submissions": out})
	}
}
