package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/middleware/auth"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/transport"
	"github.com/Skotchmaster/webshop/internal/util"
)

type ReviewsHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewsHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	id, err := parseID(c, l, "get_review_failed")
	if err != nil {
		return err
	}
	review, err := h.Svc.GetReview(ctx, id)
	if err != nil {
		return fail(l, "get_review_failed", err)
	}
	return c.JSON(http.StatusOK, review)
}

// GetReviews lists reviews, optionally only those of ?product_id=.
func (h *ReviewsHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_reviews")

	var productID uuid.UUID
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			l.Warn("get_reviews_error", "status", 400, "reason", "product_id is not a uuid", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgBadID)
		}
		productID = id
	}

	page, offset, limit := paging(c)
	total, items, err := h.Svc.ListReviews(ctx, productID, offset, limit)
	if err != nil {
		return fail(l, "get_reviews_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(items, page, offset, limit, total))
}

func (h *ReviewsHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "review_create_error", err)
	}
	if req.Name == "" {
		req.Name = auth.Username(c)
	}

	review, err := h.Svc.CreateReview(ctx, req)
	if err != nil {
		return fail(l, "review_create_error", err)
	}
	l.Info("review_create_success", "review_id", review.ID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewsHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update_review")

	id, err := parseID(c, l, "review_update_error")
	if err != nil {
		return err
	}
	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "review_update_error", err)
	}

	review, err := h.Svc.UpdateReview(ctx, id, req)
	if err != nil {
		return fail(l, "review_update_error", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewsHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	id, err := parseID(c, l, "review_delete_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteReview(ctx, id); err != nil {
		return fail(l, "review_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
