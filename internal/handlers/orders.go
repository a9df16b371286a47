package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/transport"
	"github.com/Skotchmaster/webshop/internal/util"
)

type OrdersHTTP struct {
	Svc *service.OrderService
}

func (h *OrdersHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, l, "get_order_failed")
	if err != nil {
		return err
	}
	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	page, offset, limit := paging(c)
	total, orders, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(orders, page, offset, limit, total))
}

func (h *OrdersHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "order_create_error", err)
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "order_create_error", err)
	}
	l.Info("order_create_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrdersHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := parseID(c, l, "order_update_error")
	if err != nil {
		return err
	}
	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "order_update_error", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req)
	if err != nil {
		return fail(l, "order_update_error", err)
	}
	l.Info("order_update_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c, l, "order_delete_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return fail(l, "order_delete_error", err)
	}
	l.Info("order_delete_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
