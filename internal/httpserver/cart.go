package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/your-org/apple-store/internal/logging"
	"github.com/your-org/apple-store/internal/service"
	"github.com/your-org/apple-store/internal/transport"
)

type CartHandler struct {
	Cart *service.CartService
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	lines, err := h.Cart.ListItems(ctx, sessionID(c))
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), "cannot list cart")
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_rejected", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	line, err := h.Cart.Add(ctx, sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), err.Error())
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product id is not an integer")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	found, err := h.Cart.UpdateQuantity(ctx, sessionID(c), productID, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), "cannot update cart")
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"product_id": productID, "quantity": req.Quantity})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product id is not an integer")
	}

	found, err := h.Cart.Remove(ctx, sessionID(c), productID)
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), "cannot remove cart item")
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Cart.Clear(ctx, sessionID(c)); err != nil {
		return echo.NewHTTPError(httpStatusFor(err), "cannot clear cart")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.Cart.Summary(ctx, sessionID(c))
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), "cannot compute cart summary")
	}
	return c.JSON(http.StatusOK, summary)
}
