package handlers

import (
	"log"

	"eclat/internal/models"
	"eclat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the cart and checkout flow over HTTP. It is a thin
// translation layer; all checkout rules live in the CartService.
type CartHandler struct {
	cartService    *services.CartService
	productService *services.ProductService
	validate       *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the cart and checkout routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)

	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Put("/shipping", h.HandleSetShipping)
	checkoutRoutes.Post("/advance", h.HandleAdvance)
	checkoutRoutes.Post("/back", h.HandleBack)
	checkoutRoutes.Post("/payment", h.HandleSubmitPayment)
}

// cartView is the cart as presented to clients: items plus derived totals.
func (h *CartHandler) cartView() fiber.Map {
	return fiber.Map{
		"items":        h.cartService.Items(),
		"step":         h.cartService.Step(),
		"count":        h.cartService.Count(),
		"subtotal":     h.cartService.Subtotal(),
		"shipping_fee": h.cartService.ShippingFee(),
		"total":        h.cartService.Total(),
	}
}

// HandleGetCart returns the cart with derived totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.cartView())
}

// HandleAddItem puts a product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gte=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A product_id and a quantity of at least 1 are required",
		})
	}

	product, err := h.productService.GetProductByID(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	}

	h.cartService.AddItem(*product, req.Quantity)
	return c.Status(fiber.StatusCreated).JSON(h.cartView())
}

// HandleUpdateQuantity adjusts an item's quantity by a delta (never below 1).
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	h.cartService.UpdateQuantity(c.Params("productId"), req.Delta)
	return c.JSON(h.cartView())
}

// HandleRemoveItem removes a product from the cart. Removing an absent
// product is a no-op.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cartService.RemoveItem(c.Params("productId"))
	return c.JSON(h.cartView())
}

// HandleClearCart empties the cart and resets the checkout flow.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	h.cartService.Clear()
	return c.JSON(h.cartView())
}

// HandleSetShipping stores the delivery details entered at the shipping step.
func (h *CartHandler) HandleSetShipping(c *fiber.Ctx) error {
	var info models.ShippingInfo
	if err := c.BodyParser(&info); err != nil {
		log.Printf("Error parsing shipping request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Partial shipping info is fine to store; completeness gates the
	// payment transition, not the save.
	h.cartService.SetShipping(info)
	return c.JSON(fiber.Map{
		"shipping": info,
		"complete": info.Complete(),
	})
}

// HandleAdvance moves the checkout one step forward from wherever it is.
func (h *CartHandler) HandleAdvance(c *fiber.Ctx) error {
	var result services.TransitionResult
	switch h.cartService.Step() {
	case models.StepCart:
		result = h.cartService.ProceedToShipping()
	case models.StepShipping:
		result = h.cartService.ProceedToPayment()
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Nothing to advance from the current step",
			"step":    h.cartService.Step(),
		})
	}
	return respondTransition(c, result)
}

// HandleBack returns to an earlier checkout step without losing data.
func (h *CartHandler) HandleBack(c *fiber.Ctx) error {
	var req struct {
		Step models.CheckoutStep `json:"step"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing back request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	return respondTransition(c, h.cartService.Back(req.Step))
}

// HandleSubmitPayment runs the simulated payment and, on approval, returns
// the placed order. The cart is intentionally not cleared here; the client
// clears it once the confirmation has been shown.
func (h *CartHandler) HandleSubmitPayment(c *fiber.Ctx) error {
	var payment models.PaymentInfo
	if err := c.BodyParser(&payment); err != nil {
		log.Printf("Error parsing payment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, result := h.cartService.SubmitPayment(c.Context(), payment)
	if !result.OK {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Payment was not completed",
			"reason":  result.Reason,
			"step":    result.Step,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order": order,
		"step":  result.Step,
	})
}

func respondTransition(c *fiber.Ctx, result services.TransitionResult) error {
	if !result.OK {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Transition blocked: " + result.Reason,
			"reason":  result.Reason,
			"step":    result.Step,
		})
	}
	return c.JSON(fiber.Map{
		"step": result.Step,
	})
}
