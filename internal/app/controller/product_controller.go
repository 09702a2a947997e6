package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// List returns every product, including unavailable ones
// GET /api/v1/admin/products
func (ctrl *ProductController) List(c *gin.Context) {
	products, err := ctrl.productService.List(c.Query("search"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Get returns one product
// GET /api/v1/admin/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.Get(id)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Create adds a product
// POST /api/v1/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	var input service.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := ctrl.productService.Create(actorFrom(c), input)
	if err != nil {
		respondError(c, err, "create product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update replaces a product's fields
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := ctrl.productService.Update(actorFrom(c), id, input)
	if err != nil {
		respondError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Delete removes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(actorFrom(c), id); err != nil {
		respondError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}
