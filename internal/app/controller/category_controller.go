package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// List returns every category with its product count
// GET /api/v1/admin/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List()
	if err != nil {
		respondError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create adds a category
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	var input service.CategoryInput
	if !bindJSON(c, &input) {
		return
	}

	category, err := ctrl.categoryService.Create(actorFrom(c), input)
	if err != nil {
		respondError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// Update renames a category or moves it to another domain
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.CategoryInput
	if !bindJSON(c, &input) {
		return
	}

	category, err := ctrl.categoryService.Update(actorFrom(c), id, input)
	if err != nil {
		respondError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Delete removes a category that has no products
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(actorFrom(c), id); err != nil {
		respondError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada"})
}
