package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

// ProductController serves the customer-facing catalogue.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{service: services.NewProductService(db)}
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := c.service.Catalog(
		queryInt(r, "page", 1),
		queryInt(r, "page_size", 10),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.GetActive(pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, product)
}
