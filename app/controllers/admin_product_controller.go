package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/bind"
	"github.com/chenweihao/weishop/pkg/response"
	"gorm.io/gorm"
)

// AdminProductController manages the catalogue from the back office.
type AdminProductController struct {
	service *services.ProductService
}

func NewAdminProductController(db *gorm.DB) *AdminProductController {
	return &AdminProductController{service: services.NewProductService(db)}
}

type productInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"nullable,url"`
}

func (in productInput) toService() services.ProductInput {
	return services.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
}

func (c *AdminProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, pagination, err := c.service.AdminList(
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

func (c *AdminProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.AdminGet(pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *AdminProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Create(in.toService())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, product)
}

func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Update(pathID(r, "id"), in.toService())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, product)
}

// Delete takes the product off sale; order history keeps its row.
func (c *AdminProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.SoftDelete(pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "product removed from sale"})
}

func (c *AdminProductController) Restore(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Restore(pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "product restored"})
}

// UploadImage accepts a multipart form with an "image" field.
func (c *AdminProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	product, err := c.service.UploadImage(pathID(r, "id"), file, header)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, product)
}
