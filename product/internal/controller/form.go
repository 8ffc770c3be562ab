package controller

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/pkg/request"
)

const MAX_UPLOAD_SIZE = 10 << 20

// productForm holds the multipart fields of a product request, a nil field
// was not sent.
type productForm struct {
	name          *string
	description   *string
	price         *string
	categoryID    *string
	units         *int32
	isBestSelling *bool
	image         *request.Image
	file          multipart.File
}

func (f productForm) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func formValue(form *multipart.Form, keys ...string) *string {
	for _, key := range keys {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			value := values[0]
			return &value
		}
	}
	return nil
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MAX_UPLOAD_SIZE)
	if err := r.ParseMultipartForm(MAX_UPLOAD_SIZE); err != nil {
		return productForm{}, fmt.Errorf("failed parsing multipart form with error=%w", errors.Join(inErrors.ErrBadRequest, err))
	}

	form := productForm{
		name:        formValue(r.MultipartForm, "name"),
		description: formValue(r.MultipartForm, "description"),
		price:       formValue(r.MultipartForm, "price"),
		categoryID:  formValue(r.MultipartForm, "category", "categoryId"),
	}

	if value := formValue(r.MultipartForm, "units"); value != nil {
		units, err := strconv.ParseInt(*value, 10, 32)
		if err != nil {
			return productForm{}, fmt.Errorf("failed parsing units=%s with error=%w", *value, errors.Join(inErrors.ErrBadRequest, err))
		}
		parsed := int32(units)
		form.units = &parsed
	}

	if value := formValue(r.MultipartForm, "isBestSelling"); value != nil {
		isBestSelling, err := strconv.ParseBool(*value)
		if err != nil {
			return productForm{}, fmt.Errorf("failed parsing isBestSelling=%s with error=%w", *value, errors.Join(inErrors.ErrBadRequest, err))
		}
		form.isBestSelling = &isBestSelling
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return productForm{}, fmt.Errorf("failed reading image with error=%w", errors.Join(inErrors.ErrBadRequest, err))
	default:
		form.file = file
		form.image = &request.Image{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	return form, nil
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func (f productForm) Product() request.Product {
	return request.Product{
		Name:          deref(f.name),
		Description:   deref(f.description),
		Price:         deref(f.price),
		CategoryID:    deref(f.categoryID),
		Units:         deref(f.units),
		IsBestSelling: deref(f.isBestSelling),
		Image:         f.image,
	}
}

func (f productForm) UpdateProduct() request.UpdateProduct {
	return request.UpdateProduct{
		Name:          f.name,
		Description:   f.description,
		Price:         f.price,
		CategoryID:    f.categoryID,
		Units:         f.units,
		IsBestSelling: f.isBestSelling,
		Image:         f.image,
	}
}
