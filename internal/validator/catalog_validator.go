package validator

import (
	"net/url"
	"regexp"
	"strings"

	"treeshop/internal/usecase"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type catalogValidator struct{}

// Usecaseは interface を依存注入
func NewCatalogValidator() usecase.CatalogValidator {
	return &catalogValidator{}
}

// 項目ごとのエラーを集める
type fieldErrors []usecase.FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, usecase.FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return usecase.NewValidationError(f)
}

// カテゴリ入力を検証
func (v *catalogValidator) ValidateCategory(in usecase.CategoryInput) error {
	var errs fieldErrors

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	checkSlug(&errs, in.Slug)

	if in.Image != "" && !isURL(in.Image) {
		errs.add("image", "image must be a valid URL")
	}

	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) == "" {
		errs.add("parent_id", "parent_id must not be empty")
	}

	return errs.err()
}

// 商品入力を検証
func (v *catalogValidator) ValidateProduct(in usecase.ProductInput) error {
	var errs fieldErrors

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	checkSlug(&errs, in.Slug)

	//価格は正、小数2桁まで
	if !in.Price.IsPositive() {
		errs.add("price", "price must be greater than 0")
	} else if in.Price.Exponent() < -2 && !in.Price.Equal(in.Price.Round(2)) {
		errs.add("price", "price must have at most 2 decimal places")
	}

	if in.Image != "" && !isURL(in.Image) {
		errs.add("image", "image must be a valid URL")
	}
	for _, img := range in.Images {
		if !isURL(img) {
			errs.add("images", "images must contain valid URLs")
			break
		}
	}

	if strings.TrimSpace(in.CategoryID) == "" {
		errs.add("category_id", "category_id is required")
	}

	return errs.err()
}

func checkSlug(errs *fieldErrors, slug string) {
	if slug == "" {
		errs.add("slug", "slug is required")
		return
	}
	if !slugPattern.MatchString(slug) {
		errs.add("slug", "slug may contain only lowercase latin letters, digits and hyphens")
	}
}

// http(s)の絶対URLか
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
