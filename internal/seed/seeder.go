package seed

import (
	"context"
	"errors"

	"treeshop/internal/domain/model"
	repo "treeshop/internal/repository"
	"treeshop/internal/usecase/auth"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// デモ用のカタログと管理者を入れる。何度実行しても既存のslugは触らない。
type Seeder struct {
	categories  repo.CategoryRepository
	products    repo.ProductRepository
	ensureAdmin *auth.EnsureAdminUsecase
	log         log.FieldLogger
}

// DI
func New(categories repo.CategoryRepository, products repo.ProductRepository, ensureAdmin *auth.EnsureAdminUsecase, logger log.FieldLogger) *Seeder {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Seeder{
		categories:  categories,
		products:    products,
		ensureAdmin: ensureAdmin,
		log:         logger,
	}
}

type Result struct {
	AdminCreated      bool
	CategoriesCreated int
	ProductsCreated   int
}

// パスワードが空なら管理者は作らない
func (s *Seeder) Run(ctx context.Context, admin auth.EnsureAdminInput) (Result, error) {
	var res Result

	if admin.Password == "" {
		s.log.Warn("ADMIN_PASSWORD is empty, admin user not seeded")
	} else {
		u, created, err := s.ensureAdmin.Execute(ctx, admin)
		if err != nil {
			return res, pkgerrors.Wrap(err, "seed admin")
		}
		res.AdminCreated = created
		s.log.WithFields(log.Fields{"email": u.Email, "created": created}).Info("admin ready")
	}

	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		id, created, err := s.upsertCategory(ctx, c, ids)
		if err != nil {
			return res, err
		}
		ids[c.Slug] = id
		if created {
			res.CategoriesCreated++
		}
	}

	for _, p := range products {
		created, err := s.upsertProduct(ctx, p, ids)
		if err != nil {
			return res, err
		}
		if created {
			res.ProductsCreated++
		}
	}

	s.log.WithFields(log.Fields{
		"categories_created": res.CategoriesCreated,
		"products_created":   res.ProductsCreated,
	}).Info("catalog seeded")
	return res, nil
}

func (s *Seeder) upsertCategory(ctx context.Context, c categorySeed, ids map[string]string) (string, bool, error) {
	existing, err := s.categories.FindBySlug(ctx, c.Slug)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return "", false, pkgerrors.Wrapf(err, "find category %s", c.Slug)
	}

	m := model.Category{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
	if c.Image != "" {
		img := c.Image
		m.Image = &img
	}
	if c.ParentSlug != "" {
		parentID, ok := ids[c.ParentSlug]
		if !ok {
			return "", false, pkgerrors.Errorf("parent %s of %s is not seeded", c.ParentSlug, c.Slug)
		}
		m.ParentID = &parentID
	}

	created, err := s.categories.Create(ctx, m)
	if err != nil {
		return "", false, pkgerrors.Wrapf(err, "create category %s", c.Slug)
	}
	return created.ID, true, nil
}

func (s *Seeder) upsertProduct(ctx context.Context, p productSeed, ids map[string]string) (bool, error) {
	_, err := s.products.FindBySlug(ctx, p.Slug)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return false, pkgerrors.Wrapf(err, "find product %s", p.Slug)
	}

	categoryID, ok := ids[p.CategorySlug]
	if !ok {
		return false, pkgerrors.Errorf("category %s of %s is not seeded", p.CategorySlug, p.Slug)
	}

	img := p.Image
	if _, err := s.products.Create(ctx, model.Product{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       &img,
		Images:      model.ImageList{},
		InStock:     true,
		CategoryID:  categoryID,
	}); err != nil {
		return false, pkgerrors.Wrapf(err, "create product %s", p.Slug)
	}
	return true, nil
}
