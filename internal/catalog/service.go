package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/internal/cart"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

// Index is the in-memory catalog handed to the POS screen: category to
// service to package, with prices and minimum-order constraints.
type Index struct {
	Categories []CategoryView `json:"categories"`

	packagesByID map[uuid.UUID]cart.Package
}

type CategoryView struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Services []ServiceView `json:"services"`
}

type ServiceView struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Packages []PackageView `json:"packages"`
}

type PackageView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	UnitPriceRupiah  int       `json:"unit_price_rupiah"`
	Unit             string    `json:"unit"`
	MinOrderQuantity int       `json:"min_order_quantity"`
}

// Package resolves a package by ID from the index.
func (i *Index) Package(id uuid.UUID) (cart.Package, bool) {
	pkg, ok := i.packagesByID[id]
	return pkg, ok
}

// Service exposes catalog reads for the POS flow and catalog maintenance
// for owners.
type Service interface {
	BuildIndex(ctx context.Context) (*Index, error)
	ResolvePackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]cart.Package, error)
	CreateCategory(ctx context.Context, name string, sortOrder int) (*models.ServiceCategory, error)
	CreateService(ctx context.Context, categoryID uuid.UUID, name string) (*models.LaundryService, error)
	CreatePackage(ctx context.Context, input PackageInput) (*models.ServicePackage, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, input PackageInput) (*models.ServicePackage, error)
	DeactivatePackage(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// BuildIndex loads the active catalog into the lookup structure used by the
// POS quote flow.
func (s *service) BuildIndex(ctx context.Context) (*Index, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog")
	}

	index := &Index{packagesByID: make(map[uuid.UUID]cart.Package)}
	for _, category := range categories {
		catView := CategoryView{ID: category.ID, Name: category.Name}
		for _, svc := range category.Services {
			svcView := ServiceView{ID: svc.ID, Name: svc.Name}
			for _, pkg := range svc.Packages {
				svcView.Packages = append(svcView.Packages, PackageView{
					ID:               pkg.ID,
					Name:             pkg.Name,
					UnitPriceRupiah:  pkg.UnitPriceRupiah,
					Unit:             pkg.Unit,
					MinOrderQuantity: pkg.MinOrderQuantity,
				})
				index.packagesByID[pkg.ID] = cartPackage(pkg)
			}
			catView.Services = append(catView.Services, svcView)
		}
		index.Categories = append(index.Categories, catView)
	}
	return index, nil
}

// ResolvePackages loads the requested packages fresh from the store. The
// checkout path uses this instead of a cached index so commits never price
// against stale data.
func (s *service) ResolvePackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]cart.Package, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no packages requested")
	}
	rows, err := s.repo.GetPackages(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading packages")
	}

	found := make(map[uuid.UUID]cart.Package, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "package is no longer available").
				WithDetails(map[string]any{"package_id": row.ID.String()})
		}
		found[row.ID] = cartPackage(row)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found").
				WithDetails(map[string]any{"package_id": id.String()})
		}
	}
	return found, nil
}

// PackageInput is the owner-facing payload for creating or editing a package.
type PackageInput struct {
	ServiceID        uuid.UUID
	Name             string
	UnitPriceRupiah  int
	Unit             string
	MinOrderQuantity int
}

func (s *service) CreateCategory(ctx context.Context, name string, sortOrder int) (*models.ServiceCategory, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	row := &models.ServiceCategory{ID: uuid.New(), Name: name, SortOrder: sortOrder, IsActive: true}
	if err := s.repo.CreateCategory(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating category")
	}
	return row, nil
}

func (s *service) CreateService(ctx context.Context, categoryID uuid.UUID, name string) (*models.LaundryService, error) {
	if categoryID == uuid.Nil || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id and name are required")
	}
	row := &models.LaundryService{ID: uuid.New(), CategoryID: categoryID, Name: name, IsActive: true}
	if err := s.repo.CreateService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating service")
	}
	return row, nil
}

func (s *service) CreatePackage(ctx context.Context, input PackageInput) (*models.ServicePackage, error) {
	if err := validatePackageInput(input); err != nil {
		return nil, err
	}
	row := &models.ServicePackage{
		ID:               uuid.New(),
		ServiceID:        input.ServiceID,
		Name:             input.Name,
		UnitPriceRupiah:  input.UnitPriceRupiah,
		Unit:             input.Unit,
		MinOrderQuantity: input.MinOrderQuantity,
		IsActive:         true,
	}
	if err := s.repo.CreatePackage(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating package")
	}
	return row, nil
}

func (s *service) UpdatePackage(ctx context.Context, id uuid.UUID, input PackageInput) (*models.ServicePackage, error) {
	if err := validatePackageInput(input); err != nil {
		return nil, err
	}
	row, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading package")
	}

	row.Name = input.Name
	row.UnitPriceRupiah = input.UnitPriceRupiah
	row.Unit = input.Unit
	row.MinOrderQuantity = input.MinOrderQuantity
	if err := s.repo.UpdatePackage(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating package")
	}
	return row, nil
}

func (s *service) DeactivatePackage(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "package id is required")
	}
	if err := s.repo.DeactivatePackage(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating package")
	}
	return nil
}

func validatePackageInput(input PackageInput) error {
	if input.ServiceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	if input.Name == "" || input.Unit == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "package name and unit are required")
	}
	if input.UnitPriceRupiah < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be non-negative")
	}
	if input.MinOrderQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order quantity must be non-negative")
	}
	return nil
}

func cartPackage(row models.ServicePackage) cart.Package {
	return cart.Package{
		ID:               row.ID,
		Name:             row.Name,
		UnitPriceRupiah:  row.UnitPriceRupiah,
		Unit:             row.Unit,
		MinOrderQuantity: row.MinOrderQuantity,
	}
}
