package category

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/validate"
)

type CreateCategoryDTO struct {
	Slug   string `json:"slug"   validate:"required,slug,max=120"`
	NameES string `json:"nameEs" validate:"required,max=120"`
	NameEN string `json:"nameEn" validate:"required,max=120"`
}

type UpdateCategoryDTO struct {
	Slug   *string `json:"slug"   validate:"omitempty,slug,max=120"`
	NameES *string `json:"nameEs" validate:"omitempty,min=1,max=120"`
	NameEN *string `json:"nameEn" validate:"omitempty,min=1,max=120"`
}

type Service struct {
	db        *gorm.DB
	validator *validate.Validator
}

func NewService(db *gorm.DB, v *validate.Validator) *Service {
	return &Service{db: db, validator: v}
}

func (s *Service) List(ctx context.Context) ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	if err := s.db.WithContext(ctx).Order("slug ASC").Find(&cats).Error; err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	return cats, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence("get category", err)
	}
	return &cat, nil
}

func (s *Service) slugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperr.Persistence("check category slug", err)
	}
	return count > 0, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	taken, err := s.slugTaken(ctx, dto.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("category slug already exists")
	}

	cat := models.CategoryModel{Slug: dto.Slug, NameES: dto.NameES, NameEN: dto.NameEN}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("category slug already exists")
		}
		return nil, apperr.Persistence("create category", err)
	}
	return &cat, nil
}

// Update patches a category. It returns (nil, nil) when id is unknown.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	cat, err := s.GetByID(ctx, id)
	if err != nil || cat == nil {
		return cat, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != cat.Slug {
		taken, err := s.slugTaken(ctx, *dto.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("category slug already exists")
		}
		updates["slug"] = *dto.Slug
	}
	if dto.NameES != nil {
		updates["name_es"] = *dto.NameES
	}
	if dto.NameEN != nil {
		updates["name_en"] = *dto.NameEN
	}
	if len(updates) == 0 {
		return cat, nil
	}
	if err := s.db.WithContext(ctx).Model(cat).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence("update category", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the category and detaches its posts.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.Persistence("delete category", err)
	}
	return nil
}
