package tag

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/validate"
)

type CreateTagDTO struct {
	Slug   string `json:"slug"   validate:"required,slug,max=120"`
	NameES string `json:"nameEs" validate:"required,max=120"`
	NameEN string `json:"nameEn" validate:"required,max=120"`
}

type UpdateTagDTO struct {
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

func (s *Service) List(ctx context.Context) ([]models.TagModel, error) {
	var tags []models.TagModel
	if err := s.db.WithContext(ctx).Order("slug ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Persistence("list tags", err)
	}
	return tags, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.TagModel, error) {
	var tag models.TagModel
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence("get tag", err)
	}
	return &tag, nil
}

func (s *Service) slugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.TagModel{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperr.Persistence("check tag slug", err)
	}
	return count > 0, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateTagDTO) (*models.TagModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	taken, err := s.slugTaken(ctx, dto.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("tag slug already exists")
	}

	tag := models.TagModel{Slug: dto.Slug, NameES: dto.NameES, NameEN: dto.NameEN}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("tag slug already exists")
		}
		return nil, apperr.Persistence("create tag", err)
	}
	return &tag, nil
}

// Update patches a tag. It returns (nil, nil) when id is unknown.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateTagDTO) (*models.TagModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	tag, err := s.GetByID(ctx, id)
	if err != nil || tag == nil {
		return tag, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != tag.Slug {
		taken, err := s.slugTaken(ctx, *dto.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("tag slug already exists")
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
		return tag, nil
	}
	if err := s.db.WithContext(ctx).Model(tag).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence("update tag", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the tag from every post, then the tag itself.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TagModel{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.Persistence("delete tag", err)
	}
	return nil
}
