package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soldertec/site/internal/database"
	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
	"github.com/soldertec/site/internal/pkg/validate"
)

const publicClause = "status = ? AND published_at IS NOT NULL AND published_at <= ?"

// Service handles post business logic.
type Service struct {
	db        *gorm.DB
	validator *validate.Validator
	now       func() time.Time
}

func NewService(db *gorm.DB, v *validate.Validator) *Service {
	return &Service{db: db, validator: v, now: func() time.Time { return time.Now().UTC() }}
}

func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Contents").Preload("Category").Preload("Tags")
}

// List returns published posts, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where(publicClause, models.PostPublished, s.now())
	if lq.Category != "" {
		tx = tx.Where("category_id IN (?)",
			s.db.Model(&models.CategoryModel{}).Select("id").Where("slug = ?", lq.Category))
	}
	if lq.Tag != "" {
		tx = tx.Where("id IN (?)",
			s.db.Table("post_tags").Select("post_id").Where("tag_id IN (?)",
				s.db.Model(&models.TagModel{}).Select("id").Where("slug = ?", lq.Tag)))
	}
	if lq.Featured != nil {
		tx = tx.Where("featured = ?", *lq.Featured)
	}
	return s.page(tx, q, "published_at DESC, created_at DESC")
}

// ListAdmin returns posts of every status, most recently edited first.
func (s *Service) ListAdmin(ctx context.Context, q pagination.Query, aq AdminListQuery) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PostModel{})
	if aq.Status != "" {
		if !models.PostStatus(aq.Status).Valid() {
			return nil, response.Pagination{}, apperr.Validation("unknown status", "status")
		}
		tx = tx.Where("status = ?", aq.Status)
	}
	if v := strings.TrimSpace(aq.Search); v != "" {
		pattern := database.Contains(strings.ToLower(v))
		tx = tx.Where("(LOWER(slug) LIKE ? ESCAPE '!' OR id IN (?))", pattern,
			s.db.Model(&models.PostContentModel{}).Select("post_id").Where("LOWER(title) LIKE ? ESCAPE '!'", pattern))
	}
	return s.page(tx, q, "updated_at DESC")
}

func (s *Service) page(tx *gorm.DB, q pagination.Query, order string) ([]models.PostModel, response.Pagination, error) {
	q = pagination.Normalize(q)
	base := tx.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, response.Pagination{}, apperr.Persistence("count posts", err)
	}
	posts := []models.PostModel{}
	if err := withRelations(base).Order(order).Offset(q.Offset()).Limit(q.Size).Find(&posts).Error; err != nil {
		return nil, response.Pagination{}, apperr.Persistence("list posts", err)
	}
	return posts, pagination.Meta(total, q), nil
}

// GetBySlug returns a publicly visible post, or (nil, nil).
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.PostModel, error) {
	return s.first(withRelations(s.db.WithContext(ctx)).
		Where("slug = ?", slug).
		Where(publicClause, models.PostPublished, s.now()))
}

// GetByID returns a post in any status, or (nil, nil).
func (s *Service) GetByID(ctx context.Context, id string) (*models.PostModel, error) {
	return s.first(withRelations(s.db.WithContext(ctx)).Where("id = ?", id))
}

func (s *Service) first(tx *gorm.DB) (*models.PostModel, error) {
	var post models.PostModel
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence("get post", err)
	}
	return &post, nil
}

// Create inserts a post with its translations and tags.
func (s *Service) Create(ctx context.Context, dto *CreatePostDTO) (*models.PostModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	if err := checkLanguages(dto.Contents); err != nil {
		return nil, err
	}
	status := models.PostStatus(dto.Status)
	if status == "" {
		status = models.PostDraft
	}
	publishedAt, err := s.resolvePublishedAt(status, dto.PublishedAt, nil)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, dto.Slug, ""); err != nil {
		return nil, err
	}
	categoryID := emptyToNil(dto.CategoryID)
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	tagIDs := dedupe(dto.TagIDs)
	if err := s.checkTags(ctx, tagIDs); err != nil {
		return nil, err
	}

	post := models.PostModel{
		Slug:        dto.Slug,
		Status:      status,
		CategoryID:  categoryID,
		CoverImage:  dto.CoverImage,
		Author:      dto.Author,
		Featured:    dto.Featured,
		PublishedAt: publishedAt,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
			return err
		}
		if err := replaceContents(tx, post.ID, dto.Contents); err != nil {
			return err
		}
		return replaceTags(tx, post.ID, tagIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("post slug already exists")
		}
		return nil, apperr.Persistence("create post", err)
	}
	return s.GetByID(ctx, post.ID)
}

// Update patches a post. It returns (nil, nil) when id is unknown.
func (s *Service) Update(ctx context.Context, id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	if dto.Contents != nil {
		if err := checkLanguages(*dto.Contents); err != nil {
			return nil, err
		}
	}
	post, err := s.GetByID(ctx, id)
	if err != nil || post == nil {
		return post, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		if err := s.checkSlug(ctx, *dto.Slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = *dto.Slug
	}
	if dto.CategoryID != nil {
		categoryID := emptyToNil(dto.CategoryID)
		if err := s.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if dto.Author != nil {
		updates["author"] = *dto.Author
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}
	if dto.Status != nil || dto.PublishedAt != nil {
		status := post.Status
		if dto.Status != nil {
			status = models.PostStatus(*dto.Status)
		}
		publishedAt, err := s.resolvePublishedAt(status, dto.PublishedAt, post.PublishedAt)
		if err != nil {
			return nil, err
		}
		updates["status"] = status
		updates["published_at"] = publishedAt
	}
	var tagIDs []string
	if dto.TagIDs != nil {
		tagIDs = dedupe(*dto.TagIDs)
		if err := s.checkTags(ctx, tagIDs); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.PostModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if dto.Contents != nil {
			if err := replaceContents(tx, id, *dto.Contents); err != nil {
				return err
			}
		}
		if dto.TagIDs != nil {
			return replaceTags(tx, id, tagIDs)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("post slug already exists")
		}
		return nil, apperr.Persistence("update post", err)
	}
	return s.GetByID(ctx, id)
}

// Publish switches a post between draft and published. Publishing without a
// date publishes now; a future date schedules the post. It returns (nil, nil)
// when id is unknown.
func (s *Service) Publish(ctx context.Context, id string, dto *PublishDTO) (*models.PostModel, error) {
	status := models.PostDraft
	at := dto.PublishedAt
	if dto.Published {
		status = models.PostPublished
		if at == nil {
			now := s.now()
			at = &now
		} else if at.After(s.now()) {
			status = models.PostScheduled
		}
	}
	statusStr := string(status)
	return s.Update(ctx, id, &UpdatePostDTO{Status: &statusStr, PublishedAt: at})
}

// Delete removes a post with its translations and tag links.
func (s *Service) Delete(ctx context.Context, id string) error {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostContentModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PostModel{}, "id = ?", id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return apperr.Persistence("delete post", err)
	}
	if affected == 0 {
		return apperr.NotFound("post")
	}
	return nil
}

// PublishDue publishes scheduled posts whose time has come.
func (s *Service) PublishDue(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("status = ? AND published_at IS NOT NULL AND published_at <= ?", models.PostScheduled, s.now()).
		Update("status", models.PostPublished)
	if res.Error != nil {
		return 0, apperr.Persistence("publish scheduled posts", res.Error)
	}
	return res.RowsAffected, nil
}

// PublishedPost returns the post with its translations, or (nil, nil).
func (s *Service) PublishedPost(ctx context.Context, id string) (*models.PostModel, error) {
	return s.first(s.db.WithContext(ctx).Preload("Contents").
		Where("id = ? AND status = ?", id, models.PostPublished))
}

// MarkNotified records when subscribers were emailed about the post.
func (s *Service) MarkNotified(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", id).
		Update("notified_at", at).Error
}

// resolvePublishedAt applies the status rules: published defaults to now,
// scheduled needs a date, drafts keep whatever they had.
func (s *Service) resolvePublishedAt(status models.PostStatus, requested, current *time.Time) (*time.Time, error) {
	at := current
	if requested != nil {
		t := requested.UTC()
		at = &t
	}
	switch status {
	case models.PostPublished:
		if at == nil {
			now := s.now()
			at = &now
		}
	case models.PostScheduled:
		if at == nil {
			return nil, apperr.Validation("publishedAt is required for scheduled posts", "publishedAt")
		}
	}
	return at, nil
}

func (s *Service) checkSlug(ctx context.Context, slug, exceptID string) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.PostModel{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperr.Persistence("check post slug", err)
	}
	if count > 0 {
		return apperr.Conflict("post slug already exists")
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return apperr.Persistence("check category", err)
	}
	if count == 0 {
		return apperr.Validation("unknown category", "categoryId")
	}
	return nil
}

func (s *Service) checkTags(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.TagModel{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperr.Persistence("check tags", err)
	}
	if count != int64(len(ids)) {
		return apperr.Validation("unknown tags", "tagIds")
	}
	return nil
}

func checkLanguages(contents []ContentDTO) error {
	seen := make(map[string]bool, len(contents))
	for _, c := range contents {
		lang := strings.ToLower(strings.TrimSpace(c.Language))
		if seen[lang] {
			return apperr.Validation("duplicate content language "+lang, "contents")
		}
		seen[lang] = true
	}
	return nil
}

func replaceContents(tx *gorm.DB, postID string, contents []ContentDTO) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostContentModel{}).Error; err != nil {
		return err
	}
	rows := make([]models.PostContentModel, 0, len(contents))
	for _, c := range contents {
		rows = append(rows, models.PostContentModel{
			PostID:          postID,
			Language:        strings.ToLower(strings.TrimSpace(c.Language)),
			Title:           strings.TrimSpace(c.Title),
			Excerpt:         strings.TrimSpace(c.Excerpt),
			Content:         c.Content,
			MetaTitle:       strings.TrimSpace(c.MetaTitle),
			MetaDescription: strings.TrimSpace(c.MetaDescription),
		})
	}
	return tx.Create(&rows).Error
}

func replaceTags(tx *gorm.DB, postID string, tagIDs []string) error {
	if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", postID).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]interface{}{"post_id": postID, "tag_id": id})
	}
	return tx.Table("post_tags").Create(&rows).Error
}

func emptyToNil(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
