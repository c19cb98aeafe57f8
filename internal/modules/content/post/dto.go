package post

import (
	"time"

	"github.com/soldertec/site/internal/models"
)

// ContentDTO is one language version of a post.
type ContentDTO struct {
	Language        string `json:"language"        validate:"required,lang"`
	Title           string `json:"title"           validate:"required,max=200"`
	Excerpt         string `json:"excerpt"         validate:"max=500"`
	Content         string `json:"content"`
	MetaTitle       string `json:"metaTitle"       validate:"max=200"`
	MetaDescription string `json:"metaDescription" validate:"max=320"`
}

// CreatePostDTO is the request body for creating a post.
type CreatePostDTO struct {
	Slug        string       `json:"slug"        validate:"required,slug,max=160"`
	Status      string       `json:"status"      validate:"omitempty,oneof=draft published scheduled"`
	CategoryID  *string      `json:"categoryId"`
	CoverImage  string       `json:"coverImage"  validate:"omitempty,url"`
	Author      string       `json:"author"      validate:"max=120"`
	Featured    bool         `json:"featured"`
	PublishedAt *time.Time   `json:"publishedAt"`
	TagIDs      []string     `json:"tagIds"`
	Contents    []ContentDTO `json:"contents"    validate:"required,min=1,max=2,dive"`
}

// UpdatePostDTO patches a post; nil fields are left unchanged. Contents and
// TagIDs replace the whole set when present.
type UpdatePostDTO struct {
	Slug        *string       `json:"slug"        validate:"omitempty,slug,max=160"`
	Status      *string       `json:"status"      validate:"omitempty,oneof=draft published scheduled"`
	CategoryID  *string       `json:"categoryId"`
	CoverImage  *string       `json:"coverImage"  validate:"omitempty,url"`
	Author      *string       `json:"author"      validate:"omitempty,max=120"`
	Featured    *bool         `json:"featured"`
	PublishedAt *time.Time    `json:"publishedAt"`
	TagIDs      *[]string     `json:"tagIds"`
	Contents    *[]ContentDTO `json:"contents"    validate:"omitempty,min=1,max=2,dive"`
}

// PublishDTO toggles visibility. A future PublishedAt schedules the post.
type PublishDTO struct {
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ListQuery filters the public list.
type ListQuery struct {
	Lang     string `form:"lang"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Featured *bool  `form:"featured"`
}

// AdminListQuery filters the admin list.
type AdminListQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

type taxonomyRef struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// summaryResponse is a post rendered in one language for listings.
type summaryResponse struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Language    string        `json:"language"`
	Languages   []string      `json:"languages"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	CoverImage  string        `json:"coverImage"`
	Author      string        `json:"author"`
	Featured    bool          `json:"featured"`
	PublishedAt *time.Time    `json:"publishedAt"`
	Category    *taxonomyRef  `json:"category"`
	Tags        []taxonomyRef `json:"tags"`
}

type detailResponse struct {
	summaryResponse
	Content         string `json:"content"`
	ContentHTML     string `json:"contentHtml"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

func toSummary(p *models.PostModel, lang string) summaryResponse {
	c, _ := p.Content(lang)
	out := summaryResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Language:    c.Language,
		Title:       c.Title,
		Excerpt:     c.Excerpt,
		CoverImage:  p.CoverImage,
		Author:      p.Author,
		Featured:    p.Featured,
		PublishedAt: p.PublishedAt,
		Languages:   make([]string, 0, len(p.Contents)),
		Tags:        make([]taxonomyRef, 0, len(p.Tags)),
	}
	for _, pc := range p.Contents {
		out.Languages = append(out.Languages, pc.Language)
	}
	if p.Category != nil {
		out.Category = &taxonomyRef{ID: p.Category.ID, Slug: p.Category.Slug, Name: p.Category.Name(lang)}
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, taxonomyRef{ID: t.ID, Slug: t.Slug, Name: t.Name(lang)})
	}
	return out
}

// adminResponse carries every translation for the editor.
type adminResponse struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug"`
	Status      string       `json:"status"`
	CategoryID  *string      `json:"categoryId"`
	CoverImage  string       `json:"coverImage"`
	Author      string       `json:"author"`
	Featured    bool         `json:"featured"`
	PublishedAt *time.Time   `json:"publishedAt"`
	NotifiedAt  *time.Time   `json:"notifiedAt"`
	TagIDs      []string     `json:"tagIds"`
	Contents    []ContentDTO `json:"contents"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func toAdmin(p *models.PostModel) adminResponse {
	out := adminResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Status:      string(p.Status),
		CategoryID:  p.CategoryID,
		CoverImage:  p.CoverImage,
		Author:      p.Author,
		Featured:    p.Featured,
		PublishedAt: p.PublishedAt,
		NotifiedAt:  p.NotifiedAt,
		TagIDs:      make([]string, 0, len(p.Tags)),
		Contents:    make([]ContentDTO, 0, len(p.Contents)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, t := range p.Tags {
		out.TagIDs = append(out.TagIDs, t.ID)
	}
	for _, c := range p.Contents {
		out.Contents = append(out.Contents, ContentDTO{
			Language:        c.Language,
			Title:           c.Title,
			Excerpt:         c.Excerpt,
			Content:         c.Content,
			MetaTitle:       c.MetaTitle,
			MetaDescription: c.MetaDescription,
		})
	}
	return out
}
