package models

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostScheduled PostStatus = "scheduled"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostScheduled:
		return true
	}
	return false
}

// PostModel is a blog post; its translatable fields live in Contents.
type PostModel struct {
	Base
	Slug        string         `json:"slug"         gorm:"size:160;uniqueIndex;not null"`
	Status      PostStatus     `json:"status"       gorm:"size:16;not null;index"`
	CategoryID  *string        `json:"category_id"  gorm:"size:36;index"`
	Category    *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CoverImage  string         `json:"cover_image"`
	Author      string         `json:"author"`
	Featured    bool           `json:"featured"     gorm:"not null"`
	PublishedAt *time.Time     `json:"published_at" gorm:"index"`
	// NotifiedAt is set once subscribers were emailed about the post.
	NotifiedAt *time.Time `json:"notified_at"`

	Contents []PostContentModel `json:"contents,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Tags     []TagModel         `json:"tags,omitempty"     gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
}

func (PostModel) TableName() string { return "posts" }

// IsPublic reports whether the post is visible on the site at now.
func (p *PostModel) IsPublic(now time.Time) bool {
	return p.Status == PostPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// Content returns the translation for lang, falling back to the first one.
func (p *PostModel) Content(lang string) (PostContentModel, bool) {
	for _, c := range p.Contents {
		if c.Language == lang {
			return c, true
		}
	}
	if len(p.Contents) > 0 {
		return p.Contents[0], true
	}
	return PostContentModel{}, false
}

// PostContentModel is one language version of a post.
type PostContentModel struct {
	Base
	PostID          string `json:"post_id"          gorm:"size:36;not null;uniqueIndex:idx_post_contents_post_lang"`
	Language        string `json:"language"         gorm:"size:2;not null;uniqueIndex:idx_post_contents_post_lang"`
	Title           string `json:"title"            gorm:"not null"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"          gorm:"type:text"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

func (PostContentModel) TableName() string { return "post_contents" }
