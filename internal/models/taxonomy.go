package models

// CategoryModel groups posts; a post has at most one.
type CategoryModel struct {
	Base
	Slug   string `json:"slug"    gorm:"size:120;uniqueIndex;not null"`
	NameES string `json:"name_es" gorm:"column:name_es;not null"`
	NameEN string `json:"name_en" gorm:"column:name_en;not null"`
}

func (CategoryModel) TableName() string { return "categories" }

func (c CategoryModel) Name(lang string) string {
	return localizedName(lang, c.NameES, c.NameEN)
}

// TagModel labels posts through post_tags.
type TagModel struct {
	Base
	Slug   string `json:"slug"    gorm:"size:120;uniqueIndex;not null"`
	NameES string `json:"name_es" gorm:"column:name_es;not null"`
	NameEN string `json:"name_en" gorm:"column:name_en;not null"`
}

func (TagModel) TableName() string { return "tags" }

func (t TagModel) Name(lang string) string {
	return localizedName(lang, t.NameES, t.NameEN)
}

func localizedName(lang, es, en string) string {
	if lang == "en" && en != "" {
		return en
	}
	if es == "" {
		return en
	}
	return es
}
