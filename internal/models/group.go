package models

// Group is a topical community posts can be published into.
// The slug is the stable identifier used in URLs.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" yaml:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Slug        string `json:"slug" yaml:"slug" gorm:"size:100;uniqueIndex;not null" validate:"required,max=100,slug"`
	Description string `json:"description" yaml:"description" gorm:"type:text"`
}

func (g Group) String() string {
	return g.Title
}
