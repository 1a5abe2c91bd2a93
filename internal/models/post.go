package models

import "time"

// Post represents a blog entry. Listings order posts by CreatedAt descending.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	Group     *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image     string    `json:"image,omitempty" gorm:"size:255"` // media store key, empty when the post has no image
}

const postPreviewLength = 15

// String returns the first characters of the text, the way posts are
// labelled in listings and logs.
func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLength {
		r = r[:postPreviewLength]
	}
	return string(r)
}

// PostForm defines the form body for creating or editing a post.
// Group holds the raw group id; the image travels as a multipart file.
type PostForm struct {
	Text       string `form:"text" validate:"required"`
	Group      string `form:"group" validate:"omitempty,numeric"`
	ImageClear string `form:"image-clear"`
}
