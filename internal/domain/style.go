package domain

// Style is a tattoo style referenced by artists via Artist.Styles slugs.
type Style struct {
	Record
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required,handle"`
	Description string `json:"description,omitempty"`
}

// StyleSlugs is the canonical set of style slugs in the source dataset.
var StyleSlugs = []string{
	"old_school", "traditional", "new_school", "neo_traditional", "tribal",
	"blackwork", "dotwork", "geometric", "japanese", "lettering",
	"biomechanical", "watercolour", "floral", "fineline", "realism",
	"minimalist", "surrealism", "portrait", "sketch", "illustrative",
	"ornamental", "trash_polka",
}
