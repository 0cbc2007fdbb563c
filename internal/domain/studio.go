package domain

// Studio is a physical shop that artists are attached to via Artist.StudioID.
type Studio struct {
	Record
	Name     string   `json:"name" validate:"required"`
	Location Location `json:"location"`
	Website  string   `json:"website,omitempty" validate:"omitempty,url"`
	Phone    string   `json:"phone,omitempty"`
}
