package authors

type ListAuthorsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateAuthorPayload struct {
	FirstName   string `json:"first_name" form:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string `json:"last_name" form:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth,omitempty" form:"date_of_birth" validate:"date"`
	DateOfDeath string `json:"date_of_death,omitempty" form:"date_of_death" validate:"date"`
}

// UpdateAuthorPayload only changes the fields that are present. An empty
// date clears it.
type UpdateAuthorPayload struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death,omitempty" validate:"omitempty,date"`
}
