package languages

type ListLanguagesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateLanguagePayload struct {
	Name string `json:"name" form:"name" mod:"trim" validate:"required,max=50"`
}

type UpdateLanguagePayload struct {
	Name *string `json:"name,omitempty" form:"name" validate:"omitempty,max=50"`
}
