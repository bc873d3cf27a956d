package bookinstances

type ListInstancesQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	BookID *int    `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,status"`
}

type CreateInstancePayload struct {
	BookID  int    `json:"book_id" validate:"required,min=1"`
	Imprint string `json:"imprint" mod:"trim" validate:"required,max=200"`
	Status  string `json:"status,omitempty" default:"m" validate:"status"`
}

type UpdateInstancePayload struct {
	Imprint *string `json:"imprint,omitempty" validate:"omitempty,max=200"`
	Status  *string `json:"status,omitempty" validate:"omitempty,status"`
}

type RenewInstancePayload struct {
	DueBack string `json:"due_back" form:"due_back" validate:"required"`
}

// CheckoutInstancePayload lends a copy. DueBack defaults to three weeks out.
type CheckoutInstancePayload struct {
	BorrowerID int    `json:"borrower_id" form:"borrower_id" validate:"required,min=1"`
	DueBack    string `json:"due_back,omitempty" form:"due_back"`
}
