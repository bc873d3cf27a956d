package reports

type ListLoansQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// HomeResponse is HomeStats plus how many times this session has loaded the
// home page before.
type HomeResponse struct {
	*HomeStats
	NumVisits int `json:"num_visits"`
}
