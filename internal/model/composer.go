package model

// Composer is the author of zero or more pieces.
type Composer struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	HomeCountry string `json:"home_country" db:"home_country"`

	// Pieces is loaded separately and always serialized as an array.
	Pieces []Piece `json:"pieces" db:"-"`
}

// Snapshot returns a value copy whose pieces no longer alias the original.
func (c Composer) Snapshot() Composer {
	pieces := make([]Piece, 0, len(c.Pieces))
	for _, p := range c.Pieces {
		pieces = append(pieces, p.Snapshot())
	}
	c.Pieces = pieces
	return c
}

// AttachPieces distributes pieces onto their composers. Composers without
// pieces get an empty, non-nil slice.
func AttachPieces(composers []Composer, pieces []Piece) {
	byComposer := make(map[int][]Piece, len(composers))
	for _, p := range pieces {
		byComposer[p.ComposerID] = append(byComposer[p.ComposerID], p)
	}
	for i := range composers {
		composers[i].Pieces = append([]Piece{}, byComposer[composers[i].ID]...)
	}
}

// ----------------------------------------------------------------------------

type ListComposersRequest struct{}

func (r *ListComposersRequest) Validate() error {
	return nil
}

// ----------------------------------------------------------------------------

type CreateComposerRequest struct {
	Name        string `json:"name" validate:"required"`
	HomeCountry string `json:"home_country" validate:"required"`
}

func (r *CreateComposerRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateComposerRequest) Composer() Composer {
	return Composer{
		Name:        r.Name,
		HomeCountry: r.HomeCountry,
		Pieces:      []Piece{},
	}
}

// ----------------------------------------------------------------------------

// UpdateComposerRequest is a partial update: nil fields keep their stored value.
type UpdateComposerRequest struct {
	ID          int     `param:"id" json:"-"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	HomeCountry *string `json:"home_country" validate:"omitempty,min=1"`
}

func (r *UpdateComposerRequest) Validate() error {
	return validate.Struct(r)
}

// Apply copies every supplied field onto c.
func (r *UpdateComposerRequest) Apply(c *Composer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.HomeCountry != nil {
		c.HomeCountry = *r.HomeCountry
	}
}

// ----------------------------------------------------------------------------

type DeleteComposerRequest struct {
	ID int `param:"id" json:"-"`
}

func (r *DeleteComposerRequest) Validate() error {
	return validate.Struct(r)
}
