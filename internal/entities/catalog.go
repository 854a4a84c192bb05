package entities

// Book is a catalog entry. Reviews reference it by BookID.
type Book struct {
	ID              uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string   `gorm:"index" json:"title"`
	Author          string   `gorm:"index" json:"author"`
	PublicationYear int      `json:"publication_year"`
	Reviews         []Review `gorm:"foreignKey:BookID" json:"-"`
}

// Review is reader feedback on a single book. BookID is set once at creation
// and is left untouched when the book is deleted.
type Review struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID uint   `gorm:"index;not null" json:"book_id"`
	Text   string `gorm:"type:text" json:"text"`
	Rating int    `json:"rating"`
}

// BookFilter narrows a book listing. Nil fields are not applied.
type BookFilter struct {
	Author          *string
	PublicationYear *int
}

// BookPatch carries the fields of a partial book update.
// Only non-nil fields are written.
type BookPatch struct {
	Title           *string
	Author          *string
	PublicationYear *int
}

// Columns returns the column assignments for the fields present in the patch.
func (p BookPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Author != nil {
		cols["author"] = *p.Author
	}
	if p.PublicationYear != nil {
		cols["publication_year"] = *p.PublicationYear
	}
	return cols
}

// ReviewPatch carries the fields of a partial review update.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

// Columns returns the column assignments for the fields present in the patch.
func (p ReviewPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.Text != nil {
		cols["text"] = *p.Text
	}
	if p.Rating != nil {
		cols["rating"] = *p.Rating
	}
	return cols
}
