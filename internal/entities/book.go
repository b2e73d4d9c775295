package entities

// BookStatus describes the lending state of a catalogued book.
// Nothing in the application transitions it yet; every book is
// created as "available".
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
)

// Categories offered by the catalogue forms. The empty string means
// "uncategorized" and is a valid stored value.
var Categories = []string{
	"",
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Technology",
}

// Book is the sole entity of the catalogue, stored in the "books" table.
// Title and author are required; everything else is optional.
// PublicationYear is a pointer so that an unset year is stored as NULL
// rather than 0.
type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null;size:512" json:"title"`
	Author          string     `gorm:"not null;size:256" json:"author"`
	ISBN            string     `gorm:"size:20" json:"isbn,omitempty"`
	Category        string     `gorm:"size:50" json:"category,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Status          BookStatus `gorm:"size:20;default:'available'" json:"status"`
}

func (Book) TableName() string {
	return "books"
}

// IsValidCategory reports whether name is one of the known category labels.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
