package database

import (
	"fmt"
	"log"

	"github.com/mrlokans/librarian/internal/entities"
)

var sampleBooks = []entities.Book{
	{ISBN: "9780544003415", Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", PublicationYear: 1954, Kind: entities.ItemKindBook},
	{ISBN: "9780747532699", Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", PublicationYear: 1997, Kind: entities.ItemKindBook},
	{ISBN: "9782253096337", Title: "Les Misérables", Author: "Victor Hugo", PublicationYear: 1862, Kind: entities.ItemKindBook},
}

// SeedSampleBooks inserts a few sample books when the catalog is empty and
// returns the number of books present afterwards.
func (d *Database) SeedSampleBooks() (int64, error) {
	var count int64
	if err := d.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	if count > 0 {
		return count, nil
	}

	for _, sample := range sampleBooks {
		book := sample
		book.Available = true
		if err := d.DB.Create(&book).Error; err != nil {
			return 0, fmt.Errorf("failed to create sample book %s: %w", book.ISBN, err)
		}
		log.Printf("Created sample book: %s", book.Title)
	}

	return int64(len(sampleBooks)), nil
}
