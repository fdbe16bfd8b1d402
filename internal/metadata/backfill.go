package metadata

import (
	"context"
	"fmt"

	"github.com/shelfwise/bookshelf/internal/entities"
)

// BookSource is the catalogue surface the backfiller reads and writes.
type BookSource interface {
	Find(id uint) (*entities.Book, error)
	FindAll(limit, offset int) ([]entities.Book, error)
	Update(book *entities.Book) (int64, error)
}

// InfoFetcher retrieves book info by ISBN.
type InfoFetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (*BookInfo, error)
}

// Backfiller fills empty descriptive fields on catalogue books from the
// external source, keyed by ISBN. Fields the user already filled in are
// never overwritten.
type Backfiller struct {
	books   BookSource
	fetcher InfoFetcher
}

func NewBackfiller(books BookSource, fetcher InfoFetcher) *Backfiller {
	return &Backfiller{books: books, fetcher: fetcher}
}

// BackfillResult reports what a single-book backfill changed.
type BackfillResult struct {
	Book         *entities.Book
	FieldsFilled []string
}

// SweepResult summarizes a catalogue-wide backfill.
type SweepResult struct {
	Total   int
	Filled  int
	Skipped int
	Failed  int
}

// BackfillBook fetches metadata for one book and fills its empty fields.
func (b *Backfiller) BackfillBook(ctx context.Context, bookID uint) (*BackfillResult, error) {
	book, err := b.books.Find(bookID)
	if err != nil {
		return nil, fmt.Errorf("load book %d: %w", bookID, err)
	}
	if book == nil {
		return nil, fmt.Errorf("book %d not found", bookID)
	}
	if book.ISBN == "" {
		return &BackfillResult{Book: book}, nil
	}
	if !hasMissingFields(book) {
		return &BackfillResult{Book: book}, nil
	}

	info, err := b.fetcher.FetchByISBN(ctx, book.ISBN)
	if err != nil {
		return nil, fmt.Errorf("fetch isbn %s: %w", book.ISBN, err)
	}

	filled := fillMissingFields(book, info)
	if len(filled) == 0 {
		return &BackfillResult{Book: book}, nil
	}

	if _, err := b.books.Update(book); err != nil {
		return nil, fmt.Errorf("save book %d: %w", bookID, err)
	}
	return &BackfillResult{Book: book, FieldsFilled: filled}, nil
}

// BackfillAll walks the catalogue and backfills every book that has an ISBN
// and at least one empty field. Individual failures are counted, not fatal.
func (b *Backfiller) BackfillAll(ctx context.Context) (*SweepResult, error) {
	all, err := b.books.FindAll(-1, -1)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := &SweepResult{Total: len(all)}
	for i := range all {
		book := &all[i]
		if book.ISBN == "" || !hasMissingFields(book) {
			result.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		res, err := b.BackfillBook(ctx, book.ID)
		if err != nil {
			result.Failed++
			continue
		}
		if len(res.FieldsFilled) > 0 {
			result.Filled++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func hasMissingFields(book *entities.Book) bool {
	return book.Pic == "" || book.Author == "" || book.Publisher == "" ||
		book.Translator == "" || book.Pubdate == "" || book.Pages == "" ||
		book.Price == "" || book.Binding == "" || book.Series == ""
}

// fillMissingFields copies source values into empty book fields only and
// returns the names of the fields it filled.
func fillMissingFields(book *entities.Book, info *BookInfo) []string {
	var filled []string
	fill := func(name string, dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			filled = append(filled, name)
		}
	}
	fill("pic", &book.Pic, info.Pic)
	fill("author", &book.Author, info.Author)
	fill("publisher", &book.Publisher, info.Publisher)
	fill("translator", &book.Translator, info.Translator)
	fill("pubdate", &book.Pubdate, info.Pubdate)
	fill("pages", &book.Pages, info.Pages)
	fill("price", &book.Price, info.Price)
	fill("binding", &book.Binding, info.Binding)
	fill("series", &book.Series, info.Series)
	return filled
}
