package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/utils"
	"github.com/mrlokans/librarian/internal/validation"
)

// BorrowCommand lends a book to a member.
type BorrowCommand struct {
	DatabasePath string
	ISBN         string
	MemberID     uint
	DueDate      string

	Out io.Writer
}

func NewBorrowCommand() *BorrowCommand {
	return &BorrowCommand{}
}

func (cmd *BorrowCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("borrow", flag.ContinueOnError)

	var memberID uint64
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite library database (default: DATABASE_PATH)")
	fs.StringVar(&cmd.ISBN, "book", "", "ISBN or ISSN of the item to lend (required)")
	fs.Uint64Var(&memberID, "member", 0, "Member ID (required)")
	fs.StringVar(&cmd.DueDate, "due", "", "Due date as YYYY-MM-DD (default: loan period from today)")

	fs.Usage = usage(fs, "borrow -book <isbn> -member <id> [options]",
		"Lend a book to a member.",
		"borrow -book 978-0-544-00341-5 -member 1",
		"borrow -book 9780747532699 -member 2 -due 2024-02-01",
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ISBN == "" {
		return fmt.Errorf("required flag -book not provided")
	}
	if memberID == 0 {
		return fmt.Errorf("required flag -member not provided")
	}
	cmd.MemberID = uint(memberID)

	if cmd.DueDate != "" {
		if _, err := utils.ParseDate(cmd.DueDate); err != nil {
			return fmt.Errorf("invalid -due %q: expected %s", cmd.DueDate, utils.DateLayout)
		}
	}
	return nil
}

func (cmd *BorrowCommand) Run() error {
	out := output(cmd.Out)

	lib, err := openLibrary(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer lib.Close()

	var due *time.Time
	if cmd.DueDate != "" {
		parsed, _ := utils.ParseDate(cmd.DueDate)
		due = &parsed
	}

	isbn := validation.NormalizeIdentifier(cmd.ISBN)
	loan, err := lib.Engine.BorrowBook(context.Background(), isbn, cmd.MemberID, due)

	var pending *loans.ConsistencyError
	switch {
	case errors.As(err, &pending):
		fmt.Fprintf(out, "Loan %d recorded, but the book could not be marked as lent.\n", loan.ID)
		fmt.Fprintf(out, "Run 'loans -reconcile' to repair it.\n")
		return nil
	case err != nil:
		return fmt.Errorf("borrow failed: %w", err)
	}

	fmt.Fprintf(out, "Loan %d: %s lent to member %d\n", loan.ID, loan.BookISBN, loan.MemberID)
	fmt.Fprintf(out, "Due: %s\n", utils.FormatDate(loan.ExpectedReturnDate))
	return nil
}
