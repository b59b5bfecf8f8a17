package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/utils"
)

// ReturnCommand closes a loan and prints its penalty.
type ReturnCommand struct {
	DatabasePath string
	LoanID       uint

	Out io.Writer
}

func NewReturnCommand() *ReturnCommand {
	return &ReturnCommand{}
}

func (cmd *ReturnCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("return", flag.ContinueOnError)

	var loanID uint64
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite library database (default: DATABASE_PATH)")
	fs.Uint64Var(&loanID, "loan", 0, "Loan ID (required)")

	fs.Usage = usage(fs, "return -loan <id> [options]",
		"Return a borrowed book. Late returns are charged per day overdue.",
		"return -loan 3",
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if loanID == 0 {
		return fmt.Errorf("required flag -loan not provided")
	}
	cmd.LoanID = uint(loanID)
	return nil
}

func (cmd *ReturnCommand) Run() error {
	out := output(cmd.Out)

	lib, err := openLibrary(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer lib.Close()

	loan, err := lib.Engine.ReturnBook(context.Background(), cmd.LoanID)

	var pending *loans.ConsistencyError
	switch {
	case errors.As(err, &pending):
		fmt.Fprintf(out, "Loan %d closed, but the book could not be marked as available.\n", loan.ID)
		fmt.Fprintf(out, "Run 'loans -reconcile' to repair it.\n")
	case err != nil:
		return fmt.Errorf("return failed: %w", err)
	default:
		fmt.Fprintf(out, "Loan %d returned on %s\n", loan.ID, utils.FormatDate(*loan.ActualReturnDate))
	}

	if days := loan.OverdueDays(); days > 0 {
		fmt.Fprintf(out, "Returned %d day(s) late. Penalty: %.2f\n", days, loan.Penalty)
	} else {
		fmt.Fprintln(out, "Returned on time. No penalty.")
	}
	return nil
}
