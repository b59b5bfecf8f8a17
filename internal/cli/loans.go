package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/utils"
)

// LoansCommand lists loans and can run the reconciliation sweep.
type LoansCommand struct {
	DatabasePath string
	Status       string // all, outstanding or overdue
	MemberID     uint
	Reconcile    bool

	Out io.Writer
}

func NewLoansCommand() *LoansCommand {
	return &LoansCommand{}
}

func (cmd *LoansCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("loans", flag.ContinueOnError)

	var memberID uint64
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite library database (default: DATABASE_PATH)")
	fs.StringVar(&cmd.Status, "status", "all", "Which loans to list: all, outstanding or overdue")
	fs.Uint64Var(&memberID, "member", 0, "Only list loans of this member")
	fs.BoolVar(&cmd.Reconcile, "reconcile", false, "Repair book availability for loans flagged after a failed write, then list")

	fs.Usage = usage(fs, "loans [options]",
		"List loans.",
		"loans -status overdue",
		"loans -member 2",
		"loans -reconcile",
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Status {
	case "all", "outstanding", "overdue":
	default:
		return fmt.Errorf("invalid -status %q: expected all, outstanding or overdue", cmd.Status)
	}
	if memberID > 0 && cmd.Status != "all" {
		return fmt.Errorf("-member cannot be combined with -status %s", cmd.Status)
	}
	cmd.MemberID = uint(memberID)
	return nil
}

func (cmd *LoansCommand) Run() error {
	out := output(cmd.Out)

	lib, err := openLibrary(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer lib.Close()

	if cmd.Reconcile {
		result, err := lib.Engine.ReconcileAll(context.Background())
		fmt.Fprintf(out, "Reconciliation: %d checked, %d repaired, %d failed\n",
			result.Checked, result.Repaired, result.Failed)
		if err != nil {
			fmt.Fprintf(out, "  [ERROR] %v\n", err)
		}
		fmt.Fprintln(out)
	}

	var list []entities.Loan
	switch {
	case cmd.MemberID > 0:
		list, err = lib.Engine.ListByMember(cmd.MemberID)
	case cmd.Status == "outstanding":
		list, err = lib.Engine.ListOutstanding()
	case cmd.Status == "overdue":
		list, err = lib.Engine.ListOverdue()
	default:
		list, err = lib.Engine.ListLoans()
	}
	if err != nil {
		return fmt.Errorf("failed to list loans: %w", err)
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No loans found")
		return nil
	}

	printLoans(out, list)
	return nil
}

func printLoans(out io.Writer, list []entities.Loan) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOOK\tMEMBER\tLOANED\tDUE\tRETURNED\tPENALTY\tFLAGGED")
	for _, l := range list {
		returned := "-"
		if l.ActualReturnDate != nil {
			returned = utils.FormatDate(*l.ActualReturnDate)
		}
		flagged := ""
		if l.NeedsReconciliation {
			flagged = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%.2f\t%s\n",
			l.ID, l.BookISBN, l.MemberID,
			utils.FormatDate(l.LoanDate), utils.FormatDate(l.ExpectedReturnDate),
			returned, l.Penalty, flagged)
	}
	tw.Flush()
}
