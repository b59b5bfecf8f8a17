package cli

import (
	"flag"
	"fmt"
	"io"
)

// SeedCommand fills an empty catalog with sample books.
type SeedCommand struct {
	DatabasePath string

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite library database (default: DATABASE_PATH)")

	fs.Usage = usage(fs, "seed [options]",
		"Add sample books to an empty catalog. A catalog that already has books is left unchanged.",
		"seed -db ./library.db",
	)

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	out := output(cmd.Out)

	lib, err := openLibrary(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer lib.Close()

	before, err := lib.Catalog.Stats()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	count, err := lib.DB.SeedSampleBooks()
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if before.Total > 0 {
		fmt.Fprintf(out, "Catalog already has %d books, nothing seeded\n", count)
		return nil
	}
	fmt.Fprintf(out, "Seeded %d sample books\n", count)
	return nil
}
