package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/rkarimov/baytalhikma/internal/config"
	"github.com/rkarimov/baytalhikma/internal/database"
	"github.com/rkarimov/baytalhikma/internal/database/books"
	"github.com/rkarimov/baytalhikma/internal/importers"
	"github.com/rkarimov/baytalhikma/internal/library"
)

// ImportCSVCommand handles bulk-importing catalogue rows from a CSV file.
type ImportCSVCommand struct {
	CSVPath      string
	DatabasePath string
	Verbose      bool
	DryRun       bool
}

func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{}
}

func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)

	fs.StringVar(&cmd.CSVPath, "file", "", "Path to the catalogue CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import books from a CSV file into the library database.\n\n")
		fmt.Fprintf(os.Stderr, "The CSV must have a header row naming at least 'title' and 'author';\n")
		fmt.Fprintf(os.Stderr, "'isbn', 'category' and 'publication_year' columns are optional.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import into the default database:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file books.csv\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file books.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CSVPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCSVCommand) Run() error {
	fmt.Println("Catalogue CSV Import")
	fmt.Println("====================")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	file, err := os.Open(cmd.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, problems, err := importers.ParseCatalogCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	for _, problem := range problems {
		fmt.Printf("  skipped: %s\n", problem)
	}
	fmt.Printf("Parsed %d importable rows (%d skipped)\n", len(rows), len(problems))

	if cmd.DryRun {
		for _, row := range rows {
			fmt.Printf("  would import: '%s' by %s\n", row.Title, row.Author)
		}
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	catalog := library.NewService(books.NewRepository(db.DB), 0)

	added := 0
	for _, row := range rows {
		book, err := catalog.AddBook(library.AddBookInput{
			Title:           row.Title,
			Author:          row.Author,
			ISBN:            row.ISBN,
			Category:        row.Category,
			PublicationYear: row.PublicationYear,
		})
		if err != nil {
			fmt.Printf("  failed (line %d): %v\n", row.Line, err)
			continue
		}
		added++
		if cmd.Verbose {
			fmt.Printf("  imported #%d: '%s' by %s\n", book.ID, book.Title, book.Author)
		}
	}
	catalog.InvalidateCache()

	fmt.Printf("\nImported %d of %d books into %s\n", added, len(rows), cmd.DatabasePath)
	return nil
}
