package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abr-tools/abr-ingest/internal/extract"
	"github.com/abr-tools/abr-ingest/internal/pdftext"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract one PDF and print the records as JSON",
	Long: `Run the extraction engine on a single ABR PDF without touching the
database. Useful for inspecting what an ingest run would store.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := pdftext.New().Text(args[0])
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	bundle, err := extract.Parse(text, uuid.Nil)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}
