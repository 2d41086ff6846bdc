package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/library"
)

var (
	importFormat string
	importDiff   bool
	importYes    bool
	exportFormat string
	exportOutput string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the library with a document",
	Long: `Replace the whole library with the commands of the given document.
JSON is the canonical format; YAML is accepted with --format yaml.

This overwrites the current library. Use --diff to preview the change
before confirming.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as a document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Document format (json|yaml), default json")
	importCmd.Flags().BoolVar(&importDiff, "diff", false, "Show a diff preview and ask for confirmation")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip the diff confirmation")

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Document format (json|yaml), default json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	format, err := library.ParseFormat(importFormat)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	incoming, err := library.DecodeDocument(raw, format)
	if err != nil {
		return err
	}

	if importDiff {
		preview, err := library.DiffPreview(svc.Data(), incoming)
		if err != nil {
			return err
		}
		fmt.Println(preview)

		if !importYes {
			fmt.Print("apply this import? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}
	}

	if err := svc.Replace(cmd.Context(), incoming); err != nil {
		return err
	}

	fmt.Printf("imported %d top-level entries\n", len(incoming))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	format, err := library.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	doc, err := library.EncodeDocument(svc.Data(), format)
	if err != nil {
		return err
	}

	if exportOutput != "" {
		return os.WriteFile(exportOutput, doc, 0o644)
	}
	_, err = os.Stdout.Write(doc)
	return err
}
