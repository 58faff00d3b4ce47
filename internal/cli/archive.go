package cli

import (
	"github.com/spf13/cobra"

	archive "github.com/linguaviz/linguaviz/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <archive.json>",
		Short: "Export all content to a JSON archive",
		Long: `Export all content to a JSON archive.

The archive holds every document from every collection and can be
restored with 'import'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			backend, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := archive.ExportFile(cmd.Context(), backend, args[0]); err != nil {
				return err
			}
			printSuccess("Exported content store")
			printID(args[0])
			return nil
		},
	}
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.json>",
		Short: "Import content from a JSON archive",
		Long: `Import content from a JSON archive.

Every document in the archive is validated before anything is written.
Existing documents with matching IDs are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			backend, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			count, err := archive.ImportFile(cmd.Context(), backend, args[0])
			if err != nil {
				return err
			}
			printSuccess("Imported %d documents", count)
			return nil
		},
	}
}
