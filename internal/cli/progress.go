package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/pkg/visual"
)

// progressCommand creates the progress visualization management command.
func (c *CLI) progressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Manage progress visualizations",
	}

	cmd.AddCommand(c.progressCreateCommand())
	cmd.AddCommand(c.progressListCommand())
	cmd.AddCommand(c.progressDeleteCommand())

	return cmd
}

// progressCreateCommand creates the "progress create" subcommand.
func (c *CLI) progressCreateCommand() *cobra.Command {
	var (
		userID      string
		vizType     string
		title       string
		description string
		xLabel      string
		yLabel      string
		colors      []string
		dataFile    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a progress visualization for a user",
		Long: `Create a progress visualization for a user.

Data points are read from a JSON file (an array of objects) given with
--data. Without --data the visualization starts empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dataPoints []map[string]any
			if dataFile != "" {
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return fmt.Errorf("read data file %s: %w", dataFile, err)
				}
				if err := json.Unmarshal(raw, &dataPoints); err != nil {
					return fmt.Errorf("parse data file %s: %w", dataFile, err)
				}
			}

			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			v, err := svc.CreateVisualization(cmd.Context(), visual.CreateVisualizationInput{
				UserID:            userID,
				VisualizationType: visual.VisualizationType(vizType),
				Title:             title,
				Description:       description,
				DataPoints:        dataPoints,
				XAxisLabel:        xLabel,
				YAxisLabel:        yLabel,
				ColorScheme:       colors,
			})
			if err != nil {
				return err
			}

			printSuccess("Created visualization %q", v.Title)
			printID(v.VisualizationID)
			printDetail("%d data points", len(v.DataPoints))
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user the visualization belongs to")
	cmd.Flags().StringVar(&vizType, "type", "", "visualization type (e.g. bar_chart, heatmap)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "visualization title")
	cmd.Flags().StringVar(&description, "description", "", "visualization description")
	cmd.Flags().StringVar(&xLabel, "x-label", "", "x axis label")
	cmd.Flags().StringVar(&yLabel, "y-label", "", "y axis label")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "palette color (repeatable, defaults applied when omitted)")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON file with data points")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// progressListCommand creates the "progress list" subcommand.
func (c *CLI) progressListCommand() *cobra.Command {
	var (
		userID  string
		vizType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List progress visualizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			out, err := svc.ListVisualizations(cmd.Context(), visual.VisualizationFilter{
				UserID:            userID,
				VisualizationType: visual.VisualizationType(vizType),
			})
			if err != nil {
				return err
			}

			for _, v := range out {
				detail := fmt.Sprintf("%s · %s · %d points", v.UserID, v.VisualizationType, len(v.DataPoints))
				printListItem(v.VisualizationID, detail)
			}
			printCount(len(out), "visualization")
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "filter by user")
	cmd.Flags().StringVar(&vizType, "type", "", "filter by visualization type")

	return cmd
}

// progressDeleteCommand creates the "progress delete" subcommand.
func (c *CLI) progressDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <visualization-id>",
		Short: "Delete a progress visualization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := svc.DeleteVisualization(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
