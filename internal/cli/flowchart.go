package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/pkg/visual"
)

// flowchartCommand creates the flowchart management command.
func (c *CLI) flowchartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowchart",
		Short: "Create and edit grammar flowcharts",
	}

	cmd.AddCommand(c.flowchartCreateCommand())
	cmd.AddCommand(c.flowchartListCommand())
	cmd.AddCommand(c.flowchartShowCommand())
	cmd.AddCommand(c.flowchartAddNodeCommand())
	cmd.AddCommand(c.flowchartConnectCommand())
	cmd.AddCommand(c.flowchartDeleteCommand())

	return cmd
}

// flowchartCreateCommand creates the "flowchart create" subcommand.
func (c *CLI) flowchartCreateCommand() *cobra.Command {
	var (
		concept     string
		title       string
		description string
		language    string
		difficulty  int
		outcomes    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new grammar flowchart",
		Long: `Create a new grammar flowchart.

The flowchart starts empty. Add nodes with 'flowchart add-node' and wire
them with 'flowchart connect'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			f, err := svc.CreateFlowchart(cmd.Context(), visual.CreateFlowchartInput{
				Concept:          visual.GrammarConcept(concept),
				Title:            title,
				Description:      description,
				Language:         language,
				DifficultyLevel:  difficulty,
				LearningOutcomes: outcomes,
			})
			if err != nil {
				return err
			}

			printSuccess("Created flowchart %q", f.Title)
			printID(f.FlowchartID)
			return nil
		},
	}

	cmd.Flags().StringVar(&concept, "concept", "", "grammar concept (e.g. verb_conjugation)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "flowchart title")
	cmd.Flags().StringVar(&description, "description", "", "flowchart description")
	cmd.Flags().StringVarP(&language, "language", "L", "", "target language")
	cmd.Flags().IntVar(&difficulty, "difficulty", 1, "difficulty level (1-5)")
	cmd.Flags().StringSliceVar(&outcomes, "outcome", nil, "learning outcome (repeatable)")
	_ = cmd.MarkFlagRequired("concept")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

// flowchartListCommand creates the "flowchart list" subcommand.
func (c *CLI) flowchartListCommand() *cobra.Command {
	var (
		language string
		concept  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grammar flowcharts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			summaries, err := svc.ListFlowcharts(cmd.Context(), visual.FlowchartFilter{
				Language: language,
				Concept:  visual.GrammarConcept(concept),
			})
			if err != nil {
				return err
			}

			for _, s := range summaries {
				detail := fmt.Sprintf("%s · %s · %d nodes", s.Concept, s.Language, s.NodeCount)
				printListItem(s.FlowchartID, detail)
			}
			printCount(len(summaries), "flowchart")
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "L", "", "filter by language")
	cmd.Flags().StringVar(&concept, "concept", "", "filter by grammar concept")

	return cmd
}

// flowchartShowCommand creates the "flowchart show" subcommand.
func (c *CLI) flowchartShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <flowchart-id>",
		Short: "Show a flowchart with its nodes and connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			f, err := svc.GetFlowchart(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(f.Title))
			printKeyValue("ID", f.FlowchartID)
			printKeyValue("Concept", string(f.Concept))
			printKeyValue("Language", f.Language)
			printKeyValue("Difficulty", fmt.Sprintf("%d", f.DifficultyLevel))
			if len(f.LearningOutcomes) > 0 {
				printKeyValue("Outcomes", strings.Join(f.LearningOutcomes, "; "))
			}
			printNewline()

			for _, n := range f.Nodes {
				label := fmt.Sprintf("[%s] %s", n.NodeType, n.Title)
				printListItem(n.NodeID, label)
				if len(n.NextNodes) > 0 {
					printDetail("%s %s", iconArrow, strings.Join(n.NextNodes, ", "))
				}
			}
			printCount(len(f.Nodes), "node")
			return nil
		},
	}
}

// flowchartAddNodeCommand creates the "flowchart add-node" subcommand.
func (c *CLI) flowchartAddNodeCommand() *cobra.Command {
	var (
		title       string
		description string
		nodeType    string
		content     string
		examples    []string
		x, y        int
	)

	cmd := &cobra.Command{
		Use:   "add-node <flowchart-id>",
		Short: "Append a node to a flowchart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			n, err := svc.AddNode(cmd.Context(), args[0], visual.AddNodeInput{
				Title:       title,
				Description: description,
				NodeType:    visual.NodeType(nodeType),
				Content:     content,
				Examples:    examples,
				Position:    visual.Position{X: x, Y: y},
			})
			if err != nil {
				return err
			}

			printSuccess("Added node %q", n.Title)
			printID(n.NodeID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "node title")
	cmd.Flags().StringVar(&description, "description", "", "node description")
	cmd.Flags().StringVar(&nodeType, "type", "", "node type: start, decision, process, end, example")
	cmd.Flags().StringVar(&content, "content", "", "instructional content")
	cmd.Flags().StringSliceVar(&examples, "example", nil, "example sentence (repeatable)")
	cmd.Flags().IntVar(&x, "x", 0, "canvas x position")
	cmd.Flags().IntVar(&y, "y", 0, "canvas y position")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// flowchartConnectCommand creates the "flowchart connect" subcommand.
func (c *CLI) flowchartConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <flowchart-id> <from-node> <to-node>",
		Short: "Add a directed connection between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			added, err := svc.Connect(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if !added {
				printInfo("Connection %s %s %s already exists", args[1], iconArrow, args[2])
				return nil
			}
			printSuccess("Connected %s %s %s", args[1], iconArrow, args[2])
			return nil
		},
	}
}

// flowchartDeleteCommand creates the "flowchart delete" subcommand.
func (c *CLI) flowchartDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <flowchart-id>",
		Short: "Delete a flowchart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := svc.DeleteFlowchart(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
