package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/pkg/visual"
)

// vocabCommand creates the vocabulary visual management command.
func (c *CLI) vocabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage vocabulary visuals",
	}

	cmd.AddCommand(c.vocabCreateCommand())
	cmd.AddCommand(c.vocabListCommand())
	cmd.AddCommand(c.vocabDeleteCommand())

	return cmd
}

// vocabCreateCommand creates the "vocab create" subcommand.
func (c *CLI) vocabCreateCommand() *cobra.Command {
	var (
		word        string
		language    string
		translation string
		vizType     string
		phonetic    string
		audioURL    string
		related     []string
		difficulty  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vocabulary visual for a word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			v, err := svc.CreateVocabularyVisual(cmd.Context(), visual.CreateVocabularyVisualInput{
				Word:              word,
				Language:          language,
				Translation:       translation,
				VisualizationType: visual.VocabularyVizType(vizType),
				Phonetic:          phonetic,
				AudioURL:          audioURL,
				RelatedWords:      related,
				DifficultyLevel:   difficulty,
			})
			if err != nil {
				return err
			}

			printSuccess("Created vocabulary visual for %q", v.Word)
			printID(v.VisualID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&word, "word", "w", "", "the vocabulary word")
	cmd.Flags().StringVarP(&language, "language", "L", "", "word language")
	cmd.Flags().StringVar(&translation, "translation", "", "translation into the learner's language")
	cmd.Flags().StringVar(&vizType, "type", "", "visualization type (e.g. word_cloud, semantic_map)")
	cmd.Flags().StringVar(&phonetic, "phonetic", "", "phonetic spelling")
	cmd.Flags().StringVar(&audioURL, "audio", "", "audio recording URL")
	cmd.Flags().StringSliceVar(&related, "related", nil, "related word (repeatable)")
	cmd.Flags().IntVar(&difficulty, "difficulty", 1, "difficulty level (1-5)")
	_ = cmd.MarkFlagRequired("word")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// vocabListCommand creates the "vocab list" subcommand.
func (c *CLI) vocabListCommand() *cobra.Command {
	var (
		language string
		vizType  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary visuals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			out, err := svc.ListVocabularyVisuals(cmd.Context(), visual.VocabularyFilter{
				Language:          language,
				VisualizationType: visual.VocabularyVizType(vizType),
			})
			if err != nil {
				return err
			}

			for _, v := range out {
				detail := fmt.Sprintf("%s · %s", v.Word, v.Language)
				if v.Translation != "" {
					detail += " · " + v.Translation
				}
				printListItem(v.VisualID, detail)
			}
			printCount(len(out), "vocabulary visual")
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "L", "", "filter by language")
	cmd.Flags().StringVar(&vizType, "type", "", "filter by visualization type")

	return cmd
}

// vocabDeleteCommand creates the "vocab delete" subcommand.
func (c *CLI) vocabDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <visual-id>",
		Short: "Delete a vocabulary visual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := svc.DeleteVocabularyVisual(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
