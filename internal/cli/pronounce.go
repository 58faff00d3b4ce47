package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linguaviz/linguaviz/pkg/errors"
	"github.com/linguaviz/linguaviz/pkg/visual"
)

// pronounceCommand creates the pronunciation guide management command.
func (c *CLI) pronounceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pronounce",
		Short: "Manage pronunciation guides",
	}

	cmd.AddCommand(c.pronounceCreateCommand())
	cmd.AddCommand(c.pronounceListCommand())
	cmd.AddCommand(c.pronounceShowCommand())
	cmd.AddCommand(c.pronounceDeleteCommand())

	return cmd
}

// pronounceCreateCommand creates the "pronounce create" subcommand.
func (c *CLI) pronounceCreateCommand() *cobra.Command {
	var (
		phrase     string
		language   string
		phonetic   string
		ipa        string
		audioURL   string
		syllables  []string
		mistakes   []string
		tips       []string
		difficulty int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pronunciation guide",
		Long: `Create a pronunciation guide.

Syllable breakdowns are given as "syllable:sound" or
"syllable:sound:tip", one --syllable flag per entry:

  linguaviz pronounce create --phrase gracias --language spanish \
      --syllable "gra:grah:roll the r" --syllable "cias:see-ahs"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			breakdown, err := parseSyllables(syllables)
			if err != nil {
				return err
			}

			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			g, err := svc.CreatePronunciationGuide(cmd.Context(), visual.CreatePronunciationGuideInput{
				WordOrPhrase:     phrase,
				Language:         language,
				PhoneticSpelling: phonetic,
				IPANotation:      ipa,
				AudioURL:         audioURL,
				Breakdown:        breakdown,
				CommonMistakes:   mistakes,
				PracticeTips:     tips,
				DifficultyLevel:  difficulty,
			})
			if err != nil {
				return err
			}

			printSuccess("Created pronunciation guide for %q", g.WordOrPhrase)
			printID(g.GuideID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "word or phrase")
	cmd.Flags().StringVarP(&language, "language", "L", "", "phrase language")
	cmd.Flags().StringVar(&phonetic, "phonetic", "", "phonetic spelling")
	cmd.Flags().StringVar(&ipa, "ipa", "", "IPA notation")
	cmd.Flags().StringVar(&audioURL, "audio", "", "audio recording URL")
	cmd.Flags().StringSliceVar(&syllables, "syllable", nil, "syllable breakdown entry (repeatable)")
	cmd.Flags().StringSliceVar(&mistakes, "mistake", nil, "common mistake (repeatable)")
	cmd.Flags().StringSliceVar(&tips, "tip", nil, "practice tip (repeatable)")
	cmd.Flags().IntVar(&difficulty, "difficulty", 1, "difficulty level (1-5)")
	_ = cmd.MarkFlagRequired("phrase")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

// parseSyllables converts "syllable:sound[:tip]" flag values.
func parseSyllables(entries []string) ([]visual.Syllable, error) {
	var out []visual.Syllable
	for _, e := range entries {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"syllable entry %q must be syllable:sound or syllable:sound:tip", e)
		}
		s := visual.Syllable{Syllable: parts[0], Sound: parts[1]}
		if len(parts) == 3 {
			s.Tip = parts[2]
		}
		out = append(out, s)
	}
	return out, nil
}

// pronounceListCommand creates the "pronounce list" subcommand.
func (c *CLI) pronounceListCommand() *cobra.Command {
	var (
		language   string
		difficulty int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pronunciation guides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			out, err := svc.ListPronunciationGuides(cmd.Context(), visual.PronunciationFilter{
				Language:        language,
				DifficultyLevel: difficulty,
			})
			if err != nil {
				return err
			}

			for _, g := range out {
				detail := fmt.Sprintf("%s · %s · level %d", g.WordOrPhrase, g.Language, g.DifficultyLevel)
				printListItem(g.GuideID, detail)
			}
			printCount(len(out), "guide")
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "L", "", "filter by language")
	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "filter by difficulty level (0 = any)")

	return cmd
}

// pronounceShowCommand creates the "pronounce show" subcommand.
func (c *CLI) pronounceShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <guide-id>",
		Short: "Show a pronunciation guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			g, err := svc.GetPronunciationGuide(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(g.WordOrPhrase))
			printKeyValue("ID", g.GuideID)
			printKeyValue("Language", g.Language)
			if g.PhoneticSpelling != "" {
				printKeyValue("Phonetic", g.PhoneticSpelling)
			}
			if g.IPANotation != "" {
				printKeyValue("IPA", g.IPANotation)
			}
			printKeyValue("Difficulty", fmt.Sprintf("%d", g.DifficultyLevel))

			if len(g.Breakdown) > 0 {
				printNewline()
				for _, s := range g.Breakdown {
					line := fmt.Sprintf("%s %s %s", s.Syllable, iconArrow, s.Sound)
					if s.Tip != "" {
						line += "  (" + s.Tip + ")"
					}
					printDetail("%s", line)
				}
			}
			for _, m := range g.CommonMistakes {
				printDetail("avoid: %s", m)
			}
			for _, tip := range g.PracticeTips {
				printDetail("tip: %s", tip)
			}
			return nil
		},
	}
}

// pronounceDeleteCommand creates the "pronounce delete" subcommand.
func (c *CLI) pronounceDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <guide-id>",
		Short: "Delete a pronunciation guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := svc.DeletePronunciationGuide(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
