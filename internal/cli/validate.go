package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docverify/internal/domain"
)

// ErrAnswerRejected is returned by validate --strict when the answer fails validation.
var ErrAnswerRejected = errors.New("answer failed validation")

type verdictOutput struct {
	Mode        domain.ValidationMode   `json:"mode"`
	Result      domain.ValidationResult `json:"result"`
	FinalAnswer string                  `json:"final_answer"`
}

func loadFactsFile(path string) (*factsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f factsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptFacts, path, err)
	}
	return &f, nil
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		document  string
		factsPath string
		answer    string
		mode      string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "validate [answer-file|-]",
		Short: "Check an answer against the facts of a notice",
		Long: `Validate compares an answer with the facts of a notice and prints the
verdict and the answer that may be shown to the user.

The facts come either from a notice (--document, extracted on the fly with
rules only) or from a facts file written by "extract --output". Hybrid mode
is the default when the facts file carries recognizer entities.

Example:
  factcheck validate --document notice.txt --answer "2025년 5월 31일까지 납부하세요"
  factcheck validate --facts facts.json answer.txt --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (document == "") == (factsPath == "") {
				return errors.New("exactly one of --document or --facts is required")
			}
			if len(args) == 1 {
				text, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				answer = text
			}
			if strings.TrimSpace(answer) == "" {
				return domain.ErrEmptyAnswer
			}
			validationMode := domain.ValidationMode(mode)
			if validationMode != "" && !domain.ValidValidationModes[validationMode] {
				return fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
			}

			p := a.pipeline()
			var facts *factsFile
			if document != "" {
				text, err := readInput(cmd, document)
				if err != nil {
					return err
				}
				facts = p.extract(text, nil)
			} else {
				f, err := loadFactsFile(factsPath)
				if err != nil {
					return err
				}
				facts = f
			}

			if validationMode == "" {
				validationMode = domain.ValidationModePlain
				if len(facts.NEREntities) > 0 {
					validationMode = domain.ValidationModeHybrid
				}
			}

			var result domain.ValidationResult
			if validationMode == domain.ValidationModeHybrid {
				result = p.validator.ValidateHybrid(answer, facts.hybridData())
			} else {
				result = p.validator.Validate(answer, facts.Canonical.Facts())
			}

			out := verdictOutput{Mode: validationMode, Result: result, FinalAnswer: answer}
			if !result.IsValid {
				out.FinalAnswer = domain.RefusalMessage
			}
			if err := a.render(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if strict && !result.IsValid {
				return ErrAnswerRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&document, "document", "d", "", "notice text file to extract facts from")
	cmd.Flags().StringVar(&factsPath, "facts", "", "facts file written by extract --output")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer text (instead of an answer file)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "validation mode (plain, hybrid)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the answer is rejected")
	return cmd
}
