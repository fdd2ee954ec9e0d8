package cli

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/ppiankov/lexcore/internal/skill"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	fillVars     map[string]string
	fillVarsFile string
	fillOut      string
	fillStrict   bool
)

// fillCmd represents the fill command
var fillCmd = &cobra.Command{
	Use:   "fill <template|->",
	Short: "Fill {placeholders} in a document template",
	Long: `Fill replaces {name} placeholders in a template with supplied values.

Placeholders without a value are left in place, so nothing is invented.
Write {{ and }} for literal braces.

Example:
  lexcore fill notice.txt --var client="A. Rao" --var court="High Court of Delhi"
  lexcore fill notice.txt --vars-file parties.yaml --out notice-filled.txt --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringToStringVar(&fillVars, "var", nil, "placeholder value as key=value (repeatable)")
	fillCmd.Flags().StringVar(&fillVarsFile, "vars-file", "", "YAML or JSON file of placeholder values")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "output path (default stdout)")
	fillCmd.Flags().BoolVar(&fillStrict, "strict", false, "fail when any placeholder has no value")
}

func runFill(cmd *cobra.Command, args []string) error {
	template, err := readTextArg(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	vars := map[string]string{}
	if fillVarsFile != "" {
		fileVars, err := loadVars(fillVarsFile)
		if err != nil {
			return err
		}
		maps.Copy(vars, fileVars)
	}
	// Flags win over the file
	maps.Copy(vars, fillVars)

	result, err := skill.NewDispatcher(nil, logger).Dispatch(cmd.Context(), skill.OpFillTemplate, skill.Input{
		Template: template,
		Vars:     vars,
	})
	if err != nil {
		return err
	}

	if len(result.Missing) > 0 {
		if fillStrict {
			return fmt.Errorf("no value for placeholders: %s", strings.Join(result.Missing, ", "))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Left unfilled: %s\n", strings.Join(result.Missing, ", "))
	}

	w, closeOut, err := openOutput(cmd.OutOrStdout(), fillOut)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, *result.Document)
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	return err
}

// loadVars reads a flat key/value map. JSON parses as YAML.
func loadVars(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vars: %w", err)
	}
	var vars map[string]string
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parse vars %s: %w", path, err)
	}
	return vars, nil
}
