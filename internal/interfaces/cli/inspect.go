package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/drugflat/internal/application/pipeline"
	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/domain/property"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/tabular"
	"github.com/turtacn/drugflat/internal/intelligence/toxicity"
	"github.com/turtacn/drugflat/pkg/errors"
)

// NewSchemaCmd prints the column layout of every output table.
func NewSchemaCmd() *cobra.Command {
	var table string
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the versioned column layout of the output tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := pipeline.Schemas()
			if table != "" {
				var picked []drug.TableSchema
				for _, s := range schemas {
					if s.Name == table {
						picked = append(picked, s)
					}
				}
				if len(picked) == 0 {
					return errors.Newf(errors.ErrCodeBadRequest, "unknown table %q", table)
				}
				schemas = picked
			}

			switch format {
			case "yaml":
				return tabular.NewManifest(schemas).Encode(cmd.OutOrStdout())
			case "table":
				var rows [][]string
				for _, s := range schemas {
					for i, c := range s.Columns {
						rows = append(rows, []string{s.Name, strconv.Itoa(i), c})
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), FormatTable([]string{"TABLE", "#", "COLUMN"}, rows))
				return nil
			default:
				return errors.Newf(errors.ErrCodeBadRequest, "unknown format %q (yaml|table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "only this table")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml|table")
	return cmd
}

// NewToxicityCmd mines one toxicity narrative and prints the feature bag.
func NewToxicityCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "toxicity [text]",
		Short: "Extract structured toxicity features from a narrative",
		Example: `  drugflat toxicity "The oral LD50 in rats is 1600 mg/kg."
  drugflat toxicity -f narrative.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textInput(cmd, args, file)
			if err != nil {
				return err
			}
			bag := toxicity.Extract(text)
			cells := bag.Cells()
			out := make(map[string]string, len(cells))
			for i, col := range toxicity.Columns {
				out[col] = cells[i]
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the narrative from a file (- for stdin)")
	return cmd
}

// NewPropertyCmd parses one free-text property value.
func NewPropertyCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "property <value>",
		Short: "Parse a free-text property value to its numeric reading",
		Example: `  drugflat property -k "Water Solubility" "200 mg/L"
  drugflat property -k "Melting Point" "118-121 °C"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parse, known := property.ParserFor(kind)
			if !known {
				cliCtx, err := GetCLIContext(cmd)
				if err == nil {
					cliCtx.Logger.Warn("no dedicated parser for kind, using plain numeric parser", logging.String("kind", kind))
				}
			}
			value := parse(args[0])
			reading := "null"
			if value.Valid {
				reading = value.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), reading)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", property.KindWaterSolubility,
		"property kind: "+strings.Join(property.Kinds(), ", "))
	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "drugflat %s\ncommit: %s\nbuilt: %s\nschema: %s\n",
				Version, GitCommit, BuildDate, drug.SchemaVersion)
		},
	}
}

func textInput(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeBadRequest, "read stdin")
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeNotFound, "read narrative file").WithDetail(file)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", errors.New(errors.ErrCodeBadRequest, "provide the narrative as an argument or with --file")
	}
}
