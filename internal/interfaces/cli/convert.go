package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/turtacn/drugflat/internal/application/pipeline"
	"github.com/turtacn/drugflat/internal/config"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugflat/internal/infrastructure/storage/minio"
	"github.com/turtacn/drugflat/pkg/errors"
)

// convertFlags maps each convert flag to its configuration key.
var convertFlags = map[string]string{
	"input":            "input.path",
	"output":           "output.dir",
	"list-separator":   "output.list_separator",
	"manifest":         "output.write_manifest",
	"workers":          "pipeline.workers",
	"timeout":          "pipeline.timeout",
	"metrics-textfile": "metrics.textfile",
	"publish":          "storage.minio.enabled",
}

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a DrugBank XML export into CSV tables",
		Example: "  drugflat convert -i full_database.xml -o drug_data_cleaned\n" +
			"  DRUGFLAT_PIPELINE_WORKERS=8 drugflat convert -i full_database.xml --manifest=false",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := bindFlags(cliCtx, cmd.Flags(), convertFlags); err != nil {
				return err
			}
			cfg, err := config.Finalize(cliCtx.Viper)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid configuration")
			}
			return runConvert(cmd, cfg, cliCtx.Logger)
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "DrugBank XML export to read")
	f.StringP("output", "o", config.DefaultOutputDir, "directory for the CSV tables")
	f.String("list-separator", config.DefaultListSeparator, "separator for multi-valued cells")
	f.Bool("manifest", true, "write schema.yaml next to the tables")
	f.Int("workers", config.DefaultWorkers, "goroutines for the per-row derivations")
	f.Duration("timeout", config.DefaultTimeout, "abort the run after this long")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file (enables metrics)")
	f.Bool("publish", false, "upload the written tables to the configured object store")
	return cmd
}

// bindFlags copies every explicitly set flag onto its configuration key.
func bindFlags(cliCtx *CLIContext, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return errors.Newf(errors.ErrCodeInternal, "unknown flag %q", name)
		}
		if err := cliCtx.Viper.BindPFlag(key, f); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigLoad, "bind flag").WithDetail(name)
		}
	}
	if flags.Changed("metrics-textfile") {
		cliCtx.Viper.Set("metrics.enabled", true)
	}
	return nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config, logger logging.Logger) error {
	ctx := cmd.Context()

	deps := pipeline.Deps{Logger: logger}
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "metrics collector")
		}
		deps.Collector = collector
	}
	if cfg.Storage.MinIO.Enabled {
		publisher, err := newPublisher(ctx, cfg.Storage.MinIO, logger)
		if err != nil {
			return err
		}
		deps.Publisher = publisher
	}

	p := pipeline.New(pipeline.Options{
		InputPath:       cfg.Input.Path,
		OutputDir:       cfg.Output.Dir,
		ListSeparator:   cfg.Output.ListSeparator,
		Namespace:       cfg.Input.Namespace,
		ProgressEvery:   cfg.Input.ProgressEvery,
		Workers:         cfg.Pipeline.Workers,
		WriteManifest:   cfg.Output.WriteManifest,
		Timeout:         cfg.Pipeline.Timeout,
		MetricsTextfile: cfg.Metrics.Textfile,
	}, deps)

	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd, sum)
	return nil
}

func newPublisher(ctx context.Context, m config.MinIOConfig, logger logging.Logger) (*minio.Publisher, error) {
	client, err := minio.NewMinIOClient(ctx, &minio.MinIOConfig{
		Endpoint:        m.Endpoint,
		AccessKeyID:     m.AccessKey,
		SecretAccessKey: m.SecretKey,
		UseSSL:          m.UseSSL,
		Region:          m.Region,
		Bucket:          m.Bucket,
		Prefix:          m.Prefix,
	}, logger.Named("minio"))
	if err != nil {
		return nil, err
	}
	return minio.NewPublisher(client, logger.Named("publish")), nil
}

func printSummary(cmd *cobra.Command, sum *pipeline.Summary) {
	rows := make([][]string, 0, len(sum.Tables))
	for _, t := range sum.Tables {
		rows = append(rows, []string{t.Name, strconv.Itoa(t.Rows), strconv.Itoa(len(t.Columns)), t.Path})
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, FormatTable([]string{"TABLE", "ROWS", "COLUMNS", "PATH"}, rows))
	fmt.Fprintf(out, "\nrun %s: %d interaction templates, %d orphan child rows, %d uploads, %s\n",
		sum.RunID.Short(), sum.Templates, sum.References.Total(), len(sum.Uploads), sum.Duration.Round(time.Millisecond))
}
