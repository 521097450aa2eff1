package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/daslab/treeshade/internal/domain/suntable"
	"github.com/daslab/treeshade/internal/infra/config"
	"github.com/daslab/treeshade/internal/infra/ephemeris"
	"github.com/daslab/treeshade/pkg/util"
)

var (
	flagLatitude    float64
	flagLongitude   float64
	flagTimezone    string
	flagFirstSlot   time.Duration
	flagInterval    time.Duration
	flagSlots       int
	flagMinAltitude float64
	flagFormat      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "suntable",
	Short:         "Compute sun position tables for shadow rendering",
	Long:          "Generates the seasons x time slots sun table served by the treeshade API, using the solar section of the service config as defaults.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch flagFormat {
		case "yaml", "json":
			return nil
		}
		return fmt.Errorf("invalid format %q: must be yaml or json", flagFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&flagLatitude, "lat", 0, "observer latitude in degrees")
	pf.Float64Var(&flagLongitude, "lon", 0, "observer longitude in degrees, east positive")
	pf.StringVar(&flagTimezone, "tz", "", "IANA timezone of the slot clock")
	pf.DurationVar(&flagFirstSlot, "first-slot", 0, "offset of the first slot from local midnight")
	pf.DurationVar(&flagInterval, "interval", 0, "time between slots")
	pf.IntVar(&flagSlots, "slots", 0, "slots per season")
	pf.Float64Var(&flagMinAltitude, "min-altitude", 0, "lowest sun altitude, in degrees, that still casts a shadow layer")
	pf.StringVar(&flagFormat, "format", "yaml", "output format: yaml|json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(dayCmd)
}

var flagOut string

var generateCmd = &cobra.Command{
	Use:   "generate [date...]",
	Short: "Generate a sun table, one season per date (YYYY-MM-DD)",
	Long:  "With no dates, the season dates from the config are used. The output can be loaded through sunTable.path.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", "", "write to file instead of stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generatorConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.SeasonDates = args
	}
	table, err := suntable.Generate(cfg, ephemeris.NewMeeus())
	if err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("generated table: %w", err)
	}

	if flagOut == "" {
		return encode(cmd.OutOrStdout(), table)
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagOut, err)
	}
	if err := encode(f, table); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", flagOut, err)
	}
	return nil
}

var dayCmd = &cobra.Command{
	Use:   "day <date>",
	Short: "Print the slots of a single date with their local times",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := generatorConfig(cmd)
		if err != nil {
			return err
		}
		date, err := util.ParseDate(args[0], cfg.Location)
		if err != nil {
			return fmt.Errorf("date must be formatted as YYYY-MM-DD: %w", err)
		}
		return encode(cmd.OutOrStdout(), suntable.Day(cfg, ephemeris.NewMeeus(), date))
	},
}

// generatorConfig starts from the service config and applies explicit flags.
func generatorConfig(cmd *cobra.Command) (suntable.Config, error) {
	appCfg, err := config.Load()
	if err != nil {
		return suntable.Config{}, err
	}
	solar := appCfg.Solar
	flags := cmd.Flags()
	if flags.Changed("lat") {
		solar.Latitude = flagLatitude
	}
	if flags.Changed("lon") {
		solar.Longitude = flagLongitude
	}
	if flags.Changed("tz") {
		solar.Timezone = flagTimezone
	}
	if flags.Changed("first-slot") {
		solar.FirstSlot = flagFirstSlot
	}
	if flags.Changed("interval") {
		solar.SlotInterval = flagInterval
	}
	if flags.Changed("slots") {
		solar.Slots = flagSlots
	}
	if flags.Changed("min-altitude") {
		solar.MinAltitude = flagMinAltitude
	}
	cfg, err := solar.GeneratorConfig()
	if err != nil {
		return suntable.Config{}, err
	}
	return cfg, cfg.Validate()
}

func encode(w io.Writer, v any) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
