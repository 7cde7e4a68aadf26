package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"healthguard/internal/analysis"
	"healthguard/internal/gateway/app"
	"healthguard/internal/history"
	"healthguard/internal/types/wellness"
	"healthguard/internal/util/jsonutil"
)

// inputFlags binds the dashboard inputs to command-line flags.
type inputFlags struct {
	sensors wellness.SensorSnapshot
	ctx     wellness.UserContext
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	f.sensors = wellness.DefaultSensors()
	f.ctx = wellness.DefaultContext()

	fl := cmd.Flags()
	fl.IntVar(&f.sensors.HeartRate, "heart-rate", f.sensors.HeartRate, "Heart rate in bpm")
	fl.Float64Var(&f.sensors.Temperature, "temperature", f.sensors.Temperature, "Body temperature in °C")
	fl.IntVar(&f.sensors.Steps, "steps", f.sensors.Steps, "Steps today")
	fl.Float64Var(&f.sensors.SleepHours, "sleep", f.sensors.SleepHours, "Hours slept last night")
	fl.IntVar(&f.sensors.StressLevel, "stress", f.sensors.StressLevel, "Stress level 1-10")
	fl.IntVar(&f.sensors.BloodOxygen, "spo2", f.sensors.BloodOxygen, "Blood oxygen saturation in percent")
	fl.StringVar(&f.ctx.Symptoms, "symptoms", f.ctx.Symptoms, "Free-text symptoms")
	fl.StringVar(&f.ctx.Lifestyle, "lifestyle", f.ctx.Lifestyle, "Activity level")
	fl.StringVar(&f.ctx.Diet, "diet", f.ctx.Diet, "Diet habits")
}

func (f *inputFlags) values() (wellness.SensorSnapshot, wellness.UserContext, error) {
	if err := f.sensors.Validate(); err != nil {
		return wellness.SensorSnapshot{}, wellness.UserContext{}, err
	}
	c, err := f.ctx.Normalize()
	if err != nil {
		return wellness.SensorSnapshot{}, wellness.UserContext{}, err
	}
	return f.sensors, c, nil
}

func newAnalyzeCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one wellness analysis and print the report as JSON",
		Long: `Builds the analysis prompt from the given readings, makes exactly one
model call and prints the typed report. On failure the failure kind
(RequestFailed, EmptyResponse or ParseError) is reported and the exit
status is non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := in.values()
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := app.NewLLMClient(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer client.Close()

			a := analysis.New(client, analysis.WithTemperature(cfg.LLM.Temperature), analysis.WithLogger(log))
			res, err := a.Request(cmd.Context(), s, c)
			if err != nil {
				var aerr *analysis.Error
				if errors.As(err, &aerr) {
					return fmt.Errorf("analysis failed (%s): %w", aerr.Kind, err)
				}
				return err
			}
			return jsonutil.EncodeNoEscape(cmd.OutOrStdout(), res)
		},
	}
	in.bind(cmd)
	return cmd
}

func newPromptCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the analysis prompt for the given readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := in.values()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), analysis.BuildPrompt(s, c))
			return err
		},
	}
	in.bind(cmd)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		in   inputFlags
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a synthetic 12-hour heart rate and stress series as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := in.values()
			if err != nil {
				return err
			}
			var opts []history.Option
			if seed != 0 {
				opts = append(opts, history.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}
			return jsonutil.EncodeNoEscape(cmd.OutOrStdout(), history.New(opts...).Generate(s))
		},
	}
	in.bind(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible series (0 picks a random one)")
	return cmd
}
