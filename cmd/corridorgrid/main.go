// Command corridorgrid lists, runs, benchmarks and manually controls the
// corridor environments
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/corridorgrid/environment/envconfig"
	"github.com/samuelfneumann/corridorgrid/experiment"
	"github.com/samuelfneumann/corridorgrid/experiment/trackers"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"github.com/samuelfneumann/corridorgrid/utils/progressbar"
	"github.com/spf13/cobra"
)

const (
	envVar  = "CORRIDORGRID_ENV"
	seedVar = "CORRIDORGRID_SEED"

	defaultEnv = envconfig.SmallCorridor
)

// options are the flags shared by all commands
type options struct {
	envID        string
	seed         uint64
	registryFile string
}

func main() {
	for _, envFile := range []string{
		".env",
		"../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "corridorgrid",
		Short:        "Corridorgrid runs the special state and door corridor environments.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envID, "env-id", envDefault(),
		"environment to load")
	rootCmd.PersistentFlags().Uint64Var(&opts.seed, "seed", seedDefault(),
		"random seed to generate the environment with")
	rootCmd.PersistentFlags().StringVar(&opts.registryFile, "registry", "",
		"JSON file of environment configurations to use instead of the "+
			"built in environments")

	rootCmd.AddCommand(
		listCmd(opts),
		runCmd(opts),
		benchmarkCmd(opts),
		playCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func envDefault() string {
	if id := os.Getenv(envVar); id != "" {
		return id
	}
	return defaultEnv
}

func seedDefault() uint64 {
	value := os.Getenv(seedVar)
	if value == "" {
		return 0
	}

	seed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Printf("ignoring %v=%q: %v", seedVar, value, err)
		return 0
	}
	return seed
}

// registry returns the registry selected by the flags
func (o *options) registry() (*envconfig.Registry, error) {
	if o.registryFile == "" {
		return envconfig.Default(), nil
	}
	return envconfig.Load(o.registryFile)
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered environments and their configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}

			for _, id := range r.IDs() {
				c, err := r.Config(id)
				if err != nil {
					return err
				}
				data, err := json.Marshal(c)
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14v %s\n", id, data)
			}
			return nil
		},
	}
}

func runCmd(opts *options) *cobra.Command {
	var (
		steps      uint
		selector   string
		action     int
		actions    string
		configFile string
		returnFile string
		lengthFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an online experiment with a fixed, sequence or uniform selector",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}

			config := experiment.Config{
				Type:     experiment.OnlineExp,
				MaxSteps: steps,
				EnvID:    opts.envID,
				Selector: experiment.SelectorConfig{
					Type:   experiment.SelectorType(selector),
					Action: action,
				},
			}
			if actions != "" {
				config.Selector.Actions, err = parseActions(actions)
				if err != nil {
					return err
				}
			}
			if configFile != "" {
				if config, err = loadExperiment(configFile); err != nil {
					return err
				}
			}

			ret := trackers.NewReturn(returnFile)
			length := trackers.NewEpisodeLength(lengthFile)
			saved, err := outputs(
				output{returnFile, ret},
				output{lengthFile, length},
			)
			if err != nil {
				return err
			}
			bar := progressbar.NewProgressBar(cmd.ErrOrStderr(), 40,
				int(config.MaxSteps), 250*time.Millisecond)

			exp, err := config.CreateExp(r, opts.seed, ret, length,
				progress{bar})
			if err != nil {
				return err
			}

			bar.Display()
			err = exp.Run()
			bar.Close()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "return         %v\n", trackers.Summarize(ret.Data()))
			fmt.Fprintf(out, "episode length %v\n",
				trackers.Summarize(length.Data()))

			for _, o := range saved {
				if err := o.tracker.Save(); err != nil {
					return err
				}
				log.Printf("saved %v", o.file)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.UintVar(&steps, "steps", 10_000, "number of timesteps to run")
	flags.StringVar(&selector, "selector", string(experiment.UniformSelector),
		"action selector: fixed, sequence or uniform")
	flags.IntVar(&action, "action", 0, "action of the fixed selector")
	flags.StringVar(&actions, "actions", "",
		"comma separated actions of the sequence selector")
	flags.StringVar(&configFile, "config", "",
		"JSON experiment configuration, overriding the other run flags")
	flags.StringVar(&returnFile, "return-file", "",
		"file to save episodic returns to")
	flags.StringVar(&lengthFile, "length-file", "",
		"file to save episode lengths to")

	return cmd
}

// output is a tracker saved to file after an experiment
type output struct {
	file    string
	tracker trackers.Tracker
}

// outputs returns the outputs that have a file to save to, in order.
// Two trackers cannot share a file.
func outputs(all ...output) ([]output, error) {
	var saved []output
	seen := make(map[string]bool)
	for _, o := range all {
		if o.file == "" {
			continue
		}
		if seen[o.file] {
			return nil, fmt.Errorf("outputs: more than one tracker saves to %v",
				o.file)
		}
		seen[o.file] = true
		saved = append(saved, o)
	}
	return saved, nil
}

func benchmarkCmd(opts *options) *cobra.Command {
	var resets, frames int

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Time resets, renders and steps of an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}
			e, _, err := r.Make(opts.envID, opts.seed)
			if err != nil {
				return err
			}

			log.Printf("benchmarking %v...", opts.envID)
			result, err := experiment.Benchmark(e, resets, frames)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Env ID        : %v\n%v\n",
				opts.envID, result)
			return nil
		},
	}

	cmd.Flags().IntVar(&resets, "num-resets", 200,
		"number of times to reset the environment for benchmarking")
	cmd.Flags().IntVar(&frames, "num-frames", 100,
		"number of frames to test rendering and stepping for")

	return cmd
}

// parseActions parses a comma separated list of actions
func parseActions(s string) ([]int, error) {
	var actions []int
	for _, field := range strings.Split(s, ",") {
		a, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("parseActions: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// loadExperiment reads a JSON experiment configuration
func loadExperiment(path string) (experiment.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %w", err)
	}

	var c experiment.Config
	if err := json.Unmarshal(data, &c); err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment %v: %w", path,
			err)
	}
	return c, nil
}

// progress advances a progress bar on every step of an experiment
type progress struct {
	*progressbar.ProgressBar
}

func (p progress) Track(t ts.TimeStep) {
	if !t.First() {
		p.Increment()
	}
}

func (p progress) Save() error     { return nil }
func (p progress) Data() []float64 { return nil }
