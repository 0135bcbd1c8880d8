package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"knights/game"
	"knights/meta"
	"knights/searcher"
)

const (
	ModeShell      = "shell"
	ModeAIvsAI     = "ai-vs-ai"
	ModeHumanVsAI  = "human-vs-ai"
	ModeExperiment = "experiment"
)

type Config struct {
	Mode                string
	Rows                int
	Cols                int
	Depth               int
	Workers             int
	Table               bool
	Pruning             bool
	TableMemoryFraction float64
	Experiment          string
	Games               int
	ExperimentDir       string
	Seed                uint64
	Debug               bool
}

// Load reads flags from args, then KNIGHTS_* environment variables for
// anything not given on the command line.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("knights", pflag.ContinueOnError)
	fs.String("mode", ModeShell, "what to run: shell, ai-vs-ai, human-vs-ai or experiment")
	fs.Int("rows", meta.DefaultRows, "board rows")
	fs.Int("cols", meta.DefaultCols, "board columns")
	fs.Int("depth", meta.DefaultSearchDepth, "search depth in plies")
	fs.Int("workers", 1, "goroutines searching the top-level moves")
	fs.Bool("table", true, "use the transposition table")
	fs.Bool("pruning", true, "use alpha-beta pruning")
	fs.Float64("table-memory-fraction", searcher.DefaultTableMemoryFraction, "fraction of system memory for the transposition table")
	fs.String("experiment", "depth", "experiment to run: depth, table or throughput")
	fs.Int("games", 10, "games per experiment matchup")
	fs.String("experiment-dir", "./experiments/results", "directory for experiment results")
	fs.Uint64("seed", 0, "seed for random agents")
	fs.Bool("debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("knights")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	c.Mode = v.GetString("mode")
	c.Rows = v.GetInt("rows")
	c.Cols = v.GetInt("cols")
	c.Depth = v.GetInt("depth")
	c.Workers = v.GetInt("workers")
	c.Table = v.GetBool("table")
	c.Pruning = v.GetBool("pruning")
	c.TableMemoryFraction = v.GetFloat64("table-memory-fraction")
	c.Experiment = v.GetString("experiment")
	c.Games = v.GetInt("games")
	c.ExperimentDir = v.GetString("experiment-dir")
	c.Seed = v.GetUint64("seed")
	c.Debug = v.GetBool("debug")
	return c.validate()
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeShell, ModeAIvsAI, ModeHumanVsAI, ModeExperiment:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Rows < 1 || c.Cols < 1 || c.Rows > game.MaxDimension || c.Cols > game.MaxDimension {
		return fmt.Errorf("%w: %dx%d", game.ErrOutOfBoundsConfig, c.Rows, c.Cols)
	}
	if c.Depth < 0 {
		return fmt.Errorf("negative search depth %d", c.Depth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker, got %d", c.Workers)
	}
	if c.TableMemoryFraction <= 0 || c.TableMemoryFraction > 1 {
		return fmt.Errorf("table memory fraction %v not in (0, 1]", c.TableMemoryFraction)
	}
	if c.Mode == ModeExperiment {
		switch c.Experiment {
		case "depth", "table", "throughput":
		default:
			return fmt.Errorf("unknown experiment %q", c.Experiment)
		}
		if c.Games < 1 {
			return fmt.Errorf("need at least one game per matchup, got %d", c.Games)
		}
	}
	return nil
}

// SearchOptions turns the search settings into negamax options.
func (c *Config) SearchOptions() []searcher.Option {
	var options []searcher.Option
	if c.Table {
		options = append(options, searcher.WithTranspositionTable(searcher.NewTranspositionTable(c.TableMemoryFraction)))
	} else {
		options = append(options, searcher.WithoutTranspositionTable())
	}
	if !c.Pruning {
		options = append(options, searcher.WithoutPruning())
	}
	return append(options, searcher.WithWorkers(c.Workers))
}
