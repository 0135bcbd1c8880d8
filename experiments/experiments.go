package experiments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"knights/agent"
	"knights/engine"
	"knights/experiments/metrics"
	"knights/searcher"
)

const (
	NumGames = 10 // Per match up
	Rows     = 8
	Cols     = 8
)

// Experiment describes a batch of AI vs AI games. Every matchup is played
// Games times, and the agents swap seats after each game.
type Experiment struct {
	Name          string
	Rows, Cols    int
	Games         int
	Parallel      int // games played at the same time
	TableFraction float64
	Configs       []metrics.AgentConfig
	MatchUps      [][2]metrics.AgentConfig
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// RunDepthExperiment pits deeper searches against a shallow baseline.
func RunDepthExperiment(ctx context.Context, root string, games int) (Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Depth: 2, Workers: 1, Table: true, Pruning: true}
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: 4, Workers: 1, Table: true, Pruning: true},
		{ID: 2, Depth: 6, Workers: 1, Table: true, Pruning: true},
		{ID: 3, Depth: 8, Workers: 1, Table: true, Pruning: true},
	}
	return runAgainst(ctx, root, "depth", games, baseline, configs)
}

// RunTableExperiment plays equal depths with and without the transposition
// table. The games should be identical, only faster with the table.
func RunTableExperiment(ctx context.Context, root string, games int) (Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Depth: 6, Workers: 1, Table: false, Pruning: true}
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: 6, Workers: 1, Table: true, Pruning: true},
		{ID: 2, Depth: 6, Workers: 1, Table: true, Pruning: false},
	}
	return runAgainst(ctx, root, "transposition_table", games, baseline, configs)
}

// Each matchup pairs the baseline against one config
func runAgainst(ctx context.Context, root, name string, games int, baseline metrics.AgentConfig, configs []metrics.AgentConfig) (Results, error) {
	matchUps := make([][2]metrics.AgentConfig, 0, len(configs))
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return Results{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	return Run(ctx, writer, Experiment{
		Name:     name,
		Rows:     Rows,
		Cols:     Cols,
		Games:    games,
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
	})
}

// Run plays every game of e and stores the configs and records with w.
func Run(ctx context.Context, w *metrics.Writer, e Experiment) (Results, error) {
	if e.Games <= 0 {
		e.Games = NumGames
	}
	if e.Parallel <= 0 {
		e.Parallel = 1
	}
	if e.TableFraction <= 0 {
		e.TableFraction = searcher.DefaultTableMemoryFraction
	}

	log.Info().Msgf("starting %s experiment...", e.Name)

	var (
		mu      sync.Mutex
		results Results
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Parallel)

	for mi, matchup := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), matchup[0], matchup[1])

		for i := 0; i < e.Games; i++ {
			id := mi*e.Games + i + 1
			first, second := matchup[0], matchup[1]
			if i%2 == 1 {
				first, second = second, first
			}

			g.Go(func() error {
				outcome, err := runGame(ctx, e, id, first, second)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(e.MatchUps), i+1, outcome.Winner)

				mu.Lock()
				defer mu.Unlock()
				results.Games = append(results.Games, metrics.GameRecord{
					ID:         id,
					Agent1:     first.ID,
					Agent2:     second.ID,
					GameMetric: outcome.Game,
				})
				for _, mm := range outcome.Moves {
					results.Moves = append(results.Moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	sort.SliceStable(results.Games, func(i, j int) bool {
		return results.Games[i].ID < results.Games[j].ID
	})
	sort.SliceStable(results.Moves, func(i, j int) bool {
		if results.Moves[i].Game != results.Moves[j].Game {
			return results.Moves[i].Game < results.Moves[j].Game
		}
		return results.Moves[i].Step < results.Moves[j].Step
	})

	log.Info().Msgf("completed %s experiment", e.Name)

	if err := w.WriteAgentConfigs(e.Configs); err != nil {
		return Results{}, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := w.WriteGameRecords(results.Games); err != nil {
		return Results{}, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := w.WriteMoveRecords(results.Moves); err != nil {
		return Results{}, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", w.Dir())

	return results, nil
}

// runGame plays a single game. first moves first.
func runGame(ctx context.Context, e Experiment, id int, first, second metrics.AgentConfig) (engine.Outcome, error) {
	agents := []agent.Agent{
		createAgent(first, e.TableFraction, uint64(id)),
		createAgent(second, e.TableFraction, uint64(id)),
	}
	eng, err := engine.LocalEngine(e.Rows, e.Cols, agents)
	if err != nil {
		return engine.Outcome{}, err
	}
	return eng.Run(ctx)
}

func createAgent(config metrics.AgentConfig, tableFraction float64, game uint64) agent.Agent {
	if config.Random {
		return agent.NewRandomAgent(config.Seed + game)
	}

	options := []searcher.Option{searcher.WithMetrics()}
	if config.Table {
		options = append(options, searcher.WithTranspositionTable(searcher.NewTranspositionTable(tableFraction)))
	} else {
		options = append(options, searcher.WithoutTranspositionTable())
	}
	if !config.Pruning {
		options = append(options, searcher.WithoutPruning())
	}
	if config.Workers > 1 {
		options = append(options, searcher.WithWorkers(config.Workers))
	}
	return agent.NewSearchAgent(searcher.NewNegamax(options...), searcher.Config{Depth: config.Depth})
}
