package experiments

import (
	"context"
	"fmt"

	"knights/experiments/metrics"
)

// RunThroughputExperiment measures how the parallel root split scales. Both
// seats use the same config so the games, and the work per move, are the same
// for every worker count.
func RunThroughputExperiment(ctx context.Context, root string, games int) (Results, error) {
	const depth = 8
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: depth, Workers: 1, Table: true, Pruning: true},
		{ID: 2, Depth: depth, Workers: 2, Table: true, Pruning: true},
		{ID: 3, Depth: depth, Workers: 4, Table: true, Pruning: true},
		{ID: 4, Depth: depth, Workers: 8, Table: true, Pruning: true},
	}
	matchUps := make([][2]metrics.AgentConfig, 0, len(configs))
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}

	writer, err := metrics.NewWriter(root, "throughput")
	if err != nil {
		return Results{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	return Run(ctx, writer, Experiment{
		Name:     "throughput",
		Rows:     Rows,
		Cols:     Cols,
		Games:    games,
		Configs:  configs,
		MatchUps: matchUps,
	})
}
