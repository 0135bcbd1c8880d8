package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth      int
	Workers    int
	Duration   time.Duration
	Nodes      int64
	Cutoffs    int64
	TableHits  int64
	TableProbe int64
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int // Player ID
	Winner         int // Player ID
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector counts search work. Implementations must be safe for concurrent
// use since parallel searches share one.
type Collector interface {
	Start(depth, workers int)
	AddNode()
	AddCutoff()
	AddTableProbe(hit bool)
	Complete() SearchMetric
}

type collector struct {
	depth      int
	workers    int
	startTime  time.Time
	nodes      atomic.Int64
	cutoffs    atomic.Int64
	tableHits  atomic.Int64
	tableProbe atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth, workers int) {
	m.startTime = time.Now()
	m.depth = depth
	m.workers = workers
	m.nodes.Store(0)
	m.cutoffs.Store(0)
	m.tableHits.Store(0)
	m.tableProbe.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddTableProbe(hit bool) {
	m.tableProbe.Add(1)
	if hit {
		m.tableHits.Add(1)
	}
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:      m.depth,
		Workers:    m.workers,
		Duration:   time.Since(m.startTime),
		Nodes:      m.nodes.Load(),
		Cutoffs:    m.cutoffs.Load(),
		TableHits:  m.tableHits.Load(),
		TableProbe: m.tableProbe.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, workers int) {}
func (m *dummyCollector) AddNode()                 {}
func (m *dummyCollector) AddCutoff()               {}
func (m *dummyCollector) AddTableProbe(hit bool)   {}
func (m *dummyCollector) Complete() SearchMetric   { return SearchMetric{} }
