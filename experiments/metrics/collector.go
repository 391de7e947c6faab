package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int
	Cutoff       int
	Strategy     string
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Nodes        int
}

type MoveMetric struct {
	Step  int
	Score float64 // Score of the state chosen at this step
	SearchMetric
}

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	FinalScore float64
}

type Collector interface {
	Start(iterations, cutoff int, strategy string)
	AddEpisode()
	AddFullPlayout()
	AddNodes(n int)
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	cutoff       int
	strategy     string
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters, so one collector can follow consecutive searches.
func (m *collector) Start(iterations, cutoff int, strategy string) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.cutoff = cutoff
	m.strategy = strategy
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int32(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Cutoff:       m.cutoff,
		Strategy:     m.strategy,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        int(m.nodes.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations, cutoff int, strategy string) {}
func (m *dummyCollector) AddEpisode()                                   {}
func (m *dummyCollector) AddFullPlayout()                               {}
func (m *dummyCollector) AddNodes(n int)                                {}
func (m *dummyCollector) Complete() SearchMetric                        { return SearchMetric{} }
