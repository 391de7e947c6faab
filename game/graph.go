package game

import (
	"io"

	"treesearch/searcher"
	"treesearch/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

// Graph is an explicit finite state graph. Successors keep insertion order so
// enumeration is deterministic; sampling draws uniformly from a seeded source.
type Graph struct {
	edges  map[string][]string
	scores map[string]float64
	rng    *rand.Rand
}

func NewGraph(seed uint64) *Graph {
	return &Graph{
		edges:  map[string][]string{},
		scores: map[string]float64{},
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// AddEdge links from to to. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) *Graph {
	if utils.FindIndex(g.edges[from], to) == -1 {
		g.edges[from] = append(g.edges[from], to)
	}
	return g
}

func (g *Graph) SetScore(name string, score float64) *Graph {
	g.scores[name] = score
	return g
}

func (g *Graph) State(name string) GraphState {
	return GraphState{Name: name, graph: g}
}

type graphFile struct {
	Root   string `yaml:"root"`
	States map[string]struct {
		Score float64  `yaml:"score"`
		Next  []string `yaml:"next"`
	} `yaml:"states"`
}

// LoadGraph decodes a YAML graph description:
//
//	root: A
//	states:
//	  A: {score: 0, next: [B]}
//	  B: {score: 5}
func LoadGraph(r io.Reader, seed uint64) (GraphState, error) {
	var file graphFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return GraphState{}, errors.Wrap(err, "decode graph")
	}
	if _, ok := file.States[file.Root]; !ok {
		return GraphState{}, errors.Errorf("root state %q is not defined", file.Root)
	}

	g := NewGraph(seed)
	for name, state := range file.States {
		g.SetScore(name, state.Score)
		for _, next := range state.Next {
			if _, ok := file.States[next]; !ok {
				return GraphState{}, errors.Errorf("state %q links to undefined state %q", name, next)
			}
			g.AddEdge(name, next)
		}
	}
	return g.State(file.Root), nil
}

// GraphState is one vertex of a Graph.
type GraphState struct {
	Name  string
	graph *Graph
}

func (s GraphState) Score() float64 {
	return s.graph.scores[s.Name]
}

func (s GraphState) NextStates() []searcher.State {
	edges := s.graph.edges[s.Name]
	next := make([]searcher.State, len(edges))
	for i, name := range edges {
		next[i] = s.graph.State(name)
	}
	return next
}

func (s GraphState) SampleNextState() searcher.State {
	edges := s.graph.edges[s.Name]
	if len(edges) == 0 {
		panic("cannot sample a successor of terminal state " + s.Name)
	}
	return s.graph.State(edges[s.graph.rng.Intn(len(edges))])
}

func (s GraphState) HasNextStates() bool {
	return len(s.graph.edges[s.Name]) > 0
}

func (s GraphState) String() string {
	return s.Name
}
