package rank

import (
	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
)

// Monitor provides hooks to observe the ranking pipeline.
// Implement this interface to track intermediate orderings during a query.
type Monitor interface {
	Start(query string)
	AfterRetrieve(mode artifact.IndexMode, candidates []Candidate)
	AfterBlend(candidates []Candidate)
	AfterLearnedRerank(applied bool, candidates []Candidate)
	AfterLLMRerank(applied bool, candidates []Candidate)
	Finish(results []core.Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                   {}
func (n *noopMonitor) AfterRetrieve(_ artifact.IndexMode, _ []Candidate) {}
func (n *noopMonitor) AfterBlend(_ []Candidate)                         {}
func (n *noopMonitor) AfterLearnedRerank(_ bool, _ []Candidate)         {}
func (n *noopMonitor) AfterLLMRerank(_ bool, _ []Candidate)             {}
func (n *noopMonitor) Finish(_ []core.Result)                           {}
