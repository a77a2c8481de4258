package trellis

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// debugStats holds per-frame timing metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	flushTime    time.Duration
	traverseTime time.Duration
	submitTime   time.Duration
	commandCount int
	layerCount   int
}

// debugLog logs timing stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log().WithFields(logrus.Fields{
		"flush":    stats.flushTime,
		"traverse": stats.traverseTime,
		"submit":   stats.submitTime,
		"total":    stats.flushTime + stats.traverseTime + stats.submitTime,
		"commands": stats.commandCount,
		"layers":   stats.layerCount,
	}).Debug("frame")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when the scene is in debug mode.
func debugCheckDisposed(s *Scene, n *Node, op string) {
	if n.disposed {
		s.log().WithFields(nodeFields(n)).Error("use of disposed node")
		panic(fmt.Sprintf("trellis debug: %s on disposed node %q (ID was %s)", op, n.Name, n.ID))
	}
}

// debugMaxTreeDepth is the depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(s *Scene, n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.log().WithFields(nodeFields(n)).Warnf("tree depth %d exceeds %d", depth, debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(s *Scene, n *Node) {
	if len(n.children) > debugMaxChildCount {
		s.log().WithFields(nodeFields(n)).Warnf("%d children (threshold %d)", len(n.children), debugMaxChildCount)
	}
}

// countLayers returns the number of live layers across all sections.
func (s *Scene) countLayers() int {
	count := 0
	for _, sec := range s.sections {
		count += len(sec.layers)
	}
	return count
}
