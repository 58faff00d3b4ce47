package visual

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// =============================================================================
// Identifier Generator
// =============================================================================
//
// IDs are human-readable and double as storage keys, so every component is
// sanitized for filesystem safety. The layout is
//
//	{kind}_{context...}_{timestamp}_{suffix}
//
// The second-resolution timestamp keeps IDs of the same kind and context
// lexicographically sortable by creation time; the random suffix makes
// collisions within the same second (or across processes) overwhelmingly
// unlikely. Generation never fails: unsafe input characters are sanitized,
// not rejected.

// idTimeLayout is the second-resolution timestamp embedded in IDs.
const idTimeLayout = "20060102150405"

// Entity kind prefixes. Scenario checks and external callers rely on these
// being stable.
const (
	kindFlowchart     = "flowchart"
	kindVisualization = "viz"
	kindVocabulary    = "vocab"
	kindPronunciation = "pronunciation"
)

// newID assembles an identifier from a kind prefix and sanitized context
// parts.
func newID(kind string, parts ...string) string {
	elems := make([]string, 0, len(parts)+3)
	elems = append(elems, kind)
	for _, p := range parts {
		elems = append(elems, errors.SanitizeIDComponent(p))
	}
	elems = append(elems, time.Now().UTC().Format(idTimeLayout))
	elems = append(elems, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return strings.Join(elems, "_")
}

// NewFlowchartID generates an ID for a grammar flowchart.
func NewFlowchartID(language string, concept GrammarConcept) string {
	return newID(kindFlowchart, language, string(concept))
}

// NewVisualizationID generates an ID for a progress visualization.
func NewVisualizationID(userID string, t VisualizationType) string {
	return newID(kindVisualization, userID, string(t))
}

// NewVocabularyID generates an ID for a vocabulary visual.
func NewVocabularyID(language, word string) string {
	return newID(kindVocabulary, language, word)
}

// NewGuideID generates an ID for a pronunciation guide.
func NewGuideID(language, wordOrPhrase string) string {
	return newID(kindPronunciation, language, wordOrPhrase)
}

// NodeID formats the ID for the n-th node allocated within a flowchart.
// Node IDs are sequential and scoped to their flowchart; the counter is
// monotonic so an ID is never reused even if earlier nodes are removed.
func NodeID(seq int) string {
	return fmt.Sprintf("node_%d", seq)
}
