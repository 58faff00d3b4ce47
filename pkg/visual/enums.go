package visual

import "github.com/linguaviz/linguaviz/pkg/errors"

// =============================================================================
// Closed Enum Sets
// =============================================================================
//
// Every enumerated field is persisted as its string value (never an integer
// code) so documents stay human-readable and forward-compatible. Decoding
// re-validates against the closed set: a stale or corrupt document must fail
// loudly instead of silently coercing to a wrong default.

// VisualizationType classifies progress visualizations.
type VisualizationType string

// Progress visualization types.
const (
	VizFlowchart      VisualizationType = "flowchart"
	VizBarChart       VisualizationType = "bar_chart"
	VizLineChart      VisualizationType = "line_chart"
	VizPieChart       VisualizationType = "pie_chart"
	VizProgressBar    VisualizationType = "progress_bar"
	VizHeatmap        VisualizationType = "heatmap"
	VizNetworkDiagram VisualizationType = "network_diagram"
	VizTimeline       VisualizationType = "timeline"
)

// Valid reports whether t is a member of the closed set.
func (t VisualizationType) Valid() bool {
	switch t {
	case VizFlowchart, VizBarChart, VizLineChart, VizPieChart,
		VizProgressBar, VizHeatmap, VizNetworkDiagram, VizTimeline:
		return true
	}
	return false
}

// GrammarConcept categorizes grammar flowcharts.
type GrammarConcept string

// Grammar concept categories.
const (
	ConceptVerbConjugation    GrammarConcept = "verb_conjugation"
	ConceptSentenceStructure  GrammarConcept = "sentence_structure"
	ConceptTenseUsage         GrammarConcept = "tense_usage"
	ConceptConditionalForms   GrammarConcept = "conditional_forms"
	ConceptPronounUsage       GrammarConcept = "pronoun_usage"
	ConceptArticleRules       GrammarConcept = "article_rules"
	ConceptPrepositions       GrammarConcept = "prepositions"
	ConceptAdjectiveAgreement GrammarConcept = "adjective_agreement"
)

// Valid reports whether c is a member of the closed set.
func (c GrammarConcept) Valid() bool {
	switch c {
	case ConceptVerbConjugation, ConceptSentenceStructure, ConceptTenseUsage,
		ConceptConditionalForms, ConceptPronounUsage, ConceptArticleRules,
		ConceptPrepositions, ConceptAdjectiveAgreement:
		return true
	}
	return false
}

// NodeType classifies nodes within a grammar flowchart.
type NodeType string

// Flowchart node types.
const (
	NodeStart    NodeType = "start"
	NodeDecision NodeType = "decision"
	NodeProcess  NodeType = "process"
	NodeEnd      NodeType = "end"
	NodeExample  NodeType = "example"
)

// Valid reports whether t is a member of the closed set.
func (t NodeType) Valid() bool {
	switch t {
	case NodeStart, NodeDecision, NodeProcess, NodeEnd, NodeExample:
		return true
	}
	return false
}

// VocabularyVizType classifies vocabulary visuals.
type VocabularyVizType string

// Vocabulary visualization types.
const (
	VocabWordCloud          VocabularyVizType = "word_cloud"
	VocabSemanticMap        VocabularyVizType = "semantic_map"
	VocabEtymologyTree      VocabularyVizType = "etymology_tree"
	VocabFrequencyChart     VocabularyVizType = "frequency_chart"
	VocabContextExamples    VocabularyVizType = "context_examples"
	VocabAssociationNetwork VocabularyVizType = "association_network"
)

// Valid reports whether t is a member of the closed set.
func (t VocabularyVizType) Valid() bool {
	switch t {
	case VocabWordCloud, VocabSemanticMap, VocabEtymologyTree,
		VocabFrequencyChart, VocabContextExamples, VocabAssociationNetwork:
		return true
	}
	return false
}

// =============================================================================
// Parse Helpers
// =============================================================================
//
// Parse* convert caller-supplied strings into enum members, returning
// INVALID_ARGUMENT for unknown values. The codec performs the same membership
// check on decode but classifies failures as DECODE_INVALID_ENUM instead,
// since a bad persisted value is a data problem, not a caller problem.

// ParseVisualizationType parses a caller-supplied visualization type.
func ParseVisualizationType(s string) (VisualizationType, error) {
	t := VisualizationType(s)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidArgument, "unknown visualization type: %q", s)
	}
	return t, nil
}

// ParseGrammarConcept parses a caller-supplied grammar concept.
func ParseGrammarConcept(s string) (GrammarConcept, error) {
	c := GrammarConcept(s)
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidConcept, "unknown grammar concept: %q", s)
	}
	return c, nil
}

// ParseNodeType parses a caller-supplied flowchart node type.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", s)
	}
	return t, nil
}

// ParseVocabularyVizType parses a caller-supplied vocabulary visualization type.
func ParseVocabularyVizType(s string) (VocabularyVizType, error) {
	t := VocabularyVizType(s)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidArgument, "unknown vocabulary visualization type: %q", s)
	}
	return t, nil
}
