// Package visual defines the entity types of the visual-learning content
// store and their persisted JSON representation.
//
// Four collections of learning artifacts are managed here:
//   - grammar flowcharts: a directed graph of instructional nodes
//   - progress visualizations: chart data owned by a user
//   - vocabulary visuals: per-word visual learning tools
//   - pronunciation guides: phonetic and articulation breakdowns
//
// The persisted format is one JSON document per entity. Enumerated fields
// are stored as their string value and re-validated on decode (see codec.go).
// Flowchart connections are the authoritative edge list; each node's
// next_nodes adjacency is derived from it, never maintained independently.
package visual

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// Timestamp - Timezone-Naive ISO-8601
// =============================================================================

// timeLayout is the persisted timestamp format. It is timezone-naive and
// unambiguous; fractional seconds are carried at microsecond precision.
const timeLayout = "2006-01-02T15:04:05.999999"

// Timestamp is a creation/generation instant persisted as a timezone-naive
// ISO-8601 string. Values are normalized to UTC at microsecond precision so
// a round trip through the codec reproduces the same instant.
type Timestamp struct {
	time.Time
}

// Now returns the current instant, normalized for persistence.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Microsecond)}
}

// NewTimestamp normalizes an arbitrary time for persistence.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Microsecond)}
}

// MarshalJSON encodes the timestamp as a timezone-naive ISO-8601 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timeLayout))
}

// UnmarshalJSON decodes a timezone-naive ISO-8601 string, with or without
// fractional seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{timeLayout, "2006-01-02T15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*t = Timestamp{parsed}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp: %q", s)
}

// =============================================================================
// Position - Layout Coordinate
// =============================================================================

// Position is a 2D integer coordinate used only for flowchart layout.
// It persists as a two-element array to match the observed document format.
type Position struct {
	X int
	Y int
}

// MarshalJSON encodes the position as [x, y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x, y] array.
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// =============================================================================
// Connection - Directed Flowchart Edge
// =============================================================================

// Connection is a directed edge between two flowchart nodes.
// It persists as a two-element ["from", "to"] array.
type Connection struct {
	From string
	To   string
}

// MarshalJSON encodes the connection as ["from", "to"].
func (c Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.From, c.To})
}

// UnmarshalJSON decodes a two-element ["from", "to"] array.
func (c *Connection) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid connection: %w", err)
	}
	c.From, c.To = pair[0], pair[1]
	return nil
}

// =============================================================================
// Grammar Flowcharts
// =============================================================================

// FlowchartNode is a single instructional step inside a grammar flowchart.
// Nodes are owned exclusively by their flowchart and have no independent
// lifecycle.
type FlowchartNode struct {
	NodeID      string         `json:"node_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	NodeType    NodeType       `json:"node_type"`
	Content     string         `json:"content"`
	Examples    []string       `json:"examples"`
	NextNodes   []string       `json:"next_nodes"` // derived out-adjacency, recomputed from Connections
	Position    Position       `json:"position"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// GrammarFlowchart is a directed graph of instructional nodes for one
// grammar concept. Connections is the authoritative edge list; the graph may
// legitimately contain cycles (flowcharts can loop back to earlier steps).
type GrammarFlowchart struct {
	FlowchartID      string          `json:"flowchart_id"`
	Concept          GrammarConcept  `json:"concept"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Language         string          `json:"language"`
	DifficultyLevel  int             `json:"difficulty_level"`
	Nodes            []FlowchartNode `json:"nodes"`
	Connections      []Connection    `json:"connections"`
	LearningOutcomes []string        `json:"learning_outcomes"`
	CreatedAt        Timestamp       `json:"created_at"`
	Metadata         map[string]any  `json:"metadata,omitempty"`

	// NodeSeq is a monotonic counter backing node ID allocation. It never
	// decreases, so a node ID is not reused even after node removal.
	NodeSeq int `json:"node_seq"`
}

// Node returns the node with the given ID, or nil if absent.
func (f *GrammarFlowchart) Node(nodeID string) *FlowchartNode {
	for i := range f.Nodes {
		if f.Nodes[i].NodeID == nodeID {
			return &f.Nodes[i]
		}
	}
	return nil
}

// HasConnection reports whether the exact (from, to) pair is present.
func (f *GrammarFlowchart) HasConnection(from, to string) bool {
	for _, c := range f.Connections {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// RebuildAdjacency recomputes every node's NextNodes from the authoritative
// connection list. Order follows the connection list; duplicates collapse.
func (f *GrammarFlowchart) RebuildAdjacency() {
	adjacency := make(map[string][]string, len(f.Nodes))
	for _, c := range f.Connections {
		targets := adjacency[c.From]
		seen := false
		for _, t := range targets {
			if t == c.To {
				seen = true
				break
			}
		}
		if !seen {
			adjacency[c.From] = append(targets, c.To)
		}
	}
	for i := range f.Nodes {
		next := adjacency[f.Nodes[i].NodeID]
		if next == nil {
			next = []string{}
		}
		f.Nodes[i].NextNodes = next
	}
}

// FlowchartSummary is the cheap listing projection of a flowchart.
// Listings never decode full node payloads into responses.
type FlowchartSummary struct {
	FlowchartID     string         `json:"flowchart_id"`
	Title           string         `json:"title"`
	Concept         GrammarConcept `json:"concept"`
	Language        string         `json:"language"`
	DifficultyLevel int            `json:"difficulty_level"`
	NodeCount       int            `json:"node_count"`
	CreatedAt       Timestamp      `json:"created_at"`
}

// =============================================================================
// Progress Visualizations
// =============================================================================

// DefaultColorScheme is applied when a visualization is created without an
// explicit palette.
var DefaultColorScheme = []string{"#6366f1", "#0891b2", "#f59e0b"}

// ProgressVisualization is chart data generated for one user. DataPoints
// are opaque records whose schema is caller-defined per visualization type.
type ProgressVisualization struct {
	VisualizationID   string            `json:"visualization_id"`
	UserID            string            `json:"user_id"`
	VisualizationType VisualizationType `json:"visualization_type"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	DataPoints        []map[string]any  `json:"data_points"`
	XAxisLabel        string            `json:"x_axis_label"`
	YAxisLabel        string            `json:"y_axis_label"`
	ColorScheme       []string          `json:"color_scheme"`
	GeneratedAt       Timestamp         `json:"generated_at"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
}

// =============================================================================
// Vocabulary Visuals
// =============================================================================

// ExampleSentence is a bilingual sentence pair attached to a vocabulary
// visual.
type ExampleSentence struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

// VocabularyVisual is a visual learning tool for a single word.
type VocabularyVisual struct {
	VisualID          string            `json:"visual_id"`
	Word              string            `json:"word"`
	Language          string            `json:"language"`
	Translation       string            `json:"translation"`
	VisualizationType VocabularyVizType `json:"visualization_type"`
	VisualData        map[string]any    `json:"visual_data,omitempty"`
	Phonetic          string            `json:"phonetic,omitempty"`
	AudioURL          string            `json:"audio_url,omitempty"`
	Images            []string          `json:"images"`
	ExampleSentences  []ExampleSentence `json:"example_sentences"`
	RelatedWords      []string          `json:"related_words"`
	DifficultyLevel   int               `json:"difficulty_level"`
	CreatedAt         Timestamp         `json:"created_at"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
}

// =============================================================================
// Pronunciation Guides
// =============================================================================

// Syllable is one entry of a pronunciation breakdown.
type Syllable struct {
	Syllable string `json:"syllable"`
	Sound    string `json:"sound"`
	Tip      string `json:"tip"`
}

// PronunciationGuide is an interactive pronunciation aid for a word or
// phrase.
type PronunciationGuide struct {
	GuideID          string         `json:"guide_id"`
	WordOrPhrase     string         `json:"word_or_phrase"`
	Language         string         `json:"language"`
	PhoneticSpelling string         `json:"phonetic_spelling"`
	IPANotation      string         `json:"ipa_notation"`
	AudioURL         string         `json:"audio_url,omitempty"`
	Breakdown        []Syllable     `json:"breakdown"`
	MouthPositions   []string       `json:"visual_mouth_positions"`
	CommonMistakes   []string       `json:"common_mistakes"`
	PracticeTips     []string       `json:"practice_tips"`
	DifficultyLevel  int            `json:"difficulty_level"`
	CreatedAt        Timestamp      `json:"created_at"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}
