package visual

import (
	"encoding/json"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// =============================================================================
// Document Codec
// =============================================================================
//
// Encoding is total: every valid in-memory entity encodes without error.
// Decoding is strict: required fields must be present and every enumerated
// field must belong to its closed set. Enum sets evolve over time, so a
// document written by a newer (or corrupted) writer must fail with
// DECODE_INVALID_ENUM rather than coerce to a wrong default.
//
// Documents are indented for human readability, matching the observed
// on-disk format.

// EncodeFlowchart serializes a flowchart to its persisted JSON document.
// The derived per-node adjacency is recomputed from the authoritative
// connection list before writing, so the two representations can never be
// persisted out of sync.
func EncodeFlowchart(f *GrammarFlowchart) ([]byte, error) {
	f.RebuildAdjacency()
	return encode(f)
}

// DecodeFlowchart deserializes and validates a persisted flowchart document.
func DecodeFlowchart(data []byte) (*GrammarFlowchart, error) {
	var f GrammarFlowchart
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeMalformed, err, "malformed flowchart document")
	}
	if f.FlowchartID == "" || f.Language == "" || f.CreatedAt.IsZero() {
		return nil, errors.New(errors.ErrCodeDecodeMalformed, "flowchart document missing required fields")
	}
	if !f.Concept.Valid() {
		return nil, invalidEnum("concept", string(f.Concept))
	}
	for i := range f.Nodes {
		if f.Nodes[i].NodeID == "" {
			return nil, errors.New(errors.ErrCodeDecodeMalformed, "flowchart node missing node_id")
		}
		if !f.Nodes[i].NodeType.Valid() {
			return nil, invalidEnum("node_type", string(f.Nodes[i].NodeType))
		}
		f.Nodes[i].Examples = orEmpty(f.Nodes[i].Examples)
	}
	f.Connections = orEmptyConnections(f.Connections)
	f.LearningOutcomes = orEmpty(f.LearningOutcomes)
	if f.Nodes == nil {
		f.Nodes = []FlowchartNode{}
	}
	// Older documents predate the node_seq counter; seed it so future node
	// IDs stay unique.
	if f.NodeSeq < len(f.Nodes) {
		f.NodeSeq = len(f.Nodes)
	}
	f.RebuildAdjacency()
	return &f, nil
}

// EncodeVisualization serializes a progress visualization.
func EncodeVisualization(v *ProgressVisualization) ([]byte, error) {
	return encode(v)
}

// DecodeVisualization deserializes and validates a persisted visualization
// document.
func DecodeVisualization(data []byte) (*ProgressVisualization, error) {
	var v ProgressVisualization
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeMalformed, err, "malformed visualization document")
	}
	if v.VisualizationID == "" || v.UserID == "" || v.GeneratedAt.IsZero() {
		return nil, errors.New(errors.ErrCodeDecodeMalformed, "visualization document missing required fields")
	}
	if !v.VisualizationType.Valid() {
		return nil, invalidEnum("visualization_type", string(v.VisualizationType))
	}
	if v.DataPoints == nil {
		v.DataPoints = []map[string]any{}
	}
	v.ColorScheme = orEmpty(v.ColorScheme)
	return &v, nil
}

// EncodeVocabularyVisual serializes a vocabulary visual.
func EncodeVocabularyVisual(v *VocabularyVisual) ([]byte, error) {
	return encode(v)
}

// DecodeVocabularyVisual deserializes and validates a persisted vocabulary
// document.
func DecodeVocabularyVisual(data []byte) (*VocabularyVisual, error) {
	var v VocabularyVisual
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeMalformed, err, "malformed vocabulary document")
	}
	if v.VisualID == "" || v.Word == "" || v.Language == "" || v.CreatedAt.IsZero() {
		return nil, errors.New(errors.ErrCodeDecodeMalformed, "vocabulary document missing required fields")
	}
	if !v.VisualizationType.Valid() {
		return nil, invalidEnum("visualization_type", string(v.VisualizationType))
	}
	v.Images = orEmpty(v.Images)
	v.RelatedWords = orEmpty(v.RelatedWords)
	if v.ExampleSentences == nil {
		v.ExampleSentences = []ExampleSentence{}
	}
	return &v, nil
}

// EncodePronunciationGuide serializes a pronunciation guide.
func EncodePronunciationGuide(g *PronunciationGuide) ([]byte, error) {
	return encode(g)
}

// DecodePronunciationGuide deserializes and validates a persisted guide
// document.
func DecodePronunciationGuide(data []byte) (*PronunciationGuide, error) {
	var g PronunciationGuide
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeMalformed, err, "malformed pronunciation document")
	}
	if g.GuideID == "" || g.WordOrPhrase == "" || g.Language == "" || g.CreatedAt.IsZero() {
		return nil, errors.New(errors.ErrCodeDecodeMalformed, "pronunciation document missing required fields")
	}
	if g.Breakdown == nil {
		g.Breakdown = []Syllable{}
	}
	g.MouthPositions = orEmpty(g.MouthPositions)
	g.CommonMistakes = orEmpty(g.CommonMistakes)
	g.PracticeTips = orEmpty(g.PracticeTips)
	return &g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Unreachable for the entity types in this package; kept so a
		// future non-marshalable field cannot panic a caller.
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

func invalidEnum(field, value string) error {
	return errors.New(errors.ErrCodeDecodeEnum, "invalid enum value for %s: %q", field, value)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyConnections(c []Connection) []Connection {
	if c == nil {
		return []Connection{}
	}
	return c
}
