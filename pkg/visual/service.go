package visual

import (
	"context"
	"hash/fnv"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/linguaviz/linguaviz/pkg/errors"
	"github.com/linguaviz/linguaviz/pkg/observability"
	"github.com/linguaviz/linguaviz/pkg/storage"
)

// =============================================================================
// Service - Content Store Facade
// =============================================================================

// lockStripes is the number of mutexes the per-ID write locks hash into.
const lockStripes = 64

// Service is the public entry point of the visual-learning content store.
// It composes the four collections over one storage backend and owns the
// flowchart graph invariants.
//
// Construct a single Service per process and inject it into whatever owns
// the request lifecycle. Construction eagerly creates the four collection
// locations, so every later write finds its keyspace in place.
//
// Mutating operations against the same entity ID are serialized through a
// striped lock, making add-node/connect sequences linearizable per
// flowchart. Reads never take the lock: backends guarantee readers only
// observe fully written documents.
type Service struct {
	backend storage.Backend
	logger  *log.Logger
	locks   [lockStripes]sync.Mutex
}

// NewService creates the content store facade over the given backend.
// A nil logger disables logging.
func NewService(ctx context.Context, backend storage.Backend, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := backend.Ensure(ctx, storage.Collections()...); err != nil {
		return nil, err
	}
	return &Service{backend: backend, logger: logger}, nil
}

// lock returns the stripe serializing writes for the given entity ID.
func (s *Service) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

// =============================================================================
// Grammar Flowcharts
// =============================================================================

// CreateFlowchartInput carries the caller-supplied fields for a new
// flowchart.
type CreateFlowchartInput struct {
	Concept          GrammarConcept
	Title            string
	Description      string
	Language         string
	DifficultyLevel  int
	LearningOutcomes []string
}

// CreateFlowchart allocates an ID, persists an empty flowchart, and returns
// it. The concept must belong to the closed set; the difficulty level is
// accepted as-is (callers are trusted on range).
func (s *Service) CreateFlowchart(ctx context.Context, in CreateFlowchartInput) (*GrammarFlowchart, error) {
	if !in.Concept.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConcept, "unknown grammar concept: %q", in.Concept)
	}
	if in.Language == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "language is required")
	}

	f := &GrammarFlowchart{
		FlowchartID:      NewFlowchartID(in.Language, in.Concept),
		Concept:          in.Concept,
		Title:            in.Title,
		Description:      in.Description,
		Language:         in.Language,
		DifficultyLevel:  in.DifficultyLevel,
		Nodes:            []FlowchartNode{},
		Connections:      []Connection{},
		LearningOutcomes: orEmpty(in.LearningOutcomes),
		CreatedAt:        Now(),
		Metadata:         map[string]any{"version": "1.0"},
	}

	if err := s.saveFlowchart(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("created grammar flowchart", "id", f.FlowchartID, "concept", f.Concept, "language", f.Language)
	return f, nil
}

// AddNodeInput carries the caller-supplied fields for a new flowchart node.
type AddNodeInput struct {
	Title       string
	Description string
	NodeType    NodeType
	Content     string
	Examples    []string
	Position    Position
}

// AddNode appends a node to an existing flowchart and persists the whole
// document. Node IDs are sequential within the flowchart and never reused.
func (s *Service) AddNode(ctx context.Context, flowchartID string, in AddNodeInput) (*FlowchartNode, error) {
	if !in.NodeType.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", in.NodeType)
	}

	mu := s.lock(flowchartID)
	mu.Lock()
	defer mu.Unlock()

	f, err := s.getFlowchart(ctx, flowchartID)
	if err != nil {
		return nil, err
	}

	f.NodeSeq++
	node := FlowchartNode{
		NodeID:      NodeID(f.NodeSeq),
		Title:       in.Title,
		Description: in.Description,
		NodeType:    in.NodeType,
		Content:     in.Content,
		Examples:    orEmpty(in.Examples),
		NextNodes:   []string{},
		Position:    in.Position,
	}
	f.Nodes = append(f.Nodes, node)

	if err := s.saveFlowchart(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Debug("added flowchart node", "flowchart", flowchartID, "node", node.NodeID)
	return &node, nil
}

// Connect adds a directed edge between two existing nodes. Connecting is
// idempotent: if the exact (from, to) pair is already present, Connect
// returns false and changes nothing. Both endpoints must exist among the
// flowchart's nodes; a dangling reference is an INVALID_ARGUMENT, not a
// silent forward declaration.
func (s *Service) Connect(ctx context.Context, flowchartID, fromNodeID, toNodeID string) (bool, error) {
	mu := s.lock(flowchartID)
	mu.Lock()
	defer mu.Unlock()

	f, err := s.getFlowchart(ctx, flowchartID)
	if err != nil {
		return false, err
	}

	if f.Node(fromNodeID) == nil {
		return false, errors.New(errors.ErrCodeInvalidArgument, "source node not in flowchart: %s", fromNodeID)
	}
	if f.Node(toNodeID) == nil {
		return false, errors.New(errors.ErrCodeInvalidArgument, "target node not in flowchart: %s", toNodeID)
	}

	if f.HasConnection(fromNodeID, toNodeID) {
		return false, nil
	}

	f.Connections = append(f.Connections, Connection{From: fromNodeID, To: toNodeID})

	if err := s.saveFlowchart(ctx, f); err != nil {
		return false, err
	}
	s.logger.Debug("connected flowchart nodes", "flowchart", flowchartID, "from", fromNodeID, "to", toNodeID)
	return true, nil
}

// GetFlowchart retrieves a flowchart by ID. The returned flowchart's
// per-node adjacency is freshly derived from its connection list.
func (s *Service) GetFlowchart(ctx context.Context, flowchartID string) (*GrammarFlowchart, error) {
	return s.getFlowchart(ctx, flowchartID)
}

// FlowchartFilter restricts ListFlowcharts. Zero-valued fields match
// everything; set fields are AND-combined exact matches.
type FlowchartFilter struct {
	Language string
	Concept  GrammarConcept
}

// ListFlowcharts returns summaries of all flowcharts matching the filter,
// sorted by ID (which orders same-context flowcharts by creation time).
// Documents that fail to decode are skipped and logged, never fatal: one
// corrupt artifact must not hide all others.
func (s *Service) ListFlowcharts(ctx context.Context, filter FlowchartFilter) ([]FlowchartSummary, error) {
	var out []FlowchartSummary
	err := s.backend.Scan(ctx, storage.CollectionFlowcharts, func(id string, data []byte) error {
		f, err := DecodeFlowchart(data)
		if err != nil {
			s.logScanSkip(ctx, storage.CollectionFlowcharts, id, err)
			return nil
		}
		if filter.Language != "" && f.Language != filter.Language {
			return nil
		}
		if filter.Concept != "" && f.Concept != filter.Concept {
			return nil
		}
		out = append(out, FlowchartSummary{
			FlowchartID:     f.FlowchartID,
			Title:           f.Title,
			Concept:         f.Concept,
			Language:        f.Language,
			DifficultyLevel: f.DifficultyLevel,
			NodeCount:       len(f.Nodes),
			CreatedAt:       f.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlowchartID < out[j].FlowchartID })
	return out, nil
}

// DeleteFlowchart removes a flowchart document.
func (s *Service) DeleteFlowchart(ctx context.Context, flowchartID string) error {
	mu := s.lock(flowchartID)
	mu.Lock()
	defer mu.Unlock()
	return s.remove(ctx, storage.CollectionFlowcharts, flowchartID)
}

func (s *Service) getFlowchart(ctx context.Context, flowchartID string) (*GrammarFlowchart, error) {
	data, err := s.get(ctx, storage.CollectionFlowcharts, flowchartID)
	if err != nil {
		return nil, err
	}
	return DecodeFlowchart(data)
}

func (s *Service) saveFlowchart(ctx context.Context, f *GrammarFlowchart) error {
	data, err := EncodeFlowchart(f)
	if err != nil {
		return err
	}
	return s.put(ctx, storage.CollectionFlowcharts, f.FlowchartID, data)
}

// =============================================================================
// Progress Visualizations
// =============================================================================

// CreateVisualizationInput carries the caller-supplied fields for a new
// progress visualization.
type CreateVisualizationInput struct {
	UserID            string
	VisualizationType VisualizationType
	Title             string
	Description       string
	DataPoints        []map[string]any
	XAxisLabel        string
	YAxisLabel        string
	ColorScheme       []string
}

// CreateVisualization persists a new progress visualization for a user.
// An omitted color scheme falls back to the default palette.
func (s *Service) CreateVisualization(ctx context.Context, in CreateVisualizationInput) (*ProgressVisualization, error) {
	if in.UserID == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "user_id is required")
	}
	if !in.VisualizationType.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown visualization type: %q", in.VisualizationType)
	}

	colors := in.ColorScheme
	if len(colors) == 0 {
		colors = append([]string{}, DefaultColorScheme...)
	}
	dataPoints := in.DataPoints
	if dataPoints == nil {
		dataPoints = []map[string]any{}
	}

	v := &ProgressVisualization{
		VisualizationID:   NewVisualizationID(in.UserID, in.VisualizationType),
		UserID:            in.UserID,
		VisualizationType: in.VisualizationType,
		Title:             in.Title,
		Description:       in.Description,
		DataPoints:        dataPoints,
		XAxisLabel:        in.XAxisLabel,
		YAxisLabel:        in.YAxisLabel,
		ColorScheme:       colors,
		GeneratedAt:       Now(),
	}

	data, err := EncodeVisualization(v)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, storage.CollectionVisualizations, v.VisualizationID, data); err != nil {
		return nil, err
	}
	s.logger.Info("created progress visualization", "id", v.VisualizationID, "user", v.UserID)
	return v, nil
}

// VisualizationFilter restricts ListVisualizations. Zero-valued fields
// match everything; set fields are AND-combined exact matches.
type VisualizationFilter struct {
	UserID            string
	VisualizationType VisualizationType
}

// ListVisualizations returns all visualizations matching the filter, sorted
// by ID. Undecodable documents are skipped and logged.
func (s *Service) ListVisualizations(ctx context.Context, filter VisualizationFilter) ([]ProgressVisualization, error) {
	var out []ProgressVisualization
	err := s.backend.Scan(ctx, storage.CollectionVisualizations, func(id string, data []byte) error {
		v, err := DecodeVisualization(data)
		if err != nil {
			s.logScanSkip(ctx, storage.CollectionVisualizations, id, err)
			return nil
		}
		if filter.UserID != "" && v.UserID != filter.UserID {
			return nil
		}
		if filter.VisualizationType != "" && v.VisualizationType != filter.VisualizationType {
			return nil
		}
		out = append(out, *v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisualizationID < out[j].VisualizationID })
	return out, nil
}

// DeleteVisualization removes a visualization document.
func (s *Service) DeleteVisualization(ctx context.Context, visualizationID string) error {
	mu := s.lock(visualizationID)
	mu.Lock()
	defer mu.Unlock()
	return s.remove(ctx, storage.CollectionVisualizations, visualizationID)
}

// =============================================================================
// Vocabulary Visuals
// =============================================================================

// CreateVocabularyVisualInput carries the caller-supplied fields for a new
// vocabulary visual.
type CreateVocabularyVisualInput struct {
	Word              string
	Language          string
	Translation       string
	VisualizationType VocabularyVizType
	Phonetic          string
	AudioURL          string
	Images            []string
	ExampleSentences  []ExampleSentence
	RelatedWords      []string
	DifficultyLevel   int
}

// CreateVocabularyVisual persists a new vocabulary visual.
// An omitted difficulty level defaults to 1.
func (s *Service) CreateVocabularyVisual(ctx context.Context, in CreateVocabularyVisualInput) (*VocabularyVisual, error) {
	if in.Word == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "word is required")
	}
	if in.Language == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "language is required")
	}
	if !in.VisualizationType.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown vocabulary visualization type: %q", in.VisualizationType)
	}

	difficulty := in.DifficultyLevel
	if difficulty == 0 {
		difficulty = 1
	}
	sentences := in.ExampleSentences
	if sentences == nil {
		sentences = []ExampleSentence{}
	}

	v := &VocabularyVisual{
		VisualID:          NewVocabularyID(in.Language, in.Word),
		Word:              in.Word,
		Language:          in.Language,
		Translation:       in.Translation,
		VisualizationType: in.VisualizationType,
		Phonetic:          in.Phonetic,
		AudioURL:          in.AudioURL,
		Images:            orEmpty(in.Images),
		ExampleSentences:  sentences,
		RelatedWords:      orEmpty(in.RelatedWords),
		DifficultyLevel:   difficulty,
		CreatedAt:         Now(),
	}

	data, err := EncodeVocabularyVisual(v)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, storage.CollectionVocabulary, v.VisualID, data); err != nil {
		return nil, err
	}
	s.logger.Info("created vocabulary visual", "id", v.VisualID, "word", v.Word, "language", v.Language)
	return v, nil
}

// VocabularyFilter restricts ListVocabularyVisuals. Zero-valued fields
// match everything; set fields are AND-combined exact matches.
type VocabularyFilter struct {
	Language          string
	VisualizationType VocabularyVizType
}

// ListVocabularyVisuals returns all vocabulary visuals matching the filter,
// sorted by ID. Undecodable documents are skipped and logged.
func (s *Service) ListVocabularyVisuals(ctx context.Context, filter VocabularyFilter) ([]VocabularyVisual, error) {
	var out []VocabularyVisual
	err := s.backend.Scan(ctx, storage.CollectionVocabulary, func(id string, data []byte) error {
		v, err := DecodeVocabularyVisual(data)
		if err != nil {
			s.logScanSkip(ctx, storage.CollectionVocabulary, id, err)
			return nil
		}
		if filter.Language != "" && v.Language != filter.Language {
			return nil
		}
		if filter.VisualizationType != "" && v.VisualizationType != filter.VisualizationType {
			return nil
		}
		out = append(out, *v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisualID < out[j].VisualID })
	return out, nil
}

// DeleteVocabularyVisual removes a vocabulary document.
func (s *Service) DeleteVocabularyVisual(ctx context.Context, visualID string) error {
	mu := s.lock(visualID)
	mu.Lock()
	defer mu.Unlock()
	return s.remove(ctx, storage.CollectionVocabulary, visualID)
}

// =============================================================================
// Pronunciation Guides
// =============================================================================

// CreatePronunciationGuideInput carries the caller-supplied fields for a
// new pronunciation guide.
type CreatePronunciationGuideInput struct {
	WordOrPhrase     string
	Language         string
	PhoneticSpelling string
	IPANotation      string
	AudioURL         string
	Breakdown        []Syllable
	MouthPositions   []string
	CommonMistakes   []string
	PracticeTips     []string
	DifficultyLevel  int
}

// CreatePronunciationGuide persists a new pronunciation guide.
// An omitted difficulty level defaults to 1.
func (s *Service) CreatePronunciationGuide(ctx context.Context, in CreatePronunciationGuideInput) (*PronunciationGuide, error) {
	if in.WordOrPhrase == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "word_or_phrase is required")
	}
	if in.Language == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "language is required")
	}

	difficulty := in.DifficultyLevel
	if difficulty == 0 {
		difficulty = 1
	}
	breakdown := in.Breakdown
	if breakdown == nil {
		breakdown = []Syllable{}
	}

	g := &PronunciationGuide{
		GuideID:          NewGuideID(in.Language, in.WordOrPhrase),
		WordOrPhrase:     in.WordOrPhrase,
		Language:         in.Language,
		PhoneticSpelling: in.PhoneticSpelling,
		IPANotation:      in.IPANotation,
		AudioURL:         in.AudioURL,
		Breakdown:        breakdown,
		MouthPositions:   orEmpty(in.MouthPositions),
		CommonMistakes:   orEmpty(in.CommonMistakes),
		PracticeTips:     orEmpty(in.PracticeTips),
		DifficultyLevel:  difficulty,
		CreatedAt:        Now(),
	}

	data, err := EncodePronunciationGuide(g)
	if err != nil {
		return nil, err
	}
	if err := s.put(ctx, storage.CollectionPronunciation, g.GuideID, data); err != nil {
		return nil, err
	}
	s.logger.Info("created pronunciation guide", "id", g.GuideID, "phrase", g.WordOrPhrase, "language", g.Language)
	return g, nil
}

// GetPronunciationGuide retrieves a guide by ID.
func (s *Service) GetPronunciationGuide(ctx context.Context, guideID string) (*PronunciationGuide, error) {
	data, err := s.get(ctx, storage.CollectionPronunciation, guideID)
	if err != nil {
		return nil, err
	}
	return DecodePronunciationGuide(data)
}

// PronunciationFilter restricts ListPronunciationGuides. Zero-valued fields
// match everything; set fields are AND-combined exact matches.
// A DifficultyLevel of 0 matches any difficulty (valid levels are 1-5).
type PronunciationFilter struct {
	Language        string
	DifficultyLevel int
}

// ListPronunciationGuides returns all guides matching the filter, sorted by
// ID. Undecodable documents are skipped and logged.
func (s *Service) ListPronunciationGuides(ctx context.Context, filter PronunciationFilter) ([]PronunciationGuide, error) {
	var out []PronunciationGuide
	err := s.backend.Scan(ctx, storage.CollectionPronunciation, func(id string, data []byte) error {
		g, err := DecodePronunciationGuide(data)
		if err != nil {
			s.logScanSkip(ctx, storage.CollectionPronunciation, id, err)
			return nil
		}
		if filter.Language != "" && g.Language != filter.Language {
			return nil
		}
		if filter.DifficultyLevel != 0 && g.DifficultyLevel != filter.DifficultyLevel {
			return nil
		}
		out = append(out, *g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuideID < out[j].GuideID })
	return out, nil
}

// DeletePronunciationGuide removes a guide document.
func (s *Service) DeletePronunciationGuide(ctx context.Context, guideID string) error {
	mu := s.lock(guideID)
	mu.Lock()
	defer mu.Unlock()
	return s.remove(ctx, storage.CollectionPronunciation, guideID)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// put writes a document and emits the store event.
func (s *Service) put(ctx context.Context, collection, id string, data []byte) error {
	if err := s.backend.Put(ctx, collection, id, data); err != nil {
		return err
	}
	observability.Store().OnWrite(ctx, collection, id, len(data))
	return nil
}

// get reads a document and emits the store event.
func (s *Service) get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := s.backend.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	observability.Store().OnRead(ctx, collection, id)
	return data, nil
}

// remove deletes a document and emits the store event.
func (s *Service) remove(ctx context.Context, collection, id string) error {
	if err := s.backend.Delete(ctx, collection, id); err != nil {
		return err
	}
	observability.Store().OnDelete(ctx, collection, id)
	return nil
}

// logScanSkip records a document that failed to decode during a bulk scan.
// Partial results are more useful than none, so the error is recorded, not
// propagated.
func (s *Service) logScanSkip(ctx context.Context, collection, id string, err error) {
	s.logger.Warn("skipping undecodable document", "collection", collection, "id", id, "err", err)
	observability.Store().OnScanSkip(ctx, collection, id, err)
}
