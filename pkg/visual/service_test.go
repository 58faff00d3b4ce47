package visual

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/linguaviz/linguaviz/pkg/errors"
	"github.com/linguaviz/linguaviz/pkg/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	svc, err := NewService(context.Background(), backend, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, backend
}

func TestFlowchartLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{
		Concept:          ConceptVerbConjugation,
		Title:            "Present tense -ar verbs",
		Language:         "spanish",
		DifficultyLevel:  2,
		LearningOutcomes: []string{"Conjugate regular -ar verbs"},
	})
	if err != nil {
		t.Fatalf("CreateFlowchart() error = %v", err)
	}
	if f.Metadata["version"] != "1.0" {
		t.Errorf("Metadata = %v, want version 1.0", f.Metadata)
	}

	types := []NodeType{NodeStart, NodeDecision, NodeEnd}
	var nodeIDs []string
	for i, nt := range types {
		n, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{
			Title:    fmt.Sprintf("Step %d", i+1),
			NodeType: nt,
			Position: Position{X: i * 100},
		})
		if err != nil {
			t.Fatalf("AddNode(%d) error = %v", i, err)
		}
		nodeIDs = append(nodeIDs, n.NodeID)
	}
	if !reflect.DeepEqual(nodeIDs, []string{"node_1", "node_2", "node_3"}) {
		t.Fatalf("node IDs = %v, want sequential node_1..node_3", nodeIDs)
	}

	for _, edge := range [][2]string{{"node_1", "node_2"}, {"node_2", "node_3"}} {
		added, err := svc.Connect(ctx, f.FlowchartID, edge[0], edge[1])
		if err != nil {
			t.Fatalf("Connect(%v) error = %v", edge, err)
		}
		if !added {
			t.Errorf("Connect(%v) = false, want true for new edge", edge)
		}
	}

	got, err := svc.GetFlowchart(ctx, f.FlowchartID)
	if err != nil {
		t.Fatalf("GetFlowchart() error = %v", err)
	}
	if len(got.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(got.Nodes))
	}
	// Insertion order is preserved and adjacency follows the edge list.
	if got.Nodes[0].NodeID != "node_1" || got.Nodes[2].NodeID != "node_3" {
		t.Errorf("node order = %v", got.Nodes)
	}
	if !reflect.DeepEqual(got.Nodes[0].NextNodes, []string{"node_2"}) {
		t.Errorf("node_1 next_nodes = %v, want [node_2]", got.Nodes[0].NextNodes)
	}
	if !reflect.DeepEqual(got.Nodes[2].NextNodes, []string{}) {
		t.Errorf("node_3 next_nodes = %v, want empty", got.Nodes[2].NextNodes)
	}
	if len(got.Connections) != 2 {
		t.Errorf("connections = %v, want 2 edges", got.Connections)
	}
}

func TestCreateFlowchartRejectsInvalidConcept(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateFlowchart(context.Background(), CreateFlowchartInput{
		Concept:  "quantum_grammar",
		Language: "spanish",
	})
	if errors.GetCode(err) != errors.ErrCodeInvalidConcept {
		t.Errorf("CreateFlowchart() error = %v, want INVALID_CONCEPT", err)
	}
}

func TestAddNodeRejectsInvalidType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptPrepositions, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.AddNode(ctx, f.FlowchartID, AddNodeInput{Title: "x", NodeType: "portal"})
	if errors.GetCode(err) != errors.ErrCodeInvalidNodeType {
		t.Errorf("AddNode() error = %v, want INVALID_NODE_TYPE", err)
	}
}

func TestAddNodeMissingFlowchart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddNode(context.Background(), "flowchart_nope", AddNodeInput{NodeType: NodeStart})
	if !errors.IsNotFound(err) {
		t.Errorf("AddNode() error = %v, want NOT_FOUND", err)
	}
}

func TestConnectIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptTenseUsage, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	for _, nt := range []NodeType{NodeStart, NodeEnd} {
		if _, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{NodeType: nt}); err != nil {
			t.Fatal(err)
		}
	}

	added, err := svc.Connect(ctx, f.FlowchartID, "node_1", "node_2")
	if err != nil || !added {
		t.Fatalf("first Connect() = (%v, %v), want (true, nil)", added, err)
	}
	added, err = svc.Connect(ctx, f.FlowchartID, "node_1", "node_2")
	if err != nil {
		t.Fatalf("repeat Connect() error = %v", err)
	}
	if added {
		t.Error("repeat Connect() = true, want false for duplicate edge")
	}

	// Reverse direction is a distinct edge.
	added, err = svc.Connect(ctx, f.FlowchartID, "node_2", "node_1")
	if err != nil || !added {
		t.Fatalf("reverse Connect() = (%v, %v), want (true, nil)", added, err)
	}

	got, err := svc.GetFlowchart(ctx, f.FlowchartID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Connections) != 2 {
		t.Errorf("connections = %v, want exactly 2", got.Connections)
	}
}

func TestConnectRejectsMissingEndpoints(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptTenseUsage, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{NodeType: NodeStart}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		from, to string
	}{
		{"missing target", "node_1", "node_99"},
		{"missing source", "node_99", "node_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Connect(ctx, f.FlowchartID, tt.from, tt.to)
			if errors.GetCode(err) != errors.ErrCodeInvalidArgument {
				t.Errorf("Connect() error = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestNodeIDsNotReusedAfterReload(t *testing.T) {
	svc, backend := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptArticleRules, Language: "german"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{NodeType: NodeProcess}); err != nil {
			t.Fatal(err)
		}
	}

	// A fresh service over the same backend must continue the sequence.
	svc2, err := NewService(ctx, backend, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err := svc2.AddNode(ctx, f.FlowchartID, AddNodeInput{NodeType: NodeEnd})
	if err != nil {
		t.Fatal(err)
	}
	if n.NodeID != "node_4" {
		t.Errorf("NodeID after reload = %q, want node_4", n.NodeID)
	}
}

func TestConcurrentAddNode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptPronounUsage, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{
				Title:    fmt.Sprintf("worker %d", i),
				NodeType: NodeProcess,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AddNode() error = %v", err)
		}
	}

	got, err := svc.GetFlowchart(ctx, f.FlowchartID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != workers {
		t.Fatalf("got %d nodes, want %d", len(got.Nodes), workers)
	}
	seen := map[string]bool{}
	for _, n := range got.Nodes {
		if seen[n.NodeID] {
			t.Errorf("duplicate node ID %s", n.NodeID)
		}
		seen[n.NodeID] = true
	}
	if got.NodeSeq != workers {
		t.Errorf("NodeSeq = %d, want %d", got.NodeSeq, workers)
	}
}

func TestListFlowchartsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	create := func(language string, concept GrammarConcept) {
		t.Helper()
		if _, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: concept, Language: language}); err != nil {
			t.Fatal(err)
		}
	}
	create("spanish", ConceptVerbConjugation)
	create("spanish", ConceptPrepositions)
	create("french", ConceptVerbConjugation)

	tests := []struct {
		name   string
		filter FlowchartFilter
		want   int
	}{
		{"all", FlowchartFilter{}, 3},
		{"by language", FlowchartFilter{Language: "spanish"}, 2},
		{"by concept", FlowchartFilter{Concept: ConceptVerbConjugation}, 2},
		{"combined", FlowchartFilter{Language: "spanish", Concept: ConceptVerbConjugation}, 1},
		{"no match", FlowchartFilter{Language: "latin"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListFlowcharts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListFlowcharts() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListFlowcharts() returned %d, want %d", len(got), tt.want)
			}
			if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].FlowchartID < got[j].FlowchartID }) {
				t.Error("summaries not sorted by ID")
			}
		})
	}
}

func TestListSkipsCorruptDocuments(t *testing.T) {
	svc, backend := newTestService(t)
	ctx := context.Background()

	good, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptTenseUsage, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}

	// Two broken documents planted directly in the backend: one that is not
	// JSON and one carrying an out-of-set concept.
	if err := backend.Put(ctx, storage.CollectionFlowcharts, "flowchart_broken", []byte("{nope")); err != nil {
		t.Fatal(err)
	}
	tampered := `{
		"flowchart_id": "flowchart_tampered",
		"concept": "quantum_grammar",
		"language": "spanish",
		"created_at": "2026-03-01T12:00:00"
	}`
	if err := backend.Put(ctx, storage.CollectionFlowcharts, "flowchart_tampered", []byte(tampered)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListFlowcharts(ctx, FlowchartFilter{})
	if err != nil {
		t.Fatalf("ListFlowcharts() error = %v", err)
	}
	if len(got) != 1 || got[0].FlowchartID != good.FlowchartID {
		t.Errorf("ListFlowcharts() = %v, want only %s", got, good.FlowchartID)
	}

	// Direct retrieval of a tampered document surfaces the decode error.
	_, err = svc.GetFlowchart(ctx, "flowchart_tampered")
	if errors.GetCode(err) != errors.ErrCodeDecodeEnum {
		t.Errorf("GetFlowchart(tampered) error = %v, want DECODE_INVALID_ENUM", err)
	}
}

func TestDeleteFlowchart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptTenseUsage, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteFlowchart(ctx, f.FlowchartID); err != nil {
		t.Fatalf("DeleteFlowchart() error = %v", err)
	}
	if _, err := svc.GetFlowchart(ctx, f.FlowchartID); !errors.IsNotFound(err) {
		t.Errorf("GetFlowchart() after delete error = %v, want NOT_FOUND", err)
	}
}

func TestCreateVisualizationDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	v, err := svc.CreateVisualization(context.Background(), CreateVisualizationInput{
		UserID:            "user42",
		VisualizationType: VizProgressBar,
		Title:             "Course progress",
	})
	if err != nil {
		t.Fatalf("CreateVisualization() error = %v", err)
	}
	if !reflect.DeepEqual(v.ColorScheme, DefaultColorScheme) {
		t.Errorf("ColorScheme = %v, want default palette", v.ColorScheme)
	}
	if v.DataPoints == nil {
		t.Error("DataPoints = nil, want empty slice")
	}
	if v.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestCreateVisualizationValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateVisualization(ctx, CreateVisualizationInput{VisualizationType: VizBarChart})
	if errors.GetCode(err) != errors.ErrCodeInvalidArgument {
		t.Errorf("missing user error = %v, want INVALID_ARGUMENT", err)
	}
	_, err = svc.CreateVisualization(ctx, CreateVisualizationInput{UserID: "user42", VisualizationType: "hologram"})
	if errors.GetCode(err) != errors.ErrCodeInvalidArgument {
		t.Errorf("bad type error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestListVisualizationsPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, in := range []CreateVisualizationInput{
		{UserID: "alice", VisualizationType: VizBarChart},
		{UserID: "alice", VisualizationType: VizHeatmap},
		{UserID: "bob", VisualizationType: VizBarChart},
	} {
		if _, err := svc.CreateVisualization(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.ListVisualizations(ctx, VisualizationFilter{UserID: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("alice has %d visualizations, want 2", len(got))
	}
	for _, v := range got {
		if v.UserID != "alice" {
			t.Errorf("leaked visualization for %s", v.UserID)
		}
	}

	got, err = svc.ListVisualizations(ctx, VisualizationFilter{UserID: "alice", VisualizationType: VizHeatmap})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].VisualizationType != VizHeatmap {
		t.Errorf("combined filter = %v, want single heatmap", got)
	}
}

func TestVocabularyVisualLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v, err := svc.CreateVocabularyVisual(ctx, CreateVocabularyVisualInput{
		Word:              "casa",
		Language:          "spanish",
		Translation:       "house",
		VisualizationType: VocabWordCloud,
		ExampleSentences:  []ExampleSentence{{Sentence: "La casa es azul.", Translation: "The house is blue."}},
	})
	if err != nil {
		t.Fatalf("CreateVocabularyVisual() error = %v", err)
	}
	if v.DifficultyLevel != 1 {
		t.Errorf("DifficultyLevel = %d, want default 1", v.DifficultyLevel)
	}

	if _, err := svc.CreateVocabularyVisual(ctx, CreateVocabularyVisualInput{
		Word: "maison", Language: "french", VisualizationType: VocabWordCloud,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListVocabularyVisuals(ctx, VocabularyFilter{Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Word != "casa" {
		t.Errorf("ListVocabularyVisuals(spanish) = %v, want casa only", got)
	}

	if err := svc.DeleteVocabularyVisual(ctx, v.VisualID); err != nil {
		t.Fatalf("DeleteVocabularyVisual() error = %v", err)
	}
	got, err = svc.ListVocabularyVisuals(ctx, VocabularyFilter{Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("spanish vocabulary after delete = %v, want empty", got)
	}
}

func TestPronunciationGuideLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	g, err := svc.CreatePronunciationGuide(ctx, CreatePronunciationGuideInput{
		WordOrPhrase:     "gracias",
		Language:         "spanish",
		PhoneticSpelling: "GRAH-see-ahs",
		Breakdown:        []Syllable{{Syllable: "gra", Sound: "grah"}},
		DifficultyLevel:  3,
	})
	if err != nil {
		t.Fatalf("CreatePronunciationGuide() error = %v", err)
	}

	got, err := svc.GetPronunciationGuide(ctx, g.GuideID)
	if err != nil {
		t.Fatalf("GetPronunciationGuide() error = %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Errorf("GetPronunciationGuide() = %+v, want %+v", got, g)
	}

	if _, err := svc.CreatePronunciationGuide(ctx, CreatePronunciationGuideInput{
		WordOrPhrase: "bonjour", Language: "french", DifficultyLevel: 1,
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter PronunciationFilter
		want   int
	}{
		{"all", PronunciationFilter{}, 2},
		{"by language", PronunciationFilter{Language: "spanish"}, 1},
		{"by difficulty", PronunciationFilter{DifficultyLevel: 3}, 1},
		{"no match", PronunciationFilter{Language: "spanish", DifficultyLevel: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListPronunciationGuides(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("ListPronunciationGuides() returned %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPersistedDocumentSurvivesServiceRestart(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ctx := context.Background()

	svc, err := NewService(ctx, backend, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := svc.CreateFlowchart(ctx, CreateFlowchartInput{Concept: ConceptConditionalForms, Language: "spanish"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddNode(ctx, f.FlowchartID, AddNodeInput{Title: "Si clause", NodeType: NodeStart}); err != nil {
		t.Fatal(err)
	}

	svc2, err := NewService(ctx, backend, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc2.GetFlowchart(ctx, f.FlowchartID)
	if err != nil {
		t.Fatalf("GetFlowchart() after restart error = %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].Title != "Si clause" {
		t.Errorf("reloaded flowchart = %+v", got)
	}
	if !got.CreatedAt.Equal(f.CreatedAt.Time) {
		t.Errorf("CreatedAt drifted across restart: %v != %v", got.CreatedAt, f.CreatedAt)
	}
}
