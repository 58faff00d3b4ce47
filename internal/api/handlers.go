package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linguaviz/linguaviz/pkg/visual"
)

// =============================================================================
// Grammar Flowcharts
// =============================================================================

type createFlowchartRequest struct {
	Concept          string   `json:"concept"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Language         string   `json:"language"`
	DifficultyLevel  int      `json:"difficulty_level"`
	LearningOutcomes []string `json:"learning_outcomes"`
}

func (s *Server) createFlowchart(w http.ResponseWriter, r *http.Request) {
	var req createFlowchartRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	f, err := s.svc.CreateFlowchart(r.Context(), visual.CreateFlowchartInput{
		Concept:          visual.GrammarConcept(req.Concept),
		Title:            req.Title,
		Description:      req.Description,
		Language:         req.Language,
		DifficultyLevel:  req.DifficultyLevel,
		LearningOutcomes: req.LearningOutcomes,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

func (s *Server) listFlowcharts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.svc.ListFlowcharts(r.Context(), visual.FlowchartFilter{
		Language: q.Get("language"),
		Concept:  visual.GrammarConcept(q.Get("concept")),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: out, Count: len(out)})
}

func (s *Server) getFlowchart(w http.ResponseWriter, r *http.Request) {
	f, err := s.svc.GetFlowchart(r.Context(), chi.URLParam(r, "flowchartID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

func (s *Server) deleteFlowchart(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteFlowchart(r.Context(), chi.URLParam(r, "flowchartID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addNodeRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	NodeType    string          `json:"node_type"`
	Content     string          `json:"content"`
	Examples    []string        `json:"examples"`
	Position    visual.Position `json:"position"`
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	n, err := s.svc.AddNode(r.Context(), chi.URLParam(r, "flowchartID"), visual.AddNodeInput{
		Title:       req.Title,
		Description: req.Description,
		NodeType:    visual.NodeType(req.NodeType),
		Content:     req.Content,
		Examples:    req.Examples,
		Position:    req.Position,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

type connectRequest struct {
	FromNodeID string `json:"from_node_id"`
	ToNodeID   string `json:"to_node_id"`
}

type connectResponse struct {
	Added bool `json:"added"`
}

func (s *Server) connectNodes(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	added, err := s.svc.Connect(r.Context(), chi.URLParam(r, "flowchartID"), req.FromNodeID, req.ToNodeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, connectResponse{Added: added})
}

// =============================================================================
// Progress Visualizations
// =============================================================================

type createVisualizationRequest struct {
	UserID            string           `json:"user_id"`
	VisualizationType string           `json:"visualization_type"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	DataPoints        []map[string]any `json:"data_points"`
	XAxisLabel        string           `json:"x_axis_label"`
	YAxisLabel        string           `json:"y_axis_label"`
	ColorScheme       []string         `json:"color_scheme"`
}

func (s *Server) createVisualization(w http.ResponseWriter, r *http.Request) {
	var req createVisualizationRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	v, err := s.svc.CreateVisualization(r.Context(), visual.CreateVisualizationInput{
		UserID:            req.UserID,
		VisualizationType: visual.VisualizationType(req.VisualizationType),
		Title:             req.Title,
		Description:       req.Description,
		DataPoints:        req.DataPoints,
		XAxisLabel:        req.XAxisLabel,
		YAxisLabel:        req.YAxisLabel,
		ColorScheme:       req.ColorScheme,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (s *Server) listVisualizations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.svc.ListVisualizations(r.Context(), visual.VisualizationFilter{
		UserID:            q.Get("user_id"),
		VisualizationType: visual.VisualizationType(q.Get("type")),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: out, Count: len(out)})
}

func (s *Server) deleteVisualization(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteVisualization(r.Context(), chi.URLParam(r, "visualizationID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Vocabulary Visuals
// =============================================================================

type createVocabularyRequest struct {
	Word              string                   `json:"word"`
	Language          string                   `json:"language"`
	Translation       string                   `json:"translation"`
	VisualizationType string                   `json:"visualization_type"`
	Phonetic          string                   `json:"phonetic"`
	AudioURL          string                   `json:"audio_url"`
	Images            []string                 `json:"images"`
	ExampleSentences  []visual.ExampleSentence `json:"example_sentences"`
	RelatedWords      []string                 `json:"related_words"`
	DifficultyLevel   int                      `json:"difficulty_level"`
}

func (s *Server) createVocabularyVisual(w http.ResponseWriter, r *http.Request) {
	var req createVocabularyRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	v, err := s.svc.CreateVocabularyVisual(r.Context(), visual.CreateVocabularyVisualInput{
		Word:              req.Word,
		Language:          req.Language,
		Translation:       req.Translation,
		VisualizationType: visual.VocabularyVizType(req.VisualizationType),
		Phonetic:          req.Phonetic,
		AudioURL:          req.AudioURL,
		Images:            req.Images,
		ExampleSentences:  req.ExampleSentences,
		RelatedWords:      req.RelatedWords,
		DifficultyLevel:   req.DifficultyLevel,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (s *Server) listVocabularyVisuals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.svc.ListVocabularyVisuals(r.Context(), visual.VocabularyFilter{
		Language:          q.Get("language"),
		VisualizationType: visual.VocabularyVizType(q.Get("type")),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: out, Count: len(out)})
}

func (s *Server) deleteVocabularyVisual(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteVocabularyVisual(r.Context(), chi.URLParam(r, "visualID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Pronunciation Guides
// =============================================================================

type createPronunciationRequest struct {
	WordOrPhrase     string            `json:"word_or_phrase"`
	Language         string            `json:"language"`
	PhoneticSpelling string            `json:"phonetic_spelling"`
	IPANotation      string            `json:"ipa_notation"`
	AudioURL         string            `json:"audio_url"`
	Breakdown        []visual.Syllable `json:"breakdown"`
	MouthPositions   []string          `json:"visual_mouth_positions"`
	CommonMistakes   []string          `json:"common_mistakes"`
	PracticeTips     []string          `json:"practice_tips"`
	DifficultyLevel  int               `json:"difficulty_level"`
}

func (s *Server) createPronunciationGuide(w http.ResponseWriter, r *http.Request) {
	var req createPronunciationRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	g, err := s.svc.CreatePronunciationGuide(r.Context(), visual.CreatePronunciationGuideInput{
		WordOrPhrase:     req.WordOrPhrase,
		Language:         req.Language,
		PhoneticSpelling: req.PhoneticSpelling,
		IPANotation:      req.IPANotation,
		AudioURL:         req.AudioURL,
		Breakdown:        req.Breakdown,
		MouthPositions:   req.MouthPositions,
		CommonMistakes:   req.CommonMistakes,
		PracticeTips:     req.PracticeTips,
		DifficultyLevel:  req.DifficultyLevel,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (s *Server) listPronunciationGuides(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := visual.PronunciationFilter{Language: q.Get("language")}
	if lvl := q.Get("difficulty"); lvl != "" {
		n, err := parseIntParam("difficulty", lvl)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		filter.DifficultyLevel = n
	}

	out, err := s.svc.ListPronunciationGuides(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: out, Count: len(out)})
}

func (s *Server) getPronunciationGuide(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.GetPronunciationGuide(r.Context(), chi.URLParam(r, "guideID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) deletePronunciationGuide(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePronunciationGuide(r.Context(), chi.URLParam(r, "guideID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
