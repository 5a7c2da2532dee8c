package catalog

// Slide kinds available to archetypes and content templates.
const (
	SlideTitle      = "title"
	SlideAgenda     = "agenda"
	SlideContent    = "content"
	SlideTwoColumn  = "two_column"
	SlideComparison = "comparison"
	SlideChart      = "chart"
	SlideImage      = "image"
	SlideQuote      = "quote"
	SlideTimeline   = "timeline"
	SlideTeam       = "team"
	SlideConclusion = "conclusion"
	SlideQA         = "qa"
	SlideThankYou   = "thank_you"
)

// SlideRef is one entry in an archetype's slide structure.
type SlideRef struct {
	// Kind is the slide kind.
	Kind string `json:"kind" yaml:"kind"`
	// Purpose describes what the slide is for.
	Purpose string `json:"purpose" yaml:"purpose"`
}

// PresentationType is a named structure archetype: an ordered list of
// slide purposes with a recommended theme.
type PresentationType struct {
	// ID is the lookup key, e.g. "business_proposal".
	ID string `json:"id" yaml:"id"`
	// Name is the display name.
	Name string `json:"name" yaml:"name"`
	// Description summarizes the archetype.
	Description string `json:"description" yaml:"description"`
	// RecommendedTheme names the theme that suits this archetype.
	RecommendedTheme string `json:"recommended_theme" yaml:"recommended_theme"`
	// SlideStructure is the ordered list of slides.
	SlideStructure []SlideRef `json:"slide_structure" yaml:"slide_structure"`
}

var builtinTypes = map[string]PresentationType{
	"business_proposal": {
		ID:               "business_proposal",
		Name:             "Business Proposal",
		Description:      "Template for business proposals and pitches",
		RecommendedTheme: "corporate",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Cover slide"},
			{Kind: SlideAgenda, Purpose: "Outline"},
			{Kind: SlideContent, Purpose: "Problem statement"},
			{Kind: SlideContent, Purpose: "Solution overview"},
			{Kind: SlideTwoColumn, Purpose: "Benefits"},
			{Kind: SlideChart, Purpose: "Market data"},
			{Kind: SlideTimeline, Purpose: "Implementation plan"},
			{Kind: SlideContent, Purpose: "Pricing"},
			{Kind: SlideConclusion, Purpose: "Summary"},
			{Kind: SlideQA, Purpose: "Q&A"},
		},
	},
	"project_update": {
		ID:               "project_update",
		Name:             "Project Update",
		Description:      "Template for project status updates",
		RecommendedTheme: "modern",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Title"},
			{Kind: SlideAgenda, Purpose: "Agenda"},
			{Kind: SlideContent, Purpose: "Progress summary"},
			{Kind: SlideChart, Purpose: "Metrics"},
			{Kind: SlideTwoColumn, Purpose: "Achievements vs Challenges"},
			{Kind: SlideTimeline, Purpose: "Next steps"},
			{Kind: SlideConclusion, Purpose: "Key takeaways"},
		},
	},
	"product_launch": {
		ID:               "product_launch",
		Name:             "Product Launch",
		Description:      "Template for product introductions",
		RecommendedTheme: "vibrant",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Product name"},
			{Kind: SlideImage, Purpose: "Product hero image"},
			{Kind: SlideContent, Purpose: "Problem we solve"},
			{Kind: SlideContent, Purpose: "Key features"},
			{Kind: SlideComparison, Purpose: "Competitive advantage"},
			{Kind: SlideChart, Purpose: "Market opportunity"},
			{Kind: SlideContent, Purpose: "Pricing"},
			{Kind: SlideTimeline, Purpose: "Availability"},
			{Kind: SlideThankYou, Purpose: "Call to action"},
		},
	},
	"training": {
		ID:               "training",
		Name:             "Training",
		Description:      "Template for educational content",
		RecommendedTheme: "modern",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Course title"},
			{Kind: SlideAgenda, Purpose: "Learning objectives"},
			{Kind: SlideContent, Purpose: "Introduction"},
			{Kind: SlideContent, Purpose: "Topic 1"},
			{Kind: SlideContent, Purpose: "Topic 2"},
			{Kind: SlideContent, Purpose: "Topic 3"},
			{Kind: SlideContent, Purpose: "Best practices"},
			{Kind: SlideConclusion, Purpose: "Summary"},
			{Kind: SlideQA, Purpose: "Questions"},
		},
	},
	"quarterly_review": {
		ID:               "quarterly_review",
		Name:             "Quarterly Review",
		Description:      "Template for quarterly business reviews",
		RecommendedTheme: "corporate",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Quarter title"},
			{Kind: SlideAgenda, Purpose: "Agenda"},
			{Kind: SlideChart, Purpose: "Revenue metrics"},
			{Kind: SlideChart, Purpose: "Growth metrics"},
			{Kind: SlideTwoColumn, Purpose: "Wins and learnings"},
			{Kind: SlideContent, Purpose: "Key initiatives"},
			{Kind: SlideTimeline, Purpose: "Next quarter goals"},
			{Kind: SlideConclusion, Purpose: "Summary"},
		},
	},
	"comparison_analysis": {
		ID:               "comparison_analysis",
		Name:             "Comparison Analysis",
		Description:      "Template for comparing options or competitors",
		RecommendedTheme: "corporate",
		SlideStructure: []SlideRef{
			{Kind: SlideTitle, Purpose: "Analysis title"},
			{Kind: SlideAgenda, Purpose: "Overview"},
			{Kind: SlideContent, Purpose: "Background"},
			{Kind: SlideComparison, Purpose: "Feature comparison"},
			{Kind: SlideChart, Purpose: "Data comparison"},
			{Kind: SlideTwoColumn, Purpose: "Pros and cons"},
			{Kind: SlideContent, Purpose: "Recommendation"},
			{Kind: SlideConclusion, Purpose: "Summary"},
		},
	},
}

// Type looks an archetype up by ID. The second return is false for
// unknown IDs; there is no fallback archetype.
func (c *Catalog) Type(id string) (PresentationType, bool) {
	t, ok := builtinTypes[id]
	return t, ok
}

// Types lists archetypes in a fixed order.
func (c *Catalog) Types() []PresentationType {
	order := []string{
		"business_proposal", "project_update", "product_launch",
		"training", "quarterly_review", "comparison_analysis",
	}
	out := make([]PresentationType, 0, len(order))
	for _, id := range order {
		out = append(out, builtinTypes[id])
	}
	return out
}

// ContentTemplate returns the default content payload for a slide kind.
// Unknown kinds get the plain content template.
func ContentTemplate(kind string) map[string]any {
	switch kind {
	case SlideTitle:
		return map[string]any{
			"type":     SlideTitle,
			"title":    "[Enter title]",
			"subtitle": "[Enter subtitle]",
			"author":   "",
			"date":     "",
		}
	case SlideAgenda:
		return map[string]any{
			"type":  SlideAgenda,
			"title": "Agenda",
			"items": []string{"Item 1", "Item 2", "Item 3"},
		}
	case SlideTwoColumn:
		return map[string]any{
			"type":        SlideTwoColumn,
			"title":       "[Slide title]",
			"left_title":  "Left",
			"left":        []string{"Point 1", "Point 2"},
			"right_title": "Right",
			"right":       []string{"Point 1", "Point 2"},
		}
	case SlideComparison:
		return map[string]any{
			"type":  SlideComparison,
			"title": "Comparison",
			"items": []map[string]any{
				{"name": "Option A", "features": []string{"Feature 1", "Feature 2"}},
				{"name": "Option B", "features": []string{"Feature 1", "Feature 2"}},
			},
		}
	case SlideChart:
		return map[string]any{
			"type":       SlideChart,
			"title":      "[Chart title]",
			"chart_type": "bar",
			"data":       map[string]any{},
		}
	case SlideTimeline:
		return map[string]any{
			"type":  SlideTimeline,
			"title": "Timeline",
			"events": []map[string]any{
				{"date": "Phase 1", "description": "Description"},
				{"date": "Phase 2", "description": "Description"},
			},
		}
	case SlideConclusion:
		return map[string]any{
			"type":  SlideConclusion,
			"title": "Summary",
			"body":  []string{"Key point 1", "Key point 2", "Next steps"},
		}
	case SlideQA:
		return map[string]any{
			"type":     SlideQA,
			"title":    "Q&A",
			"subtitle": "Any questions?",
		}
	case SlideThankYou:
		return map[string]any{
			"type":    SlideThankYou,
			"title":   "Thank you",
			"contact": "Contact us",
		}
	default:
		return map[string]any{
			"type":  SlideContent,
			"title": "[Slide title]",
			"body":  []string{"Point 1", "Point 2", "Point 3"},
		}
	}
}
