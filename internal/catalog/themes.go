// Package catalog holds the static lookup tables the design phase and
// the orchestrator consult: named visual themes, named presentation
// structure archetypes, and per-slide-kind content seeds. Built-ins are
// read-only; custom themes are registered per Catalog instance and
// shadow built-ins of the same name.
package catalog

import "sync"

// Colors is a theme's palette. Values are "#RRGGBB" hex strings.
type Colors struct {
	// Primary is the dominant brand color, used for titles.
	Primary string `json:"primary" yaml:"primary"`
	// Secondary supports the primary in headings and accents.
	Secondary string `json:"secondary" yaml:"secondary"`
	// Accent highlights charts and callouts.
	Accent string `json:"accent" yaml:"accent"`
	// Text is the body text color.
	Text string `json:"text" yaml:"text"`
	// TextLight is the subdued text color for captions.
	TextLight string `json:"text_light" yaml:"text_light"`
	// Background is the slide background.
	Background string `json:"background" yaml:"background"`
	// BackgroundAlt is the alternate background for panels.
	BackgroundAlt string `json:"background_alt" yaml:"background_alt"`
}

// Fonts is a theme's typography.
type Fonts struct {
	// TitleName is the title typeface.
	TitleName string `json:"title_name" yaml:"title_name"`
	// TitleSize is the title point size.
	TitleSize int `json:"title_size" yaml:"title_size"`
	// TitleBold sets title weight.
	TitleBold bool `json:"title_bold" yaml:"title_bold"`
	// BodyName is the body typeface.
	BodyName string `json:"body_name" yaml:"body_name"`
	// BodySize is the body point size.
	BodySize int `json:"body_size" yaml:"body_size"`
	// BodyBold sets body weight.
	BodyBold bool `json:"body_bold" yaml:"body_bold"`
	// CaptionName is the caption typeface.
	CaptionName string `json:"caption_name" yaml:"caption_name"`
	// CaptionSize is the caption point size.
	CaptionSize int `json:"caption_size" yaml:"caption_size"`
}

// Theme is a named color and font specification.
type Theme struct {
	// ID is the lookup key, e.g. "corporate".
	ID string `json:"id" yaml:"id"`
	// Name is the display name.
	Name string `json:"name" yaml:"name"`
	// Description summarizes the theme's character.
	Description string `json:"description" yaml:"description"`
	// Colors is the palette.
	Colors Colors `json:"colors" yaml:"colors"`
	// Fonts is the typography.
	Fonts Fonts `json:"fonts" yaml:"fonts"`
	// Custom marks themes registered at runtime.
	Custom bool `json:"custom,omitempty" yaml:"custom,omitempty"`
}

func defaultFonts(titleSize int, titleBold bool, bodySize int) Fonts {
	return Fonts{
		TitleName:   "Calibri",
		TitleSize:   titleSize,
		TitleBold:   titleBold,
		BodyName:    "Calibri",
		BodySize:    bodySize,
		CaptionName: "Calibri",
		CaptionSize: 12,
	}
}

// builtinThemes is keyed by theme ID. Never mutated after init.
var builtinThemes = map[string]Theme{
	"corporate": {
		ID:          "corporate",
		Name:        "Corporate",
		Description: "Professional business theme",
		Colors: Colors{
			Primary:       "#1F4E79",
			Secondary:     "#2E75B6",
			Accent:        "#5B9BD5",
			Text:          "#333333",
			TextLight:     "#666666",
			Background:    "#FFFFFF",
			BackgroundAlt: "#F8F9FA",
		},
		Fonts: defaultFonts(36, true, 18),
	},
	"modern": {
		ID:          "modern",
		Name:        "Modern",
		Description: "Clean and contemporary design",
		Colors: Colors{
			Primary:       "#2D3436",
			Secondary:     "#636E72",
			Accent:        "#00B894",
			Text:          "#2D3436",
			TextLight:     "#636E72",
			Background:    "#FFFFFF",
			BackgroundAlt: "#DFE6E9",
		},
		Fonts: defaultFonts(40, true, 16),
	},
	"vibrant": {
		ID:          "vibrant",
		Name:        "Vibrant",
		Description: "Bold and colorful theme",
		Colors: Colors{
			Primary:       "#E74C3C",
			Secondary:     "#3498DB",
			Accent:        "#F39C12",
			Text:          "#2C3E50",
			TextLight:     "#7F8C8D",
			Background:    "#FFFFFF",
			BackgroundAlt: "#ECF0F1",
		},
		Fonts: defaultFonts(38, true, 18),
	},
	"minimal": {
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Simple and elegant design",
		Colors: Colors{
			Primary:       "#000000",
			Secondary:     "#333333",
			Accent:        "#666666",
			Text:          "#000000",
			TextLight:     "#666666",
			Background:    "#FFFFFF",
			BackgroundAlt: "#FAFAFA",
		},
		Fonts: defaultFonts(44, false, 16),
	},
	"tech": {
		ID:          "tech",
		Name:        "Tech",
		Description: "Technology-focused theme",
		Colors: Colors{
			Primary:       "#6C5CE7",
			Secondary:     "#A29BFE",
			Accent:        "#00CEC9",
			Text:          "#2D3436",
			TextLight:     "#636E72",
			Background:    "#FFFFFF",
			BackgroundAlt: "#F8F9FA",
		},
		Fonts: defaultFonts(36, true, 16),
	},
	"nature": {
		ID:          "nature",
		Name:        "Nature",
		Description: "Organic and natural theme",
		Colors: Colors{
			Primary:       "#27AE60",
			Secondary:     "#2ECC71",
			Accent:        "#F1C40F",
			Text:          "#2C3E50",
			TextLight:     "#7F8C8D",
			Background:    "#FFFFFF",
			BackgroundAlt: "#E8F6EF",
		},
		Fonts: defaultFonts(36, true, 18),
	},
}

// DefaultThemeID is the fallback for unknown theme names.
const DefaultThemeID = "corporate"

// Catalog is a theme/archetype lookup with optional runtime-registered
// custom themes layered over the built-ins.
type Catalog struct {
	mu     sync.RWMutex
	custom map[string]Theme
}

// New creates a catalog with no custom entries.
func New() *Catalog {
	return &Catalog{custom: make(map[string]Theme)}
}

// Theme looks a theme up by ID. Unknown IDs resolve to the corporate
// theme; lookups never fail and never mutate the catalog.
func (c *Catalog) Theme(id string) Theme {
	c.mu.RLock()
	t, ok := c.custom[id]
	c.mu.RUnlock()
	if ok {
		return t
	}
	if t, ok := builtinThemes[id]; ok {
		return t
	}
	return builtinThemes[DefaultThemeID]
}

// HasTheme reports whether the ID names a built-in or custom theme.
func (c *Catalog) HasTheme(id string) bool {
	c.mu.RLock()
	_, ok := c.custom[id]
	c.mu.RUnlock()
	if ok {
		return true
	}
	_, ok = builtinThemes[id]
	return ok
}

// Register adds a custom theme under its ID, shadowing any built-in of
// the same name for this catalog instance.
func (c *Catalog) Register(t Theme) {
	t.Custom = true
	c.mu.Lock()
	c.custom[t.ID] = t
	c.mu.Unlock()
}

// Themes lists built-in themes in a fixed order followed by custom
// themes.
func (c *Catalog) Themes() []Theme {
	order := []string{"corporate", "modern", "vibrant", "minimal", "tech", "nature"}
	out := make([]Theme, 0, len(order))
	for _, id := range order {
		out = append(out, builtinThemes[id])
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.custom {
		out = append(out, t)
	}
	return out
}
