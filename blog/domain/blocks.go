package domain

// BlockKind discriminates the variants of ContentBlock.
type BlockKind string

const (
	BlockCode      BlockKind = "code"
	BlockInfoBox   BlockKind = "info_box"
	BlockToggleBox BlockKind = "toggle_box"
	BlockQuizGroup BlockKind = "quiz_group"
	BlockChecklist BlockKind = "checklist"
	BlockHTML      BlockKind = "html"
)

// ContentBlock is one top-level block of a rendered post body. The render
// pipeline walks the sanitized tree once and converts nodes tagged with the
// recognized data-* attributes into typed blocks, so the presentation layer
// renders rich widgets without re-parsing attributes.
//
// Which fields are set depends on Kind:
//
//	code:       Language, Text
//	info_box:   Variant (info|hint|warning|danger|success), Title, HTML
//	toggle_box: Title, Open, HTML
//	quiz_group: Title, Questions
//	checklist:  Items
//	html:       HTML (the serialized node, unchanged)
type ContentBlock struct {
	Kind      BlockKind       `json:"kind"`
	HTML      string          `json:"html,omitempty"`
	Text      string          `json:"text,omitempty"`
	Language  string          `json:"language,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Title     string          `json:"title,omitempty"`
	Open      bool            `json:"open,omitempty"`
	Items     []ChecklistItem `json:"items,omitempty"`
	Questions []QuizQuestion  `json:"questions,omitempty"`
}

// ChecklistItem is one entry of a task list.
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// QuizQuestion is one question of a quiz group. CorrectIndex points into
// Options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}
