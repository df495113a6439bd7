package application

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/lokisoft/site/blog/domain"
)

// extractBlocks classifies every top-level node of the sanitized body into a
// typed content block. Unrecognized nodes pass through as plain HTML, so the
// concatenation of all blocks always covers the whole body.
func extractBlocks(doc *goquery.Document) []domain.ContentBlock {
	var blocks []domain.ContentBlock
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, classifyBlock(s))
	})
	return blocks
}

func classifyBlock(s *goquery.Selection) domain.ContentBlock {
	switch goquery.NodeName(s) {
	case "pre":
		if code := s.Find("code").First(); code.Length() > 0 {
			return domain.ContentBlock{
				Kind:     domain.BlockCode,
				Language: codeLanguage(code),
				Text:     code.Text(),
			}
		}
	case "div":
		if variant, ok := widgetAttr(s, "data-info-box", "datainfobox"); ok {
			return domain.ContentBlock{
				Kind:    domain.BlockInfoBox,
				Variant: variant,
				Title:   titleAttr(s, ""),
				HTML:    innerHTML(s),
			}
		}
		if state, ok := widgetAttr(s, "data-toggle-box", "datatogglebox"); ok {
			return domain.ContentBlock{
				Kind:  domain.BlockToggleBox,
				Open:  state == "open",
				Title: titleAttr(s, "Click to expand"),
				HTML:  innerHTML(s),
			}
		}
		if _, ok := widgetAttr(s, "data-quiz-group", "dataquizgroup"); ok {
			if questions := quizQuestions(s); len(questions) > 0 {
				return domain.ContentBlock{
					Kind:      domain.BlockQuizGroup,
					Title:     titleAttr(s, ""),
					Questions: questions,
				}
			}
		}
	case "ul":
		if s.Find(`input[type="checkbox"]`).Length() > 0 {
			return domain.ContentBlock{
				Kind:  domain.BlockChecklist,
				Items: checklistItems(s),
			}
		}
	}

	return domain.ContentBlock{
		Kind: domain.BlockHTML,
		HTML: outerHTML(s),
	}
}

func codeLanguage(code *goquery.Selection) string {
	class, _ := code.Attr("class")
	for _, field := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(field, "language-"); ok {
			return lang
		}
	}
	return ""
}

// quizQuestions parses the questions of a quiz group. A question without
// text or without options is dropped, matching how the site hydrates these
// widgets.
func quizQuestions(group *goquery.Selection) []domain.QuizQuestion {
	var questions []domain.QuizQuestion

	group.Find("[data-quiz-question], [dataquizquestion]").Each(func(_ int, q *goquery.Selection) {
		text, _ := widgetAttr(q, "data-quiz-question", "dataquizquestion")

		correct := 0
		if raw, ok := widgetAttr(q, "data-correct", "datacorrect"); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				correct = n
			}
		}

		explanation, _ := widgetAttr(q, "data-explanation", "dataexplanation")

		var options []string
		q.Find("[data-quiz-option], [dataquizoption]").Each(func(_ int, opt *goquery.Selection) {
			options = append(options, strings.TrimSpace(opt.Text()))
		})

		if text == "" || len(options) == 0 {
			return
		}
		questions = append(questions, domain.QuizQuestion{
			Question:     text,
			Options:      options,
			CorrectIndex: correct,
			Explanation:  explanation,
		})
	})

	return questions
}

func checklistItems(list *goquery.Selection) []domain.ChecklistItem {
	var items []domain.ChecklistItem
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		_, checked := li.Find(`input[type="checkbox"]`).First().Attr("checked")
		items = append(items, domain.ChecklistItem{
			Text:    strings.TrimSpace(li.Text()),
			Checked: checked,
		})
	})
	return items
}

func widgetAttr(s *goquery.Selection, kebab, folded string) (string, bool) {
	if v, ok := s.Attr(kebab); ok {
		return v, true
	}
	return s.Attr(folded)
}

func titleAttr(s *goquery.Selection, fallback string) string {
	if v, ok := widgetAttr(s, "data-title", "datatitle"); ok && v != "" {
		return v
	}
	return fallback
}

func innerHTML(s *goquery.Selection) string {
	h, err := s.Html()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to serialize block content")
		return ""
	}
	return h
}

func outerHTML(s *goquery.Selection) string {
	h, err := goquery.OuterHtml(s)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to serialize block")
		return ""
	}
	return h
}
