package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/siherrmann/featuregraph/model"
)

// InputState is the state of the tag input while typing.
type InputState string

const (
	StateIdle        InputState = "IDLE"
	StateTypingKey   InputState = "TYPING_KEY"
	StateTypingValue InputState = "TYPING_VALUE"
)

// TagInput is the tag query text and the cursor position in bytes.
type TagInput struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

func (in TagInput) cursor() int {
	if in.Cursor < 0 {
		return 0
	}
	if in.Cursor > len(in.Text) {
		return len(in.Text)
	}
	return in.Cursor
}

// currentTagBounds returns the byte range of the whitespace delimited token around the cursor.
func (in TagInput) currentTagBounds() (start int, end int) {
	cursor := in.cursor()

	start = strings.LastIndexFunc(in.Text[:cursor], unicode.IsSpace) + 1
	end = len(in.Text)
	if i := strings.IndexFunc(in.Text[cursor:], unicode.IsSpace); i >= 0 {
		end = cursor + i
	}
	return start, end
}

// CurrentTag returns the part of the token under the cursor that precedes the cursor.
// It is empty when the cursor is between tokens or at the start of one.
func (in TagInput) CurrentTag() string {
	start, _ := in.currentTagBounds()
	return in.Text[start:in.cursor()]
}

// State returns IDLE without a current tag, TYPING_VALUE when the current tag
// contains a ':' and TYPING_KEY otherwise.
func (in TagInput) State() InputState {
	currentTag := in.CurrentTag()
	if currentTag == "" {
		return StateIdle
	}
	if strings.Contains(currentTag, ":") {
		return StateTypingValue
	}
	return StateTypingKey
}

// Mode returns the suggestion mode of the current state.
func (in TagInput) Mode() model.SuggestionMode {
	if in.State() == StateTypingValue {
		return model.SuggestionModeValue
	}
	return model.SuggestionModeKey
}

// Suggestions completes the current tag from the aggregated tag universe.
// In KEY mode keys containing the typed text are suggested with their value count,
// in VALUE mode the values seen for the typed key containing the partial value.
func Suggestions(aggregation model.TagAggregation, input TagInput) []model.TagSuggestion {
	suggestions := []model.TagSuggestion{}
	key, value, _ := strings.Cut(input.CurrentTag(), ":")

	if input.Mode() == model.SuggestionModeKey {
		for _, candidate := range Keys(aggregation) {
			if !strings.Contains(candidate, key) {
				continue
			}
			suggestions = append(suggestions, model.TagSuggestion{
				Suggestion:  candidate,
				Description: pluralize(len(aggregation[candidate]), "value"),
			})
		}
		return suggestions
	}

	for _, candidate := range aggregation[key] {
		if !strings.Contains(candidate, value) {
			continue
		}
		suggestions = append(suggestions, model.TagSuggestion{
			Suggestion:  candidate,
			Description: key,
		})
	}
	return suggestions
}

// Accept replaces the current tag with the accepted suggestion, key:value in VALUE
// mode and key: in KEY mode, followed by a space. The cursor moves behind that
// space, so the input is IDLE again.
func Accept(input TagInput, suggestion model.TagSuggestion) TagInput {
	start, end := input.currentTagBounds()

	var token string
	if input.Mode() == model.SuggestionModeValue {
		key, _, _ := strings.Cut(input.Text[start:end], ":")
		token = key + ":" + suggestion.Suggestion
	} else {
		token = suggestion.Suggestion + ":"
	}

	before := input.Text[:start]
	after := strings.TrimLeftFunc(input.Text[end:], unicode.IsSpace)
	text := before + token + " " + after

	return TagInput{Text: text, Cursor: len(before) + len(token) + 1}
}

// RemoveToken removes the i-th whitespace separated token and rejoins the rest with single spaces.
func RemoveToken(text string, i int) string {
	tokens := ParseTagTokens(text)
	if i < 0 || i >= len(tokens) {
		return strings.Join(tokens, " ")
	}
	return strings.Join(append(tokens[:i:i], tokens[i+1:]...), " ")
}

// ResultsCountLabel describes a suggestion list, e.g. "2 possible keys" while nothing
// is typed for the current tag and "1 matching value" once it narrows the list.
// It is empty without suggestions.
func ResultsCountLabel(currentTag string, mode model.SuggestionMode, count int) string {
	if count <= 0 {
		return ""
	}

	operatingWord := "matching"
	_, value, hasColon := strings.Cut(currentTag, ":")
	if currentTag == "" || (hasColon && value == "") {
		operatingWord = "possible"
	}

	counterWord := "value"
	if mode == model.SuggestionModeKey {
		counterWord = "key"
	}

	return fmt.Sprintf("%d %s %s", count, operatingWord, plural(count, counterWord))
}

// PlaceholderText builds the input hint from the first two suggestions: e.g. "a" or "b".
func PlaceholderText(suggestions []model.TagSuggestion) string {
	if len(suggestions) == 0 {
		return ""
	}

	quoted := make([]string, 0, 2)
	for _, s := range suggestions[:min(2, len(suggestions))] {
		quoted = append(quoted, `"`+s.Suggestion+`"`)
	}
	return "e.g. " + strings.Join(quoted, " or ")
}

func plural(count int, word string) string {
	if count > 1 {
		return word + "s"
	}
	return word
}

func pluralize(count int, word string) string {
	if count == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", count, word)
}

// SuggestionView is everything the tag input renders for one keystroke.
type SuggestionView struct {
	State        InputState            `json:"state"`
	Mode         model.SuggestionMode  `json:"mode"`
	CurrentTag   string                `json:"currentTag"`
	Suggestions  []model.TagSuggestion `json:"suggestions"`
	ResultsCount string                `json:"resultsCount"`
	Placeholder  string                `json:"placeholder"`
}

// Suggest computes the suggestion view for input.
func Suggest(aggregation model.TagAggregation, input TagInput) *SuggestionView {
	suggestions := Suggestions(aggregation, input)
	mode := input.Mode()
	currentTag := input.CurrentTag()

	return &SuggestionView{
		State:        input.State(),
		Mode:         mode,
		CurrentTag:   currentTag,
		Suggestions:  suggestions,
		ResultsCount: ResultsCountLabel(currentTag, mode, len(suggestions)),
		Placeholder:  PlaceholderText(Suggestions(aggregation, TagInput{})),
	}
}
