package generator

import "strings"

const SystemPrompt = "You are a creative story writer. Output only valid JSON with the exact structure requested."

const themePlaceholder = "{{THEME}}"

const userPromptTemplate = `Write a {{THEME}} choose-your-own-adventure story with exactly ONE winning path.

Shape of the tree (7 nodes):
- The opening node offers 2 choices, A and B.
- Choice A leads to a node with 2 choices, both ending in failure.
- Choice B leads to a node with 2 choices: one ends in success, the other in failure.

Respond with JSON only, in exactly this format:

{
  "title": "Story title",
  "rootNode": {
    "content": "The opening situation and the first decision.",
    "isEnding": false,
    "isWinningEnding": false,
    "options": [
      {
        "text": "A tempting but wrong approach",
        "nextNode": {
          "content": "Things start to go wrong.",
          "isEnding": false,
          "isWinningEnding": false,
          "options": [
            {"text": "First bad choice", "nextNode": {"content": "FAILURE: how it went wrong.", "isEnding": true, "isWinningEnding": false, "options": []}},
            {"text": "Second bad choice", "nextNode": {"content": "FAILURE: a different way it went wrong.", "isEnding": true, "isWinningEnding": false, "options": []}}
          ]
        }
      },
      {
        "text": "The smarter approach",
        "nextNode": {
          "content": "A better position, but one more decision remains.",
          "isEnding": false,
          "isWinningEnding": false,
          "options": [
            {"text": "The winning move", "nextNode": {"content": "SUCCESS: how careful thinking paid off.", "isEnding": true, "isWinningEnding": true, "options": []}},
            {"text": "Almost, but not quite", "nextNode": {"content": "FAILURE: one last mistake.", "isEnding": true, "isWinningEnding": false, "options": []}}
          ]
        }
      }
    ]
  }
}

Rules:
- Choices must follow logically from the situation.
- The winning path should make sense in hindsight without being obvious up front.
- Three failures and one success.
- Keep the writing suspenseful.`

// UserPrompt renders the story request for the given theme.
func UserPrompt(theme string) string {
	return strings.ReplaceAll(userPromptTemplate, themePlaceholder, theme)
}
