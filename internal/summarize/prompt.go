package summarize

import (
	"fmt"
	"strings"
)

// BuildChunkPrompt asks for a summary of one chunk.
func BuildChunkPrompt(language Language, style Style, chunk string) string {
	return fmt.Sprintf("Summarize the following text in %s with %s style:\n%s", language, style, chunk)
}

// BuildRefinePrompt asks the model to merge chunk summaries into one.
func BuildRefinePrompt(language Language, summaries []string) string {
	return fmt.Sprintf("Combine and refine these summaries into one clear summary in %s:\n\n%s",
		language, strings.Join(summaries, "\n\n"))
}

// BuildQuestionPrompt restricts the answer to the supplied text.
func BuildQuestionPrompt(text, question string) string {
	return fmt.Sprintf("Answer the question based only on this text:\n\n%s\n\nQuestion: %s", text, question)
}
