package prompt

import (
	"fmt"
	"io"
)

const (
	DefaultTopic = "Which AI membership to purchase for a CS AI master's student in Los Angeles who codes, studies ML/DL, enjoys anime/Dota2/PC DIY, and wants real-time hardware prices in chat."

	DefaultBackground = "User: Computer AI master's student in Los Angeles, codes a lot, asks ML/DL questions, likes anime, Dota2, PC DIY, " +
		"wishes the model can provide real-time hardware prices in conversation."
)

// Options are the memberships the user is choosing between. Copilot has no
// debater of its own but is always listed.
var Options = []string{
	"ChatGPT (OpenAI): General purpose, excellent at code, ML/DL Q&A, and supports many plugins including web browsing for real-time info.",
	"Gemini (Google): Strong at code, seamless integration with Google ecosystem, and good at academic tasks. Supports image input and latest web info.",
	"Copilot (GitHub): Best for in-IDE code completion, deep code understanding, but limited for general Q&A or outside-code topics. No real-time market/chat features. Not available as a conversational API here, but an option for developers.",
}

func WriteOptions(w io.Writer) {
	fmt.Fprintln(w, "====== AI Membership Options ======")
	for i, opt := range Options {
		fmt.Fprintf(w, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintln(w)
}

// Persona names the debater and the rival it argues against.
type Persona struct {
	Self     string
	Opponent string
}

var (
	ChatGPT = Persona{Self: "ChatGPT", Opponent: "Gemini"}
	Gemini  = Persona{Self: "Gemini", Opponent: "ChatGPT"}
)

func (p Persona) intro() string {
	return fmt.Sprintf("You are debating as %s, against %s, to persuade a user to buy your membership instead of competitors (Copilot, Gemini, ChatGPT). ", p.Self, p.Opponent)
}

const instructions = "Be persuasive, concise, and relevant to the user's background. Make sure to address why you are the best fit for this user. "

// System is the system message for chat-style APIs.
func (p Persona) System(background string) string {
	return p.intro() +
		fmt.Sprintf("The user's background: %s ", background) +
		instructions +
		"Do not talk about Copilot as if you are Copilot, just mention it as an option."
}

// User is the user message for chat-style APIs.
func (p Persona) User(topic string) string {
	return fmt.Sprintf("Debate why the user should buy your AI service membership instead of %s or Copilot. Topic: %s", p.Opponent, topic)
}

// Composed folds the whole debate brief into a single prompt, for APIs that
// take one block of text.
func (p Persona) Composed(topic, background string) string {
	return p.intro() +
		fmt.Sprintf("The user's background: %s ", background) +
		instructions +
		fmt.Sprintf("Debate why the user should buy your AI service membership instead of %s or Copilot. Topic: %s.", p.Opponent, topic)
}
