package curation

import "fmt"

type promptKind int

const (
	promptPersonalized promptKind = iota
	promptTopic
)

const DefaultTopic = "general"

// PromptSpec is the tagged choice between a personalized profile filter and
// the conservative topic fallback. One builder renders both.
type PromptSpec struct {
	kind    promptKind
	profile string
	topic   string
}

func PersonalizedPrompt(profile string) PromptSpec {
	return PromptSpec{kind: promptPersonalized, profile: profile}
}

func TopicPrompt(topic string) PromptSpec {
	if topic == "" {
		topic = DefaultTopic
	}
	return PromptSpec{kind: promptTopic, topic: topic}
}

func (p PromptSpec) Personalized() bool {
	return p.kind == promptPersonalized
}

// Instruction renders the selection criteria handed to the scorer.
func (p PromptSpec) Instruction() string {
	switch p.kind {
	case promptPersonalized:
		return fmt.Sprintf(
			"Select articles strictly matching this user's interest profile. "+
				"Respect both what the user wants to see and what they want to avoid.\n\nUser profile: %s",
			p.profile,
		)
	default:
		return fmt.Sprintf(
			"Select articles clearly about the topic %q. Be conservative: "+
				"reject articles that only mention the topic in passing.",
			p.topic,
		)
	}
}
