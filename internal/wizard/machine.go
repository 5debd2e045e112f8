// Package wizard implements the conversational bouquet-builder state machine.
// The machine is a pure reducer: Advance takes an immutable state plus the
// customer's input and returns the next state and a list of effects. Remote
// calls happen outside the reducer, in the service that executes the effects.
package wizard

import (
	"strconv"
	"strings"
)

type Step string

const (
	StepRecipient Step = "RECIPIENT"
	StepOccasion  Step = "OCCASION"
	StepBudget    Step = "BUDGET"
	StepColors    Step = "COLORS"
	StepStyle     Step = "STYLE"
	StepNotes     Step = "NOTES"
	StepWrapping  Step = "WRAPPING"
	StepRecommend Step = "RECOMMEND"
)

// MinBudget is the minimum order total in ILS. Budgets below it are rejected
// at the BUDGET step.
const MinBudget = 70.0

// WrappingPaper is the default wrapping when the shop stocks no vases or the
// customer declines one.
const WrappingPaper = "wrapping paper"

// Answers accumulates the customer's replies across steps.
type Answers struct {
	Recipient string  `json:"recipient" bson:"recipient"`
	Occasion  string  `json:"occasion" bson:"occasion"`
	Budget    float64 `json:"budget" bson:"budget"`
	Colors    string  `json:"colors" bson:"colors"`
	Style     string  `json:"style" bson:"style"`
	Notes     string  `json:"notes" bson:"notes"`
	Wrapping  string  `json:"wrapping" bson:"wrapping"`
}

// State is the full wizard position. It is treated as immutable: Advance
// returns a new value and never mutates its receiver's slices or pointers.
type State struct {
	Step    Step      `json:"step" bson:"step"`
	Answers Answers   `json:"answers" bson:"answers"`
	Vase    *VaseTier `json:"vase,omitempty" bson:"vase,omitempty"`

	// RetryStep is where the machine reverts to when the generation round
	// trip triggered from this state fails.
	RetryStep Step `json:"retry_step,omitempty" bson:"retry_step,omitempty"`
}

// Env carries the per-shop facts the reducer branches on.
type Env struct {
	HasVase bool
}

// Effect is an instruction for the caller, produced by the reducer.
type Effect interface{ isEffect() }

// Say appends an assistant turn to the transcript.
type Say struct{ Text string }

// Generate asks the caller to run the proposal + validation round trip and
// store the resulting recommendation.
type Generate struct{}

// Modify asks the caller to regenerate the existing recommendation according
// to a free-text instruction. Emitted only from the RECOMMEND step.
type Modify struct{ Instruction string }

func (Say) isEffect()      {}
func (Generate) isEffect() {}
func (Modify) isEffect()   {}

// Initial returns the starting state.
func Initial() State {
	return State{Step: StepRecipient}
}

// Greeting is the assistant's opening turn for a new session.
func Greeting() string {
	return "Hi! I'm your bouquet assistant. Who are the flowers for?"
}

// Revert moves the machine back to the step that triggered a failed
// generation so the customer can retry.
func (s State) Revert() State {
	if s.RetryStep != "" {
		s.Step = s.RetryStep
	}
	return s
}

// Advance feeds one customer input into the machine.
func Advance(s State, input string, env Env) (State, []Effect) {
	input = strings.TrimSpace(input)

	switch s.Step {
	case StepRecipient:
		s.Answers.Recipient = input
		s.Step = StepOccasion
		return s, []Effect{Say{"Lovely! What's the occasion?"}}

	case StepOccasion:
		s.Answers.Occasion = input
		s.Step = StepBudget
		return s, []Effect{Say{"What's your budget? Our minimum order is 70 ILS."}}

	case StepBudget:
		budget, err := parseBudget(input)
		if err != nil {
			return s, []Effect{Say{"I didn't catch a number there. How much would you like to spend, in ILS?"}}
		}
		if budget < MinBudget {
			return s, []Effect{Say{"Our minimum order is 70 ILS. Could you go a little higher?"}}
		}
		s.Answers.Budget = budget
		s.Step = StepColors
		return s, []Effect{Say{"Great. Any colors you'd like, or should I surprise you?"}}

	case StepColors:
		s.Answers.Colors = input
		s.Step = StepStyle
		return s, []Effect{Say{"And what style suits best - classic, romantic, modern, wild?"}}

	case StepStyle:
		s.Answers.Style = input
		s.Step = StepNotes
		return s, []Effect{Say{"Anything else I should know? Allergies, favourites, things to avoid?"}}

	case StepNotes:
		s.Answers.Notes = input
		if env.HasVase {
			s.Step = StepWrapping
			return s, []Effect{Say{"Would you like the bouquet in a vase, or wrapped in paper?"}}
		}
		// No vases in stock: wrapping is settled implicitly and we go
		// straight to generation.
		s.Answers.Wrapping = WrappingPaper
		s.RetryStep = StepNotes
		s.Step = StepRecommend
		return s, []Effect{Say{"Putting your bouquet together..."}, Generate{}}

	case StepWrapping:
		if strings.Contains(strings.ToLower(input), "vase") {
			tier := VaseForBudget(s.Answers.Budget)
			s.Answers.Wrapping = "vase"
			s.Vase = &tier
		} else {
			s.Answers.Wrapping = WrappingPaper
			s.Vase = nil
		}
		s.RetryStep = StepWrapping
		s.Step = StepRecommend
		return s, []Effect{Say{"Putting your bouquet together..."}, Generate{}}

	case StepRecommend:
		// Free text at the terminal step is a modification request; the
		// machine stays put while the recommendation is regenerated.
		return s, []Effect{Modify{Instruction: input}}
	}

	return s, nil
}

// parseBudget extracts a numeric budget from free text by stripping
// everything except digits and the decimal point.
func parseBudget(input string) (float64, error) {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}
