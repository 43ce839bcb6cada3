package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidStageToken = errors.New("invalid stage token")

type Kind int

const (
	KindSetup Kind = iota
	KindDraft
	KindDeckbuilding
	KindRound
	KindComplete
)

type SubState int

const (
	SubPaused SubState = iota
	SubActive
	SubComplete
)

// Stage is the fine-grained state machine value: coarse phase plus sub-state.
// It replaces string pattern matching everywhere inside the server; the token
// form exists only at the API boundary (Parse/String).
type Stage struct {
	Kind   Kind
	Number int // pack number for KindDraft, round number for KindRound
	Sub    SubState
}

func Setup() Stage { return Stage{Kind: KindSetup} }

func DraftPack(n int, sub SubState) Stage { return Stage{Kind: KindDraft, Number: n, Sub: sub} }

func DraftComplete() Stage { return Stage{Kind: KindDraft, Sub: SubComplete} }

func Deckbuilding(sub SubState) Stage { return Stage{Kind: KindDeckbuilding, Sub: sub} }

func Round(n int, sub SubState) Stage { return Stage{Kind: KindRound, Number: n, Sub: sub} }

func Complete() Stage { return Stage{Kind: KindComplete} }

func (s SubState) suffix() string {
	switch s {
	case SubActive:
		return "active"
	case SubComplete:
		return "complete"
	default:
		return "paused"
	}
}

// String renders the wire token, e.g. "draft:pack2_active" or "round:3_paused".
func (s Stage) String() string {
	switch s.Kind {
	case KindSetup:
		return "setup:configuring"
	case KindDraft:
		if s.Sub == SubComplete {
			return "draft:complete"
		}
		return fmt.Sprintf("draft:pack%d_%s", s.Number, s.Sub.suffix())
	case KindDeckbuilding:
		return "deckbuilding:" + s.Sub.suffix()
	case KindRound:
		return fmt.Sprintf("round:%d_%s", s.Number, s.Sub.suffix())
	case KindComplete:
		return "complete:final"
	}
	return "unknown"
}

func parseSub(s string) (SubState, bool) {
	switch s {
	case "paused":
		return SubPaused, true
	case "active":
		return SubActive, true
	case "complete":
		return SubComplete, true
	}
	return SubPaused, false
}

// Parse converts a wire token back into a Stage.
func Parse(token string) (Stage, error) {
	group, rest, found := strings.Cut(token, ":")
	if !found {
		return Stage{}, fmt.Errorf("%w: %q", ErrInvalidStageToken, token)
	}
	switch group {
	case "setup":
		if rest == "configuring" {
			return Setup(), nil
		}
	case "draft":
		if rest == "complete" {
			return DraftComplete(), nil
		}
		numPart, subPart, ok := strings.Cut(rest, "_")
		if ok && strings.HasPrefix(numPart, "pack") {
			n, err := strconv.Atoi(strings.TrimPrefix(numPart, "pack"))
			if sub, subOK := parseSub(subPart); err == nil && subOK && n >= 1 && n <= 3 && sub != SubComplete {
				return DraftPack(n, sub), nil
			}
		}
	case "deckbuilding":
		if sub, ok := parseSub(rest); ok {
			return Deckbuilding(sub), nil
		}
	case "round":
		numPart, subPart, ok := strings.Cut(rest, "_")
		if ok {
			n, err := strconv.Atoi(numPart)
			if sub, subOK := parseSub(subPart); err == nil && subOK && n >= 1 {
				return Round(n, sub), nil
			}
		}
	case "complete":
		if rest == "final" {
			return Complete(), nil
		}
	}
	return Stage{}, fmt.Errorf("%w: %q", ErrInvalidStageToken, token)
}

// completePosition is far beyond any realistic round count, so complete:final
// always orders last.
const completePosition = 1 << 20

// Position maps the stage onto the fixed canonical ordering:
// setup, pack1 paused/active .. pack3, draft complete, deckbuilding
// paused/active/complete, round1 paused/active/complete, round2, ...,
// complete:final. Only relative order matters.
func (s Stage) Position() int {
	switch s.Kind {
	case KindSetup:
		return 0
	case KindDraft:
		if s.Sub == SubComplete {
			return 7
		}
		return 1 + (s.Number-1)*2 + int(s.Sub)
	case KindDeckbuilding:
		return 8 + int(s.Sub)
	case KindRound:
		return 11 + (s.Number-1)*3 + int(s.Sub)
	default:
		return completePosition
	}
}

// IsBackwardFrom reports whether moving from current to s walks the canonical
// ordering backwards.
func (s Stage) IsBackwardFrom(current Stage) bool {
	return s.Position() < current.Position()
}
