package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTokenRoundTrip(t *testing.T) {
	stages := []Stage{
		Setup(),
		DraftPack(1, SubPaused),
		DraftPack(1, SubActive),
		DraftPack(2, SubPaused),
		DraftPack(3, SubActive),
		DraftComplete(),
		Deckbuilding(SubPaused),
		Deckbuilding(SubActive),
		Deckbuilding(SubComplete),
		Round(1, SubPaused),
		Round(2, SubActive),
		Round(7, SubComplete),
		Complete(),
	}
	for _, stage := range stages {
		t.Run(stage.String(), func(t *testing.T) {
			parsed, err := Parse(stage.String())
			require.NoError(t, err)
			assert.Equal(t, stage, parsed)
		})
	}
}

func TestStageTokenFormat(t *testing.T) {
	assert.Equal(t, "setup:configuring", Setup().String())
	assert.Equal(t, "draft:pack2_active", DraftPack(2, SubActive).String())
	assert.Equal(t, "draft:complete", DraftComplete().String())
	assert.Equal(t, "deckbuilding:paused", Deckbuilding(SubPaused).String())
	assert.Equal(t, "round:3_complete", Round(3, SubComplete).String())
	assert.Equal(t, "complete:final", Complete().String())
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	invalid := []string{
		"",
		"setup",
		"setup:defaults",
		"draft:pack4_active",
		"draft:pack0_paused",
		"draft:pack1_complete",
		"draft:pack1",
		"round:0_active",
		"round:x_active",
		"round:2_running",
		"complete:done",
		"limbo:paused",
	}
	for _, token := range invalid {
		t.Run(token, func(t *testing.T) {
			_, err := Parse(token)
			assert.ErrorIs(t, err, ErrInvalidStageToken)
		})
	}
}

func TestCanonicalOrderingIsStrictlyIncreasing(t *testing.T) {
	ordered := []Stage{
		Setup(),
		DraftPack(1, SubPaused),
		DraftPack(1, SubActive),
		DraftPack(2, SubPaused),
		DraftPack(2, SubActive),
		DraftPack(3, SubPaused),
		DraftPack(3, SubActive),
		DraftComplete(),
		Deckbuilding(SubPaused),
		Deckbuilding(SubActive),
		Deckbuilding(SubComplete),
		Round(1, SubPaused),
		Round(1, SubActive),
		Round(1, SubComplete),
		Round(2, SubPaused),
		Round(2, SubActive),
		Round(2, SubComplete),
		Round(3, SubPaused),
		Complete(),
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Position(), ordered[i].Position(),
			"%s must order before %s", ordered[i-1], ordered[i])
	}
}

func TestIsBackwardFrom(t *testing.T) {
	assert.True(t, Setup().IsBackwardFrom(Round(1, SubActive)))
	assert.True(t, DraftPack(1, SubActive).IsBackwardFrom(Deckbuilding(SubPaused)))
	assert.False(t, Round(2, SubPaused).IsBackwardFrom(Round(1, SubComplete)))
	assert.False(t, Complete().IsBackwardFrom(Round(40, SubComplete)))
	assert.False(t, Setup().IsBackwardFrom(Setup()))
}
