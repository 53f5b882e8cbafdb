package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultVisualizationConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultVisualizationConfig()

		assert.Equal(t, LayoutLeftRight, config.Direction, "Default direction should be LR")
		assert.Equal(t, 5, config.FallbackLimit, "Default FallbackLimit should be 5")
		assert.Equal(t, 50.0, config.NodeSeparation, "Default NodeSeparation should be 50")
		assert.Equal(t, 50.0, config.RankSeparation, "Default RankSeparation should be 50")
		assert.Equal(t, 10*time.Minute, config.CacheTTL, "Default CacheTTL should be 10 minutes")
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultVisualizationConfig()
		config.Direction = LayoutTopBottom
		config.FallbackLimit = 2

		assert.Equal(t, LayoutTopBottom, config.Direction)
		assert.Equal(t, 2, config.FallbackLimit)
		assert.Equal(t, 5, DefaultVisualizationConfig().FallbackLimit, "Defaults should not be shared")
	})
}

func TestParseLayoutDirection(t *testing.T) {
	assert.Equal(t, LayoutTopBottom, ParseLayoutDirection("TB"))
	assert.Equal(t, LayoutLeftRight, ParseLayoutDirection("LR"))
	assert.Equal(t, LayoutLeftRight, ParseLayoutDirection("tb"), "Parsing is case sensitive")
	assert.Equal(t, LayoutLeftRight, ParseLayoutDirection(""))
	assert.Equal(t, LayoutLeftRight, ParseLayoutDirection("RL"))
}
