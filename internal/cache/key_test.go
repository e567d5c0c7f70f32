package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xess-engine/xsc/internal/shader"
)

const keyTestSource = `@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestDeriveKeyDeterminism(t *testing.T) {
	opts := shader.DefaultOptions()
	opts.Macros = []shader.Macro{
		{Name: "QUALITY", Definition: "2"},
		{Name: "USE_FOG", Definition: "1"},
	}

	key1 := DeriveKey(keyTestSource, shader.StagePixel, opts)
	key2 := DeriveKey(keyTestSource, shader.StagePixel, opts)
	assert.Equal(t, key1, key2, "identical inputs must yield the identical key")
}

func TestDeriveKeySensitivity(t *testing.T) {
	base := shader.DefaultOptions()
	baseKey := DeriveKey(keyTestSource, shader.StagePixel, base)

	t.Run("source", func(t *testing.T) {
		key := DeriveKey(keyTestSource+" ", shader.StagePixel, base)
		assert.NotEqual(t, baseKey, key)
	})

	t.Run("stage", func(t *testing.T) {
		key := DeriveKey(keyTestSource, shader.StageVertex, base)
		assert.NotEqual(t, baseKey, key)
	})

	t.Run("model", func(t *testing.T) {
		opts := base
		opts.TargetModel = shader.SM5_1
		assert.NotEqual(t, baseKey, DeriveKey(keyTestSource, shader.StagePixel, opts))
	})

	t.Run("debug flag", func(t *testing.T) {
		opts := base
		opts.DebugInfo = true
		assert.NotEqual(t, baseKey, DeriveKey(keyTestSource, shader.StagePixel, opts))
	})

	t.Run("optimization level", func(t *testing.T) {
		opts := base
		opts.OptimizationLevel = 0
		assert.NotEqual(t, baseKey, DeriveKey(keyTestSource, shader.StagePixel, opts))
	})

	t.Run("macros", func(t *testing.T) {
		opts := base
		opts.Macros = []shader.Macro{{Name: "X", Definition: "1"}}
		assert.NotEqual(t, baseKey, DeriveKey(keyTestSource, shader.StagePixel, opts))
	})

	t.Run("include paths do not participate", func(t *testing.T) {
		opts := base
		opts.IncludePaths = []string{"/some/where"}
		assert.Equal(t, baseKey, DeriveKey(keyTestSource, shader.StagePixel, opts))
	})
}

func TestDeriveKeyMacroOrderSignificant(t *testing.T) {
	a := shader.DefaultOptions()
	a.Macros = []shader.Macro{
		{Name: "A", Definition: "1"},
		{Name: "B", Definition: "2"},
	}

	b := shader.DefaultOptions()
	b.Macros = []shader.Macro{
		{Name: "B", Definition: "2"},
		{Name: "A", Definition: "1"},
	}

	// Order is part of the identity: persisted caches are keyed by it.
	assert.NotEqual(t,
		DeriveKey(keyTestSource, shader.StagePixel, a),
		DeriveKey(keyTestSource, shader.StagePixel, b))
}

func TestKeyHex(t *testing.T) {
	assert.Equal(t, "ff", Key(255).Hex())
	assert.Equal(t, "0", Key(0).Hex())
}
