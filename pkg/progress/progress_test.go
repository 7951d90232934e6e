package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBars(t *testing.T) {
	var buf bytes.Buffer
	b := NewBars(&buf)

	t.Run("step before start is ignored", func(t *testing.T) {
		b.Step("app")
		b.Stop()
		assert.Nil(t, b.bar)
	})

	t.Run("counts repositories", func(t *testing.T) {
		b.Start(2)
		b.Step("app")
		b.Step("web")
		b.Stop()
		assert.Equal(t, 2, b.bar.Current())
	})
}
