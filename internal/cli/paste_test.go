package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasteReader_ReadAll(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "several lines", input: "Order: Dal | Name: Asha | Date: 06/27/24\nhello\n"},
		{name: "no trailing newline", input: "Order: Dal | Name: Asha | Date: 06/27/24"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := NewPasteReader(strings.NewReader(tt.input)).ReadAll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.input, text)
		})
	}
}

func TestPasteReader_ReadError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("first\n"), iotest.ErrReader(assert.AnError))

	text, err := NewPasteReader(r).ReadAll(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "first\n", text)
}

func TestPasteReader_ContextCancellation(t *testing.T) {
	t.Run("immediate cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		text, err := NewPasteReader(strings.NewReader("ignored\n")).ReadAll(ctx)
		assert.Equal(t, ErrInputCancelled, err)
		assert.Empty(t, text)
	})

	t.Run("cancellation keeps lines already read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		defer func() { _ = pw.Close() }()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			_, _ = pw.Write([]byte("Order: Dal | Name: Asha | Date: 06/27/24\n"))
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		text, err := NewPasteReader(pr).ReadAll(ctx)
		assert.Equal(t, ErrInputCancelled, err)
		assert.Equal(t, "Order: Dal | Name: Asha | Date: 06/27/24\n", text)
	})
}

func TestNewPasteReader_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewPasteReader(nil) })
}
