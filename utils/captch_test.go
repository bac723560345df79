package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCaptchaDefaults(t *testing.T) {
	img, code := RenderCaptcha(CaptchaOptions{})

	assert.Len(t, code, 4)
	for _, ch := range code {
		assert.True(t, strings.ContainsRune(DefaultCaptchaAlphabet, ch), string(ch))
	}
	assert.True(t, strings.HasPrefix(string(img), "<?xml"))
	assert.Contains(t, string(img), `width="110"`)
	assert.Contains(t, string(img), "</svg>")
}

func TestRenderCaptchaCustomAlphabet(t *testing.T) {
	img, code := RenderCaptcha(CaptchaOptions{Width: 200, Height: 60, Length: 6, Alphabet: "7"})

	assert.Equal(t, "777777", code)
	assert.Contains(t, string(img), `width="200"`)
	assert.Equal(t, 6, strings.Count(string(img), "<text"))
}
