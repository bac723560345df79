package utils

import (
	"bytes"
	"fmt"
	"math/rand"

	svg "github.com/ajstarks/svgo"
)

// DefaultCaptchaAlphabet 去掉了 0/O、1/I/L 等容易看错的字符
const DefaultCaptchaAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// CaptchaOptions 验证码图片尺寸、长度和字符集，零值使用默认值
type CaptchaOptions struct {
	Width    int
	Height   int
	Length   int
	Alphabet string
}

func (o CaptchaOptions) withDefaults() CaptchaOptions {
	if o.Width <= 0 {
		o.Width = 110
	}
	if o.Height <= 0 {
		o.Height = 40
	}
	if o.Length <= 0 {
		o.Length = 4
	}
	if o.Alphabet == "" {
		o.Alphabet = DefaultCaptchaAlphabet
	}
	return o
}

func randomCode(alphabet []rune, length int) string {
	code := make([]rune, length)
	for i := range code {
		code[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(code)
}

// 浅色，避免盖住字符
func lightColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.Intn(96)+160, rand.Intn(96)+160, rand.Intn(96)+160)
}

// 深色用于字符本身
func darkColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.Intn(120), rand.Intn(120), rand.Intn(120))
}

// RenderCaptcha 生成 SVG 验证码，返回图片和验证码文本（登录时大小写不敏感比对）
func RenderCaptcha(opts CaptchaOptions) ([]byte, string) {
	opts = opts.withDefaults()
	code := randomCode([]rune(opts.Alphabet), opts.Length)
	w, h := opts.Width, opts.Height

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:white")

	for i := 0; i < opts.Length+2; i++ {
		canvas.Line(rand.Intn(w), rand.Intn(h), rand.Intn(w), rand.Intn(h),
			fmt.Sprintf("stroke:%s;stroke-width:1", lightColor()))
	}
	for i := 0; i < w*h/150; i++ {
		canvas.Circle(rand.Intn(w), rand.Intn(h), 1, "fill:"+lightColor())
	}

	step := w / (opts.Length + 1)
	fontSize := h / 2
	if step < fontSize {
		fontSize = step
	}
	for i, ch := range []rune(code) {
		x := step * (i + 1)
		y := h/2 + fontSize/3 + rand.Intn(7) - 3
		canvas.Text(x, y, string(ch),
			fmt.Sprintf("text-anchor:middle;font-family:monospace;font-size:%dpx;fill:%s", fontSize, darkColor()),
			fmt.Sprintf(`transform="rotate(%d,%d,%d)"`, rand.Intn(30)-15, x, y))
	}

	canvas.End()
	return buf.Bytes(), code
}
