// Package imageio декодирует присланные фото.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"face-assess-bot/internal/domain/entity"
)

// Limits ограничения на входное фото.
type Limits struct {
	MaxBytes  int // 0: без ограничения
	MaxPixels int // 0: без ограничения
}

// DefaultLimits подходит для фото из Telegram и с телефона.
var DefaultLimits = Limits{
	MaxBytes:  20 << 20,
	MaxPixels: 40_000_000,
}

// Decode проверяет размер и декодирует JPEG, PNG, GIF или WebP.
// Все ошибки возвращаются как entity.InvalidInputError.
func Decode(data []byte, limits Limits) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", entity.NewInvalidInput("image", "empty payload")
	}
	if limits.MaxBytes > 0 && len(data) > limits.MaxBytes {
		return nil, "", entity.NewInvalidInput("image", fmt.Sprintf("payload is %d bytes, limit %d", len(data), limits.MaxBytes))
	}

	// Сначала читаем только заголовок, чтобы не распаковывать огромные картинки
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", entity.NewInvalidInput("image", "unsupported or corrupted image: "+err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", entity.NewInvalidInput("image", "zero-sized image")
	}
	if limits.MaxPixels > 0 && cfg.Width*cfg.Height > limits.MaxPixels {
		return nil, "", entity.NewInvalidInput("image", fmt.Sprintf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, limits.MaxPixels))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", entity.NewInvalidInput("image", "decode: "+err.Error())
	}
	return img, format, nil
}

// Decoder реализует port.ImageDecoder с заданными ограничениями.
type Decoder struct {
	Limits Limits
}

// NewDecoder создаёт декодер; нулевой maxBytes оставляет значение по умолчанию.
func NewDecoder(maxBytes int) *Decoder {
	limits := DefaultLimits
	if maxBytes > 0 {
		limits.MaxBytes = maxBytes
	}
	return &Decoder{Limits: limits}
}

func (d *Decoder) Decode(data []byte) (image.Image, error) {
	img, _, err := Decode(data, d.Limits)
	return img, err
}
