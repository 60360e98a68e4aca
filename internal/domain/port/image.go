package port

import "image"

// ImageDecoder декодирует присланное фото
type ImageDecoder interface {
	Decode(data []byte) (image.Image, error)
}

// QualityChecker отклоняет фото, непригодные для анализа
type QualityChecker interface {
	Check(img image.Image) error
}
