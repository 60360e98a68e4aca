package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"face-assess-bot/internal/domain/port"
)

// AssessmentCache кеширует ответы моделей, чтобы повторная отправка того же
// фото не вызывала платные запросы ещё раз.
type AssessmentCache struct {
	c *cache.Cache
}

type cachedTexts struct {
	assessment string
	report     string
}

// NewAssessmentCache создаёт кеш с заданным временем жизни записей.
func NewAssessmentCache(ttl time.Duration) *AssessmentCache {
	return &AssessmentCache{c: cache.New(ttl, 2*ttl)}
}

// CacheKey ключ кеша: модель + sha256 фото.
func CacheKey(model string, photo []byte) string {
	sum := sha256.Sum256(photo)
	return model + ":" + hex.EncodeToString(sum[:])
}

func (a *AssessmentCache) Get(model string, photo []byte) (string, string, bool) {
	v, ok := a.c.Get(CacheKey(model, photo))
	if !ok {
		return "", "", false
	}
	texts := v.(cachedTexts)
	return texts.assessment, texts.report, true
}

func (a *AssessmentCache) Put(model string, photo []byte, assessment, report string) {
	a.c.SetDefault(CacheKey(model, photo), cachedTexts{assessment: assessment, report: report})
}

var _ port.AssessmentCache = (*AssessmentCache)(nil)
