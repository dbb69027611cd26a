package assistant

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
)

const (
	cacheTTL      = 30 * time.Minute
	cacheCapacity = 100
	sweepInterval = 5 * time.Minute

	// Benzer sorgu aramasında karşılaştırılan önek uzunluğu
	similarPrefixLen = 30
	// Anahtara eklenen normalize metin örneği uzunluğu
	keySampleLen = 50
)

type cacheEntry struct {
	normalized string
	response   string
	writtenAt  time.Time
}

// ResponseCache: üretken yapay zeka çağrısının önünde süreç-yerel, süreli
// bellek içi önbellek. Yalnızca gecikme/maliyet optimizasyonudur; süreç
// yeniden başlayınca kaybolması sorun değildir. Start/Stop ile periyodik
// süpürme döngüsü açıkça yönetilir, saat testler için enjekte edilir.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	now     func() time.Time
	done    chan struct{}
}

func NewResponseCache() *ResponseCache {
	return newResponseCache(time.Now)
}

func newResponseCache(now func() time.Time) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]*cacheEntry),
		now:     now,
	}
}

// normalizeQuery: küçük harfe çevir, kırp, iç boşlukları tekle, harf ve
// rakam dışındaki karakterleri at.
func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))

	var b strings.Builder
	lastSpace := false
	for _, r := range q {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// cacheKey: normalize metnin 32-bit kayan hash'i + ilk 50 karakteri.
// Kriptografik değil; yalnızca anahtarı kısaltmak için.
func cacheKey(normalized string) string {
	var h uint32
	for _, r := range normalized {
		h = h*31 + uint32(r)
	}
	sample := normalized
	if len(sample) > keySampleLen {
		sample = sample[:keySampleLen]
	}
	return fmt.Sprintf("%08x:%s", h, sample)
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Get: önce birebir eşleşme; yoksa ilk 30 karakteri aynı olan bir girdi
// aranır (doğrusal tarama, O(önbellek boyutu)). Süresi dolmuş girdiler
// erişim sırasında tembelce temizlenir.
func (c *ResponseCache) Get(query string) (string, bool) {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := cacheKey(normalized)

	if e, ok := c.entries[key]; ok {
		if now.Sub(e.writtenAt) < cacheTTL {
			return e.response, true
		}
		delete(c.entries, key)
	}

	prefix := firstN(normalized, similarPrefixLen)
	for k, e := range c.entries {
		if now.Sub(e.writtenAt) >= cacheTTL {
			delete(c.entries, k)
			continue
		}
		if firstN(e.normalized, similarPrefixLen) == prefix {
			return e.response, true
		}
	}

	return "", false
}

// Set: kapasite aşılacaksa önce en eski %20 girdi atılır. Önbellek boyutu
// hiçbir zaman kapasiteyi aşmaz.
func (c *ResponseCache) Set(query, response string) {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(normalized)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= cacheCapacity {
		c.evictOldestLocked(cacheCapacity / 5)
	}

	c.entries[key] = &cacheEntry{
		normalized: normalized,
		response:   response,
		writtenAt:  c.now(),
	}
}

// evictOldestLocked: yazım zamanına göre en eski n girdiyi siler.
// Çağıranın kilidi tutuyor olması gerekir.
func (c *ResponseCache) evictOldestLocked(n int) {
	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, at: e.writtenAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	for i := 0; i < n && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
}

// Sweep: süresi dolmuş tüm girdileri temizler.
func (c *ResponseCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.writtenAt) >= cacheTTL {
			delete(c.entries, k)
		}
	}
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Start: 5 dakikada bir Sweep çağıran arka plan döngüsünü başlatır.
func (c *ResponseCache) Start() {
	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return // zaten çalışıyor
	}
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-done:
				return
			}
		}
	}()
}

// Stop: süpürme döngüsünü durdurur. Start edilmediyse no-op.
func (c *ResponseCache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}
