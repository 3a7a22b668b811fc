package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type outputDownload struct {
	filePath  string
	filename  string
	expiresAt time.Time
}

// downloadStore 输出文件下载令牌存储
type downloadStore struct {
	mu    sync.Mutex
	items map[string]outputDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]outputDownload),
	}
}

func (s *downloadStore) put(filePath, filename string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = outputDownload{
		filePath:  filePath,
		filename:  filename,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (outputDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return outputDownload{}, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return outputDownload{}, false
	}
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
