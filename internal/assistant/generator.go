package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Generator: üretken yapay zeka arka ucuna tek atımlık istem gönderir.
// Sohbet geçmişi, istem kurgusu vs. burada yok; yalnızca metin girer,
// metin çıkar.
type Generator interface {
	Generate(prompt string) (string, error)
}

// HTTPGenerator: yapılandırılmış uca JSON POST atan basit istemci.
type HTTPGenerator struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewHTTPGenerator(endpoint, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *HTTPGenerator) Generate(prompt string) (string, error) {
	if g.Endpoint == "" {
		return "", fmt.Errorf("AI_ENDPOINT tanımlı değil")
	}

	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("istek gövdesi oluşturulamadı: %v", err)
	}

	req, err := http.NewRequest("POST", g.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("HTTP isteği oluşturulamadı: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP isteği başarısız: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP hatası: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("yanıt okunamadı: %v", err)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err == nil && out.Response != "" {
		return out.Response, nil
	}

	// Düz metin dönen uçlar için gövdeyi olduğu gibi kullan
	return string(body), nil
}
