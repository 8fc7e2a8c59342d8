package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pulse-backend/internal/usecase"
)

// MLTextGenerator обращается к внешнему сервису генерации текста по HTTP.
// Таймаут задаётся контекстом вызывающей стороны
type MLTextGenerator struct {
	url    string
	client *http.Client
}

func NewMLTextGenerator(url string) usecase.TextGenerator {
	return &MLTextGenerator{
		url:    url,
		client: &http.Client{},
	}
}

func (g *MLTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("сервис генерации вернул статус %d", resp.StatusCode)
	}

	var serverAnswer struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&serverAnswer); err != nil {
		return "", err
	}

	return serverAnswer.Response, nil
}
