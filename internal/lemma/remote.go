package lemma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Remote is a client for an external lemmatization service
type Remote struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemote creates a new lemmatization service client
func NewRemote(baseURL, token string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// lemmaRequest represents a request to the lemmatization service
type lemmaRequest struct {
	Language string `json:"language"`
	Word     string `json:"word"`
}

// lemmaResponse represents a response from the lemmatization service
type lemmaResponse struct {
	Lemma string `json:"lemma"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Lemmatize asks the service for the base form of a word
func (r *Remote) Lemmatize(ctx context.Context, language, word string) (string, error) {
	request := lemmaRequest{
		Language: language,
		Word:     Normalize(word),
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lemmatization service returned status %d", resp.StatusCode)
	}

	var response lemmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("service error: %s", response.Error.Message)
	}

	if response.Lemma == "" {
		return "", fmt.Errorf("service returned an empty lemma for %q", word)
	}

	return Normalize(response.Lemma), nil
}
