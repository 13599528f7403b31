package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"
)

// Credentials holds the OAuth 1.0a user-context keys for the posting account.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// TwitterPublisher posts a tweet with attached media via the Twitter API:
// the v1.1 media upload endpoint followed by the v2 create-tweet endpoint.
type TwitterPublisher struct {
	client    *http.Client
	uploadURL string
	tweetURL  string
}

func NewTwitterPublisher(creds Credentials, timeout time.Duration) *TwitterPublisher {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	client := config.Client(oauth1.NoContext, token)
	client.Timeout = timeout

	return &TwitterPublisher{
		client:    client,
		uploadURL: "https://upload.twitter.com/1.1/media/upload.json",
		tweetURL:  "https://api.twitter.com/2/tweets",
	}
}

func (p *TwitterPublisher) Publish(ctx context.Context, text string, imagePath string) error {
	mediaID, err := p.uploadMedia(ctx, imagePath)
	if err != nil {
		return fmt.Errorf("media upload: %w", err)
	}

	if err := p.createTweet(ctx, text, mediaID); err != nil {
		return fmt.Errorf("create tweet: %w", err)
	}

	log.Printf("INFO: tweet posted successfully with media %s (%d chars)", mediaID, len([]rune(text)))
	return nil
}

func (p *TwitterPublisher) uploadMedia(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("media", filepath.Base(imagePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var payload struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.MediaIDString == "" {
		return "", fmt.Errorf("media upload returned no media id")
	}
	return payload.MediaIDString, nil
}

func (p *TwitterPublisher) createTweet(ctx context.Context, text, mediaID string) error {
	payload := map[string]interface{}{
		"text": text,
		"media": map[string]interface{}{
			"media_ids": []string{mediaID},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tweetURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
