package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/model"
	"net/http"
	"time"
)

// CatalogPublisher 目录发布服务（外部协作方）：根据审批通过的文档创建目录条目并返回引用ID
type CatalogPublisher interface {
	Publish(ctx context.Context, sub *model.Submission) (string, error)
}

type CatalogClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewCatalogClient(cfg *config.CatalogConfig) *CatalogClient {
	return &CatalogClient{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type catalogEntryRequest struct {
	SubmissionID string                  `json:"submissionId"`
	OwnerID      uint                    `json:"ownerId"`
	Payload      model.SubmissionPayload `json:"payload"`
}

type catalogEntryResponse struct {
	ID string `json:"id"`
}

func (c *CatalogClient) Publish(ctx context.Context, sub *model.Submission) (string, error) {
	body, err := json.Marshal(catalogEntryRequest{
		SubmissionID: sub.ID,
		OwnerID:      sub.OwnerID,
		Payload:      sub.Payload,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/entries", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("catalog publish failed: status %d", resp.StatusCode)
	}

	var entry catalogEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return "", err
	}
	if entry.ID == "" {
		return "", fmt.Errorf("catalog publish failed: empty entry id")
	}
	return entry.ID, nil
}
