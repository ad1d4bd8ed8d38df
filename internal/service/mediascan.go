package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MediaVerdict 外部图像/视频安全服务的判定结果
type MediaVerdict struct {
	Safe       bool    `json:"safe"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// MediaScanner 媒体安全检查，生产实现是外部 HTTP 服务
type MediaScanner interface {
	ScanImage(ctx context.Context, url string) (*MediaVerdict, error)
	ScanVideo(ctx context.Context, url string) (*MediaVerdict, error)
}

// MediaScanClient 外部媒体安全服务的客户端
type MediaScanClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMediaScanClient(baseURL string, timeout time.Duration) *MediaScanClient {
	return &MediaScanClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type scanRequest struct {
	URL string `json:"url"`
}

func (c *MediaScanClient) ScanImage(ctx context.Context, url string) (*MediaVerdict, error) {
	return c.scan(ctx, "/v1/scan/image", url)
}

func (c *MediaScanClient) ScanVideo(ctx context.Context, url string) (*MediaVerdict, error) {
	return c.scan(ctx, "/v1/scan/video", url)
}

func (c *MediaScanClient) scan(ctx context.Context, path, url string) (*MediaVerdict, error) {
	body, err := json.Marshal(scanRequest{URL: url})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mediascan: status %d: %s", resp.StatusCode, data)
	}

	var verdict MediaVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}
