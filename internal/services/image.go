package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/constants"
)

// ImageService downloads a photo from the Telegram file API and
// recompresses it for upload: width capped at 1920, JPEG quality 82.
type ImageService struct {
	httpClient *resty.Client
	token      string
	logger     *logrus.Logger
}

type telegramFileResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// NewImageService creates a new image service
func NewImageService(token string, logger *logrus.Logger) *ImageService {
	httpClient := resty.New().
		SetTimeout(constants.DefaultTimeout * time.Second).
		SetRetryCount(constants.DefaultRetryCount).
		SetRetryWaitTime(constants.DefaultRetryWaitTime * time.Second).
		SetRetryMaxWaitTime(constants.DefaultRetryMaxWaitTime * time.Second)

	return &ImageService{
		httpClient: httpClient,
		token:      token,
		logger:     logger,
	}
}

// DownloadAndCompress fetches the photo by file ID and returns the
// recompressed JPEG bytes
func (s *ImageService) DownloadAndCompress(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("file_id", fileID).
		Get(fmt.Sprintf("https://api.telegram.org/bot%s/getFile", s.token))
	if err != nil {
		return nil, fmt.Errorf("getFile request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("getFile failed with status %d", resp.StatusCode())
	}

	var fileResp telegramFileResponse
	if err := json.Unmarshal(resp.Body(), &fileResp); err != nil {
		return nil, fmt.Errorf("failed to parse getFile response: %w", err)
	}
	if !fileResp.OK {
		return nil, fmt.Errorf("getFile failed: %s", fileResp.Description)
	}

	download, err := s.httpClient.R().
		SetContext(ctx).
		Get(fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", s.token, fileResp.Result.FilePath))
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	if download.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("image download failed with status %d", download.StatusCode())
	}

	return s.compress(download.Body())
}

// compress resizes wide images down to the max width and re-encodes as JPEG
func (s *ImageService) compress(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > constants.MaxImageWidth {
		img = imaging.Resize(img, constants.MaxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(constants.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("image encode failed: %w", err)
	}

	s.logger.Debugf("Recompressed image: %d -> %d bytes", len(data), buf.Len())
	return buf.Bytes(), nil
}
