package main

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 10 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type uploadResponse struct {
	ImageURL           string `json:"imageUrl"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	ObjectKey          string `json:"objectKey"`
	ThumbnailObjectKey string `json:"thumbnailObjectKey,omitempty"`
}

// uploadImageHandler accepts a multipart image (room/incident/tenant
// photos), stores it in GCS and generates a thumbnail alongside.
func uploadImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, utils.RoleStaff) {
			return
		}
		logger := config.GetLogger()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondError(c, utils.ValidationError("file is required"))
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			respondError(c, utils.ValidationError("file size exceeds 10MB limit"))
			return
		}
		mimeType := fileHeader.Header.Get("Content-Type")
		if !imageMimeTypes[mimeType] {
			respondError(c, utils.ValidationError("unsupported image type"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, utils.InternalError(err))
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			respondError(c, utils.InternalError(err))
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			respondError(c, utils.ValidationError("file size exceeds 10MB limit"))
			return
		}

		entity := sanitizeSegment(strings.ToLower(c.PostForm("entity")))
		if entity == "" {
			entity = "uploads"
		}
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext == "" {
			if mimeType == "image/png" {
				ext = ".png"
			} else {
				ext = ".jpg"
			}
		}

		objectKey := path.Join(entity, uuid.New().String()+ext)
		if err := utils.UploadObjectToGCS(c.Request.Context(), objectKey, mimeType, data); err != nil {
			logger.WithFields(logrus.Fields{
				"object_key": objectKey,
			}).Error("[upload.error] " + err.Error())
			respondError(c, utils.InternalError(err))
			return
		}

		response := uploadResponse{
			ObjectKey: objectKey,
			ImageURL:  utils.BuildObjectAccessURL(objectKey),
		}

		if config.UploadThumbnailsEnabled() {
			thumbnailKey, err := createThumbnail(c, objectKey, data)
			if err != nil {
				// Thumbnails are a nicety; keep the original upload.
				logger.WithFields(logrus.Fields{
					"object_key": objectKey,
				}).Warn("[upload.thumbnail] " + err.Error())
			} else {
				response.ThumbnailObjectKey = thumbnailKey
				response.ThumbnailURL = utils.BuildObjectAccessURL(thumbnailKey)
			}
		}

		logger.WithFields(logrus.Fields{
			"object_key": objectKey,
			"mime_type":  mimeType,
			"size":       len(data),
		}).Info("[upload.complete]")

		respondData(c, http.StatusCreated, response)
	}
}

func createThumbnail(c *gin.Context, objectKey string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	thumbnailKey := thumbnailObjectKey(objectKey)
	if err := utils.UploadObjectToGCS(c.Request.Context(), thumbnailKey, "image/jpeg", buf.Bytes()); err != nil {
		return "", err
	}
	return thumbnailKey, nil
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := path.Base(objectKey)
	return path.Join(dir, "thumbnails", filename)
}

func sanitizeSegment(input string) string {
	var out strings.Builder
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out.WriteRune(r)
		}
	}
	return out.String()
}
