package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/model"
	"github.com/hitoshi/photofolio/internal/photo"
)

// アップロードのメモリ上限。超過分は一時ファイルに退避される。
const maxUploadMemory = 32 << 20 // 32MB

// PhotoServiceInterface は写真ハンドラーが必要とするサービスインターフェース。
type PhotoServiceInterface interface {
	Create(ctx context.Context, userID, albumID string, in photo.CreateInput) (*model.Photo, error)
	Update(ctx context.Context, userID, photoID string, in photo.UpdateInput) (*model.Photo, error)
	Delete(ctx context.Context, userID, photoID string) error
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*photo.UploadResult, error)
}

// PhotoHandler は写真管理のHTTPハンドラー。
type PhotoHandler struct {
	service   PhotoServiceInterface
	collector metrics.MetricsCollector
}

// NewPhotoHandler はPhotoHandlerを生成する。collectorはnil可。
func NewPhotoHandler(service PhotoServiceInterface, collector metrics.MetricsCollector) *PhotoHandler {
	return &PhotoHandler{
		service:   service,
		collector: collector,
	}
}

// photoCreateRequest は写真メタデータ作成リクエストのボディ。
type photoCreateRequest struct {
	IndexInAlbum int     `json:"indexInAlbum"`
	S3ID         string  `json:"s3Id"`
	Src          string  `json:"src"`
	MainColor    string  `json:"mainColor"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	IsFavorite   bool    `json:"isFavorite"`
}

// photoUpdateRequest は写真メタデータ更新リクエストのボディ。
type photoUpdateRequest struct {
	IndexInAlbum int     `json:"indexInAlbum"`
	IsFavorite   bool    `json:"isFavorite"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// uploadResponse はバイナリアップロードのAPIレスポンス。
type uploadResponse struct {
	S3ID string `json:"s3Id"`
	Src  string `json:"src"`
}

// Create はアルバムに写真メタデータを追加する。
// POST /api/album/{id}/photo
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	albumID := chi.URLParam(r, "id")

	var req photoCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, albumID, photo.CreateInput{
		IndexInAlbum: req.IndexInAlbum,
		S3ID:         req.S3ID,
		Src:          req.Src,
		MainColor:    req.MainColor,
		Title:        req.Title,
		Description:  req.Description,
		Width:        req.Width,
		Height:       req.Height,
		IsFavorite:   req.IsFavorite,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPhotoResponse(created))
}

// Update は写真の表示順・お気に入り・タイトル・説明を更新する。
// PUT /api/photo/{id}
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	photoID := chi.URLParam(r, "id")

	var req photoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	updated, err := h.service.Update(r.Context(), userID, photoID, photo.UpdateInput{
		IndexInAlbum: req.IndexInAlbum,
		IsFavorite:   req.IsFavorite,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(updated))
}

// Delete は写真を論理削除する。
// DELETE /api/photo/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	photoID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, photoID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upload はmultipartボディの先頭ファイルをオブジェクトストアへ保存する。
// POST /api/photo/upload
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed multipart body"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	header := firstFileHeader(r)
	if header == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("file part is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("failed to open file part"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.service.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordPhotoUpload(header.Size)
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		S3ID: result.S3ID,
		Src:  result.Src,
	})
}

// firstFileHeader はmultipartフォームの先頭のファイルパートを返す。
func firstFileHeader(r *http.Request) *multipart.FileHeader {
	for _, headers := range r.MultipartForm.File {
		if len(headers) > 0 {
			return headers[0]
		}
	}
	return nil
}
