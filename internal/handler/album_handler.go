package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/photofolio/internal/album"
	"github.com/hitoshi/photofolio/internal/model"
)

// AlbumServiceInterface はアルバムハンドラーが必要とするサービスインターフェース。
type AlbumServiceInterface interface {
	ListWithCovers(ctx context.Context, userID string) ([]album.AlbumWithCover, error)
	Create(ctx context.Context, userID, name string, description *string) (*model.Album, error)
	Update(ctx context.Context, userID, albumID, name string, description *string) (*model.Album, error)
	Delete(ctx context.Context, userID, albumID string) error
	ListPhotos(ctx context.Context, userID, albumID string) ([]*model.Photo, error)
	PublicFirst(ctx context.Context, ownerID string) (*model.AlbumWithPhotos, error)
	PublicByName(ctx context.Context, ownerID, name string) (*model.AlbumWithPhotos, error)
}

// AlbumHandler はアルバム管理のHTTPハンドラー。
type AlbumHandler struct {
	service AlbumServiceInterface
}

// NewAlbumHandler はAlbumHandlerを生成する。
func NewAlbumHandler(service AlbumServiceInterface) *AlbumHandler {
	return &AlbumHandler{
		service: service,
	}
}

// albumRequest はアルバム作成・更新リクエストのボディ。
type albumRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// List は呼び出しユーザーのアルバム一覧を表紙写真付きで返す。
// GET /api/albums
func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	albums, err := h.service.ListWithCovers(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]albumWithCoverResponse, len(albums))
	for i, a := range albums {
		resp := albumWithCoverResponse{Album: toAlbumResponse(a.Album)}
		if a.Cover != nil {
			cover := toPhotoResponse(a.Cover)
			resp.Cover = &cover
		}
		results[i] = resp
	}

	writeJSON(w, http.StatusOK, results)
}

// Create は新しいアルバムを作成する。
// POST /api/album
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAlbumResponse(created))
}

// Update はアルバム名と説明を更新する。
// PUT /api/album/{id}
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	albumID := chi.URLParam(r, "id")

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	updated, err := h.service.Update(r.Context(), userID, albumID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumResponse(updated))
}

// Delete はアルバムを論理削除する。
// DELETE /api/album/{id}
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	albumID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, albumID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPhotos はアルバム内の写真一覧を返す。
// GET /api/album/{id}/photos
func (h *AlbumHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	albumID := chi.URLParam(r, "id")

	photos, err := h.service.ListPhotos(r.Context(), userID, albumID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponses(photos))
}

// PublicFirst は指定ユーザーの先頭アルバムを写真付きで返す。認証不要。
// GET /api/public/album?id={userID}
func (h *AlbumHandler) PublicFirst(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("id")
	if ownerID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("id query parameter is required"))
		return
	}

	result, err := h.service.PublicFirst(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumWithPhotosResponse(result))
}

// PublicByName は指定ユーザーのアルバムを名前で返す。認証不要。
// GET /api/public/album/{name}?id={userID}
func (h *AlbumHandler) PublicByName(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("id")
	if ownerID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("id query parameter is required"))
		return
	}

	name := chi.URLParam(r, "name")

	result, err := h.service.PublicByName(r.Context(), ownerID, name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlbumWithPhotosResponse(result))
}
