// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/photofolio/internal/middleware"
	"github.com/hitoshi/photofolio/internal/model"
)

// userResponse はユーザー情報のAPIレスポンス。
// タイムスタンプはエポック秒で返す。
type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Picture   *string `json:"picture,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// albumResponse はアルバム情報のAPIレスポンス。
type albumResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// photoResponse は写真情報のAPIレスポンス。
type photoResponse struct {
	ID           string  `json:"id"`
	AlbumID      string  `json:"albumId"`
	UserID       string  `json:"userId"`
	IndexInAlbum int     `json:"indexInAlbum"`
	S3ID         string  `json:"s3Id"`
	Src          string  `json:"src"`
	MainColor    string  `json:"mainColor"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	IsFavorite   bool    `json:"isFavorite"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

// albumWithPhotosResponse はアルバムと所属写真のAPIレスポンス。
type albumWithPhotosResponse struct {
	Album  albumResponse   `json:"album"`
	Photos []photoResponse `json:"photos"`
}

// albumWithCoverResponse はアルバムと表紙写真のAPIレスポンス。一覧表示用。
type albumWithCoverResponse struct {
	Album albumResponse  `json:"album"`
	Cover *photoResponse `json:"cover,omitempty"`
}

// bookMeResponse は問い合わせ先のAPIレスポンス。
type bookMeResponse struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
}

func toAlbumResponse(a *model.Album) albumResponse {
	return albumResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.Unix(),
		UpdatedAt:   a.UpdatedAt.Unix(),
	}
}

func toPhotoResponse(p *model.Photo) photoResponse {
	return photoResponse{
		ID:           p.ID,
		AlbumID:      p.AlbumID,
		UserID:       p.UserID,
		IndexInAlbum: p.IndexInAlbum,
		S3ID:         p.S3ID,
		Src:          p.Src,
		MainColor:    p.MainColor,
		Title:        p.Title,
		Description:  p.Description,
		Width:        p.Width,
		Height:       p.Height,
		IsFavorite:   p.IsFavorite,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}
}

func toPhotoResponses(photos []*model.Photo) []photoResponse {
	results := make([]photoResponse, len(photos))
	for i, p := range photos {
		results[i] = toPhotoResponse(p)
	}
	return results
}

func toAlbumWithPhotosResponse(ap *model.AlbumWithPhotos) albumWithPhotosResponse {
	return albumWithPhotosResponse{
		Album:  toAlbumResponse(ap.Album),
		Photos: toPhotoResponses(ap.Photos),
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotAllowed, model.ErrCodeUserNotFound:
		return http.StatusUnauthorized
	case model.ErrCodeAlbumNotFound, model.ErrCodePhotoNotFound, model.ErrCodeBookMeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeProviderExchange, model.ErrCodeProviderProfile, model.ErrCodeMailRelay:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requireUserID はコンテキストから認証済みユーザーIDを取り出す。
// 取り出せない場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
			Code:     "UNAUTHORIZED",
			Message:  "認証が必要です。",
			Category: "auth",
			Action:   "ログインしてください。",
		})
		return "", false
	}
	return userID, true
}
