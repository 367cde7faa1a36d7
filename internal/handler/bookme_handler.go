package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/photofolio/internal/bookme"
	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/model"
)

// BookMeServiceInterface は問い合わせハンドラーが必要とするサービスインターフェース。
type BookMeServiceInterface interface {
	Find(ctx context.Context, userID string) (*model.BookMe, error)
	Upsert(ctx context.Context, userID, email string) (*model.BookMe, error)
	Contact(ctx context.Context, ownerID string, form bookme.ContactForm) error
}

// BookMeHandler は問い合わせ先管理と公開フォームのHTTPハンドラー。
type BookMeHandler struct {
	service   BookMeServiceInterface
	collector metrics.MetricsCollector
}

// NewBookMeHandler はBookMeHandlerを生成する。collectorはnil可。
func NewBookMeHandler(service BookMeServiceInterface, collector metrics.MetricsCollector) *BookMeHandler {
	return &BookMeHandler{
		service:   service,
		collector: collector,
	}
}

// bookMeRequest は問い合わせ先更新リクエストのボディ。
type bookMeRequest struct {
	Email string `json:"email"`
}

// contactRequest は公開問い合わせフォームのボディ。
type contactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Message string  `json:"message"`
	Phone   *string `json:"phone,omitempty"`
	Date    *string `json:"date,omitempty"`
	Venue   *string `json:"venue,omitempty"`
	City    *string `json:"city,omitempty"`
}

// Get は呼び出しユーザーの問い合わせ先を返す。
// GET /api/book_me
func (h *BookMeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Find(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookMeResponse{
		ID:     b.ID,
		UserID: b.UserID,
		Email:  b.Email,
	})
}

// Put は呼び出しユーザーの問い合わせ先メールアドレスを登録または更新する。
// PUT /api/book_me
func (h *BookMeHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req bookMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	b, err := h.service.Upsert(r.Context(), userID, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookMeResponse{
		ID:     b.ID,
		UserID: b.UserID,
		Email:  b.Email,
	})
}

// Contact は公開フォームの内容を指定ユーザーの問い合わせ先へリレーする。認証不要。
// POST /api/public/book_me?id={userID}
func (h *BookMeHandler) Contact(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("id")
	if ownerID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("id query parameter is required"))
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	err := h.service.Contact(r.Context(), ownerID, bookme.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Phone:   req.Phone,
		Date:    req.Date,
		Venue:   req.Venue,
		City:    req.City,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordContactMail()
	}

	w.WriteHeader(http.StatusNoContent)
}
