// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, portfolio, provider, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotAllowed   = "USER_NOT_ALLOWED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeAlbumNotFound    = "ALBUM_NOT_FOUND"
	ErrCodePhotoNotFound    = "PHOTO_NOT_FOUND"
	ErrCodeBookMeNotFound   = "BOOK_ME_NOT_FOUND"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeProviderExchange = "PROVIDER_EXCHANGE_FAILED"
	ErrCodeProviderProfile  = "PROVIDER_PROFILE_FAILED"
	ErrCodeMailRelay        = "MAIL_RELAY_FAILED"
	ErrCodeUploadFailed     = "UPLOAD_FAILED"
)

// NewUserNotAllowedError は許可リスト外のメールアドレスによる
// アカウント作成が拒否されたことを表すエラーを生成する。
func NewUserNotAllowedError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotAllowed,
		Message:  fmt.Sprintf("このメールアドレスは招待されていません: %s", email),
		Category: "auth",
		Action:   "サイト管理者に招待を依頼してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewAlbumNotFoundError はアルバム未検出エラーを生成する。
func NewAlbumNotFoundError(albumID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlbumNotFound,
		Message:  fmt.Sprintf("指定されたアルバムが見つかりません: %s", albumID),
		Category: "portfolio",
		Action:   "アルバムIDを確認してください。",
	}
}

// NewPhotoNotFoundError は写真未検出エラーを生成する。
func NewPhotoNotFoundError(photoID string) *APIError {
	return &APIError{
		Code:     ErrCodePhotoNotFound,
		Message:  fmt.Sprintf("指定された写真が見つかりません: %s", photoID),
		Category: "portfolio",
		Action:   "写真IDを確認してください。",
	}
}

// NewBookMeNotFoundError は問い合わせ先未登録エラーを生成する。
func NewBookMeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeBookMeNotFound,
		Message:  "問い合わせ先がまだ登録されていません。",
		Category: "portfolio",
		Action:   "管理画面から問い合わせ先メールアドレスを登録してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewProviderExchangeError は認可コード交換の失敗エラーを生成する。
// リトライはせず、ログイン失敗として呼び出し元に返す。
func NewProviderExchangeError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeProviderExchange,
		Message:  fmt.Sprintf("認可コードの交換に失敗しました: %s", reason),
		Category: "provider",
		Action:   "もう一度ログインをやり直してください。",
	}
}

// NewProviderProfileError はプロフィール取得の失敗エラーを生成する。
func NewProviderProfileError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeProviderProfile,
		Message:  fmt.Sprintf("プロフィールの取得に失敗しました: %s", reason),
		Category: "provider",
		Action:   "もう一度ログインをやり直してください。",
	}
}

// NewMailRelayError はメール送信失敗エラーを生成する。
func NewMailRelayError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMailRelay,
		Message:  fmt.Sprintf("メールの送信に失敗しました: %s", reason),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUploadFailedError は写真アップロード失敗エラーを生成する。
func NewUploadFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUploadFailed,
		Message:  fmt.Sprintf("写真のアップロードに失敗しました: %s", reason),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
