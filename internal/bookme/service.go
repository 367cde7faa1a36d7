// Package bookme は問い合わせ先の管理と公開フォームからのメールリレーを提供する。
package bookme

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/photofolio/internal/mail"
	"github.com/hitoshi/photofolio/internal/model"
	"github.com/hitoshi/photofolio/internal/repository"
	"github.com/hitoshi/photofolio/internal/security"
)

// 任意項目が空のときにメール本文へ入れる表記。
const notSpecified = "Not specified."

// ContactForm は公開問い合わせフォームの入力。
// Name, Email, Messageは必須、それ以外は任意。
type ContactForm struct {
	Name    string
	Email   string
	Message string
	Phone   *string
	Date    *string
	Venue   *string
	City    *string
}

// Service は問い合わせ先のサービス層。
type Service struct {
	bookMeRepo repository.BookMeRepository
	userRepo   repository.UserRepository
	mailer     mail.Mailer
	sanitizer  security.ContactSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	bookMeRepo repository.BookMeRepository,
	userRepo repository.UserRepository,
	mailer mail.Mailer,
	sanitizer security.ContactSanitizerService,
) *Service {
	return &Service{
		bookMeRepo: bookMeRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		sanitizer:  sanitizer,
	}
}

// Find は呼び出しユーザーの問い合わせ先を返す。未登録ならBOOK_ME_NOT_FOUND。
func (s *Service) Find(ctx context.Context, userID string) (*model.BookMe, error) {
	b, err := s.bookMeRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find book me record: %w", err)
	}
	if b == nil {
		return nil, model.NewBookMeNotFoundError()
	}
	return b, nil
}

// Upsert は呼び出しユーザーの問い合わせ先メールアドレスを登録または更新する。
func (s *Service) Upsert(ctx context.Context, userID, email string) (*model.BookMe, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewInvalidRequestError("valid email is required")
	}

	b, err := s.bookMeRepo.Upsert(ctx, &model.BookMe{
		ID:     uuid.New().String(),
		UserID: userID,
		Email:  email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert book me record: %w", err)
	}
	return b, nil
}

// Contact は公開フォームの内容を指定ユーザーの問い合わせ先へリレーする。
// 入力は全項目サニタイズし、送信失敗はMAIL_RELAY_FAILEDとして返す。
func (s *Service) Contact(ctx context.Context, ownerID string, form ContactForm) error {
	form = s.sanitizeForm(form)
	if form.Name == "" || form.Email == "" || form.Message == "" {
		return model.NewInvalidRequestError("name, email and message are required")
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to find portfolio owner: %w", err)
	}
	if owner == nil {
		return model.NewUserNotFoundError()
	}

	target, err := s.bookMeRepo.FindByUserID(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to find book me record: %w", err)
	}
	if target == nil {
		return model.NewBookMeNotFoundError()
	}

	subject := fmt.Sprintf("New inquiry from %s", form.Name)
	text := buildContactText(form)
	body := buildContactHTML(form)

	if err := s.mailer.Send(ctx, target.Email, subject, text, body); err != nil {
		return fmt.Errorf("%w: %w", model.NewMailRelayError(err.Error()), err)
	}

	slog.Info("contact form relayed",
		slog.String("owner_id", owner.ID),
		slog.String("from", form.Email),
	)

	return nil
}

func (s *Service) sanitizeForm(form ContactForm) ContactForm {
	form.Name = s.sanitizer.Sanitize(form.Name)
	form.Email = s.sanitizer.Sanitize(form.Email)
	form.Message = s.sanitizer.Sanitize(form.Message)
	form.Phone = s.sanitizeOptional(form.Phone)
	form.Date = s.sanitizeOptional(form.Date)
	form.Venue = s.sanitizeOptional(form.Venue)
	form.City = s.sanitizeOptional(form.City)
	return form
}

func (s *Service) sanitizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := s.sanitizer.Sanitize(*v)
	return &cleaned
}

func optionalOrDefault(v *string) string {
	if v == nil || *v == "" {
		return notSpecified
	}
	return *v
}

// buildContactHTML はリレーメールのHTML本文を組み立てる。
// 値はサニタイズ済みだが、メールクライアント向けにさらにエスケープする。
func buildContactHTML(form ContactForm) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h3>New inquiry from your portfolio website</h3>")
	writeField := func(label, value string) {
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>", label, html.EscapeString(value))
	}
	writeField("Name", form.Name)
	writeField("Email", form.Email)
	writeField("Message", form.Message)
	writeField("Phone", optionalOrDefault(form.Phone))
	writeField("Date", optionalOrDefault(form.Date))
	writeField("Venue", optionalOrDefault(form.Venue))
	writeField("City", optionalOrDefault(form.City))
	b.WriteString("</body></html>")
	return b.String()
}

// buildContactText はHTMLを表示できないクライアント向けの本文を組み立てる。
func buildContactText(form ContactForm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", form.Name)
	fmt.Fprintf(&b, "Email: %s\n", form.Email)
	fmt.Fprintf(&b, "Message: %s\n", form.Message)
	fmt.Fprintf(&b, "Phone: %s\n", optionalOrDefault(form.Phone))
	fmt.Fprintf(&b, "Date: %s\n", optionalOrDefault(form.Date))
	fmt.Fprintf(&b, "Venue: %s\n", optionalOrDefault(form.Venue))
	fmt.Fprintf(&b, "City: %s\n", optionalOrDefault(form.City))
	return b.String()
}
