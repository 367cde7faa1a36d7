// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContactSanitizerService は公開問い合わせフォームから受け取った
// 入力値をサニタイズし、メール本文へのHTMLインジェクションを防ぐ。
// bluemondayのStrictPolicyでタグを全て除去し、プレーンテキストのみ残す。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContactSanitizerService は問い合わせフォーム入力のサニタイズ機能の
// インターフェースを定義する。リレーメール組み立て前に使用される。
type ContactSanitizerService interface {
	// Sanitize は入力値から全てのHTMLタグを除去したプレーンテキストを返す。
	// 前後の空白も取り除く。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contactSanitizer はContactSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contactSanitizer struct {
	policy *bluemonday.Policy
}

// NewContactSanitizer はContactSanitizerServiceの新しいインスタンスを生成する。
// 問い合わせフォームの値は氏名やメッセージ等の自由テキストであり、
// HTMLが含まれる正当な理由はないためStrictPolicyで全タグを除去する。
func NewContactSanitizer() *contactSanitizer {
	return &contactSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力値から全てのHTMLタグを除去したプレーンテキストを返す。
func (s *contactSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
