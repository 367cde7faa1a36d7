package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/photofolio/internal/model"
)

// Claims はセッショントークンが主張するクレームセット。
// サーバー側には保存されず、失効は有効期限切れまたは署名不一致のみ。
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenCodec は対称鍵でセッショントークンの署名と検証を行う。
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec はTokenCodecを生成する。
// secretはプロセス全体で共有される署名鍵。起動時の設定検証で空でないことが保証される。
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Encode はユーザーの署名付きセッショントークンを発行する。
// 有効期限は現在時刻 + TTL（秒粒度のエポック秒、クロックスキュー許容なし）。
func (c *TokenCodec) Encode(user *model.User) (string, error) {
	now := c.now()
	claims := Claims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
// 署名不一致・期限切れ・アルゴリズム不正はすべてエラーとなる。
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	if claims.Email == "" || claims.UserID == "" {
		return nil, fmt.Errorf("token is missing identity claims")
	}

	return claims, nil
}
