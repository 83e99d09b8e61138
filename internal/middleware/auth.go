package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/taskdeck/internal/model"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware はBearerトークンを検証するミドルウェアを返す。
// トークンはHS256で署名されたJWTで、email・groupsクレームを持つ。
// groupsは文字列と文字列リストの両形式を受理し、ここで一度だけ正規化する。
// 検証済みの属性はmodel.Claimsとしてコンテキストに格納される。
func NewAuthMiddleware(secret []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				writeUnauthorized(w, r, "Authentication required")
				return
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, bearerPrefix),
				func(t *jwt.Token) (any, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
					}
					return secret, nil
				})
			if err != nil || !token.Valid {
				writeUnauthorized(w, r, "Invalid or expired token")
				return
			}

			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeUnauthorized(w, r, "Invalid or expired token")
				return
			}

			email, _ := mapClaims["email"].(string)
			if email == "" {
				writeUnauthorized(w, r, "Token is missing an email claim")
				return
			}

			claims := model.Claims{
				Email:  email,
				Groups: normalizeGroups(mapClaims["groups"]),
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// normalizeGroups はgroupsクレームの文字列/リスト両形式を
// 文字列スライスへ正規化する。
func normalizeGroups(v any) []string {
	switch g := v.(type) {
	case string:
		if g == "" {
			return nil
		}
		return []string{g}
	case []any:
		var out []string
		for _, item := range g {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return g
	}
	return nil
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, &model.APIError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
	})
}
