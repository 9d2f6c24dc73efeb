package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookie = "barbershop_session"
	sessionTTL    = 14 * 24 * time.Hour
	tokenTTL      = 12 * time.Hour
	tokenIssuer   = "barbershop"
	staffKey      = "staff_email"
)

// Config - учётная запись барбера и ключи подписи
type Config struct {
	Email        string
	PasswordHash string
	HashKey      string
	BlockKey     string
	JWTSecret    string
}

// Authenticator проверяет единственную учётную запись барбера и выдаёт
// сессионную куку или JWT.
type Authenticator struct {
	email        string
	passwordHash string
	sc           *securecookie.SecureCookie
	jwtSecret    []byte
	now          func() time.Time
}

func New(cfg Config) (*Authenticator, error) {
	hashKey := []byte(cfg.HashKey)
	if len(hashKey) == 0 {
		// Без ключа сессии не переживут перезапуск
		hashKey = securecookie.GenerateRandomKey(64)
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey = []byte(cfg.BlockKey)
		switch len(blockKey) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
		}
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(sessionTTL.Seconds()))

	return &Authenticator{
		email:        strings.TrimSpace(cfg.Email),
		passwordHash: cfg.PasswordHash,
		sc:           sc,
		jwtSecret:    secret,
		now:          time.Now,
	}, nil
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	return err == nil
}

// Authenticate сверяет логин и пароль барбера
func (a *Authenticator) Authenticate(email, password string) error {
	if a.email == "" || a.passwordHash == "" {
		return model.ErrUnauthorized
	}

	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(strings.ToLower(a.email)),
	) == 1
	passwordOK := CheckPassword(a.passwordHash, password)

	if !emailOK || !passwordOK {
		return model.ErrUnauthorized
	}
	return nil
}

// SetSession выставляет подписанную сессионную куку
func (a *Authenticator) SetSession(w http.ResponseWriter, r *http.Request) error {
	val := map[string]string{"email": a.email}
	encoded, err := a.sc.Encode(SessionCookie, val)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

func (a *Authenticator) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Session возвращает email из сессионной куки
func (a *Authenticator) Session(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	val := map[string]string{}
	if err := a.sc.Decode(SessionCookie, c.Value, &val); err != nil {
		return "", false
	}
	email := val["email"]
	if email == "" || !strings.EqualFold(email, a.email) {
		return "", false
	}
	return email, true
}

// IssueToken выдаёт JWT для клиентов API
func (a *Authenticator) IssueToken() (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(tokenTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   a.email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken проверяет JWT и возвращает email барбера
func (a *Authenticator) ParseToken(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return a.jwtSecret, nil
	},
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", errors.Join(model.ErrUnauthorized, err))
	}
	if !strings.EqualFold(claims.Subject, a.email) {
		return "", model.ErrUnauthorized
	}
	return claims.Subject, nil
}

// RequireStaff пропускает запросы с сессионной кукой или Bearer JWT
func (a *Authenticator) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email, ok := a.Session(c.Request); ok {
			c.Set(staffKey, email)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		email, err := a.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(staffKey, email)
		c.Next()
	}
}

// StaffFromContext возвращает email барбера, прошедшего RequireStaff
func StaffFromContext(c *gin.Context) string {
	return c.GetString(staffKey)
}
