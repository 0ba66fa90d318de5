package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type TokenService interface {
	HashPassword(password string) (string, error)
	ComparePasswords(storedPassword, candidatePassword string) bool
	GenerateToken(adminID, email string) (string, error)
	DecodeToken(tokenString string) (*Claims, error)
}

type Tokens struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(secretKey string, ttl time.Duration) (*Tokens, error) {
	if secretKey == "" {
		return nil, errors.New("no secret key found")
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &Tokens{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashed), nil
}

func (t *Tokens) ComparePasswords(storedPassword, candidatePassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(candidatePassword))
	return err == nil
}

type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.StandardClaims
}

func (t *Tokens) GenerateToken(adminID, email string) (string, error) {
	now := t.now()

	claims := &Claims{
		AdminID: adminID,
		Email:   email,
		StandardClaims: jwt.StandardClaims{
			Subject:   adminID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) DecodeToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secretKey, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			if ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, errors.New("token has expired")
			}
			if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			}
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.AdminID == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}
