package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"greenshop-server/internal/schemas"
	"greenshop-server/internal/utils"
)

// JWTMgr is the explicit session surface of the service: a signed token pair
// handed to the client instead of any ambient current-user state.
type JWTMgr interface {
	GenerateJWT(userId string, refresh bool) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager handles JWT generation, signing, and validation.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a new JWTManager with the given key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile loads the key pair from KEY_PAIR_PATH, generating and
// persisting a fresh one on first start.
func NewJWTManagerFromFile() (JWTMgr, error) {
	path := os.Getenv("KEY_PAIR_PATH")

	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return NewJWTManager(privateKey, publicKey), nil
}

// GenerateJWT generates a signed token for the given user. Refresh tokens
// carry a longer lifetime and a refresh marker claim.
func (jm *JWTManager) GenerateJWT(userId string, refresh bool) (string, error) {
	lifetime := time.Hour * 24
	if refresh {
		lifetime = time.Hour * 24 * 7
	}

	claims := jwt.MapClaims{
		"iss":     "greenshop.vn",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(lifetime).Unix(),
		"sub":     userId,
		"refresh": fmt.Sprintf("%t", refresh),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// JWTMiddleware extracts and validates the bearer token, storing the claims
// in the request context for downstream handlers.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		claims, err := jm.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok || mapClaims["refresh"] == "true" {
			// Refresh tokens cannot be used to access resources directly.
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		c.Set(utils.ClaimsKey.String(), mapClaims)
		c.Next()
	}
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err = saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return keyPairBytes[:ed25519.PrivateKeySize], ed25519.PublicKey(keyPairBytes[ed25519.PrivateKeySize:]), nil
}
