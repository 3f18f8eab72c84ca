package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// RegisterUser creates a password account. Uniqueness is checked username
// first, then email, so a taken username wins over a taken email.
func RegisterUser(username, email, password, firstName, lastName string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return "", fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len(password) < 6 {
		return "", fmt.Errorf("%w: password too short (min 6)", ErrValidation)
	}
	taken, err := userStore.ExistsByUsername(username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrDuplicateUsername
	}
	taken, err = userStore.ExistsByEmail(email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrDuplicateEmail
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Roles:     models.RoleList{"USER"},
		Enabled:   true,
	}
	if err := userStore.Create(&user); err != nil {
		// race condition after the optimistic pre-checks
		if isUniqueConstraintError(err) {
			return "", ErrDuplicateUsername
		}
		return "", err
	}
	return user.ID, nil
}

// Authenticate resolves the identifier as username first, email second, and
// verifies the password against the stored bcrypt hash.
func Authenticate(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	user, err := userStore.ByUsername(identifier)
	if errors.Is(err, ErrNotFound) {
		user, err = userStore.ByEmail(identifier)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates, mints a token bound to the user id and records the
// login time. The last-login update is best effort and never fails a login.
func Login(identifier, password string) (string, *models.User, error) {
	user, err := Authenticate(identifier, password)
	if err != nil {
		return "", nil, err
	}
	token, err := issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := userStore.Save(user); err != nil {
		log.Printf("warning: failed to update last login for %s: %v", user.ID, err)
	}
	return token, user, nil
}

func issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		user, err := userStore.ByID(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		c.Set("currentUser", user)
		c.Next()
	}
}

// currentUser returns the user resolved by jwtAuthMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
