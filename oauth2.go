package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	oauth2StateCookie = "oauth2_state"
)

var (
	googleOAuth         *oauth2.Config
	frontendRedirectURL string
)

func initOAuth2() {
	frontendRedirectURL = os.Getenv("OAUTH2_FRONTEND_REDIRECT")
	if frontendRedirectURL == "" {
		frontendRedirectURL = "http://localhost:3000/oauth2/redirect"
	}
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:8080/api/auth/oauth2/callback"
	}
	googleOAuth = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// googleClaims is the typed subset of the Google userinfo response this
// service consumes. EmailVerified is a pointer so an absent claim can
// default to true.
type googleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (g googleClaims) verified() bool {
	return g.EmailVerified == nil || *g.EmailVerified
}

// oauth2GoogleRedirectHandler starts the authorization-code flow against
// Google, binding it to a random state carried in a short-lived cookie.
func oauth2GoogleRedirectHandler(c *gin.Context) {
	if googleOAuth.ClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OAuth2 login is not configured"})
		return
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		fail(c, err)
		return
	}
	state := hex.EncodeToString(b)
	c.SetCookie(oauth2StateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, googleOAuth.AuthCodeURL(state))
}

func oauth2CallbackHandler(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		redirectOAuth2Error(c, errParam, c.Query("error_description"))
		return
	}
	state, err := c.Cookie(oauth2StateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		redirectOAuth2Error(c, "authentication_failed", "state mismatch")
		return
	}
	c.SetCookie(oauth2StateCookie, "", -1, "/", "", false, true)

	tok, err := googleOAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("oauth2 code exchange failed: %v", err)
		redirectOAuth2Error(c, "authentication_failed", "code exchange failed")
		return
	}
	claims, err := fetchGoogleClaims(c, tok)
	if err != nil {
		log.Printf("oauth2 userinfo fetch failed: %v", err)
		redirectOAuth2Error(c, "authentication_failed", "userinfo fetch failed")
		return
	}
	user, err := processOAuth2Principal(*claims)
	if err != nil {
		log.Printf("oauth2 principal processing failed: %v", err)
		redirectOAuth2Error(c, "authentication_failed", err.Error())
		return
	}
	// mint the token only after the principal is persisted
	token, err := issueToken(user.ID)
	if err != nil {
		redirectOAuth2Error(c, "authentication_failed", "token issuance failed")
		return
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"type":      "Bearer",
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"roles":     user.Roles,
		})
		return
	}
	c.Redirect(http.StatusFound, frontendRedirectURL+"?"+url.Values{
		"token": {token},
		"type":  {"Bearer"},
	}.Encode())
}

func fetchGoogleClaims(c *gin.Context, tok *oauth2.Token) (*googleClaims, error) {
	resp, err := googleOAuth.Client(c.Request.Context(), tok).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var claims googleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: userinfo has no email", ErrValidation)
	}
	return &claims, nil
}

// processOAuth2Principal reconciles verified OAuth2 claims with the user
// store: an account with the claimed email is logged in, anything else
// creates one. New accounts also get a denormalized oauth2_users record
// keyed "<userID>_google".
func processOAuth2Principal(claims googleClaims) (*models.User, error) {
	now := time.Now()
	user, err := userStore.ByEmail(claims.Email)
	if err == nil {
		user.LastLoginAt = &now
		if err := userStore.Save(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		// OAuth2 accounts have no chosen username; the unique email stands in
		Username:    claims.Email,
		Email:       claims.Email,
		FirstName:   claims.GivenName,
		LastName:    claims.FamilyName,
		Roles:       models.RoleList{"USER"},
		Enabled:     claims.verified(),
		LastLoginAt: &now,
	}
	if err := userStore.Create(user); err != nil {
		return nil, err
	}
	rec := models.OAuth2User{
		ID:            user.ID + "_google",
		Email:         claims.Email,
		Name:          claims.Name,
		FirstName:     claims.GivenName,
		LastName:      claims.FamilyName,
		Picture:       claims.Picture,
		Provider:      "google",
		ProviderID:    claims.Sub,
		EmailVerified: claims.verified(),
		Roles:         models.RoleList{"USER"},
		Enabled:       true,
		LastLoginAt:   &now,
	}
	if err := oauth2Store.Upsert(&rec); err != nil {
		// the account itself is usable; the provider record is advisory
		log.Printf("warning: failed to save oauth2 record for %s: %v", user.ID, err)
	}
	return user, nil
}

func redirectOAuth2Error(c *gin.Context, errCode, message string) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errCode, "message": message})
		return
	}
	c.Redirect(http.StatusFound, frontendRedirectURL+"?"+url.Values{
		"error":   {errCode},
		"message": {message},
	}.Encode())
}

// Plain-text landing pages kept for manual testing of the flow.
func oauth2SuccessHandler(c *gin.Context) {
	if token := c.Query("token"); token != "" {
		c.String(http.StatusOK, "OAuth2 authentication successful! Token: %s", token)
		return
	}
	c.String(http.StatusOK, "OAuth2 authentication successful!")
}

func oauth2ErrorHandler(c *gin.Context) {
	msg := "OAuth2 authentication failed. Error: " + c.Query("error")
	if m := c.Query("message"); m != "" {
		msg += ", Message: " + m
	}
	c.String(http.StatusOK, "%s", msg)
}
