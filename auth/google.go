package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lynhutanh/labubu-api/config"
	"github.com/lynhutanh/labubu-api/models"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

const googleProvider = "google"

var ErrAccountDisabled = errors.New("account is disabled")

// GoogleLoginHandler verifies a Google ID token against the configured client
// id, finds or creates the matching user, upserts the provider link and issues
// a session JWT. Any verification failure maps to a bare 401 so token
// internals never leak to the caller.
func GoogleLoginHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Credential string `json:"credential" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "credential is required"})
			return
		}

		payload, err := idtoken.Validate(c.Request.Context(), req.Credential, cfg.GoogleClientID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		email, _ := payload.Claims["email"].(string)
		name, _ := payload.Claims["name"].(string)
		picture, _ := payload.Claims["picture"].(string)
		if email == "" || payload.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := findOrCreateGoogleUser(db, email, name, picture, payload.Subject)
		if errors.Is(err, ErrAccountDisabled) {
			c.JSON(http.StatusForbidden, gin.H{"error": ErrAccountDisabled.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		token, err := issueJWT(user.ID, user.Email, user.Username, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// loginTarget picks the account a verified Google identity lands on. The
// provider link outranks the email match: a subject that is already linked
// stays on its user even when the provider-side email has changed since, so a
// changed email never spawns a duplicate account.
func loginTarget(link *models.AuthProvider, emailUser *models.User) (userID string, create bool) {
	switch {
	case link != nil:
		return link.UserID, false
	case emailUser != nil:
		return emailUser.ID, false
	default:
		return "", true
	}
}

// findOrCreateGoogleUser resolves the token subject to a local user. The link
// lookup runs first; the email lookup is only a fallback for subjects that
// were never linked. First-time logins get a collision-free username.
func findOrCreateGoogleUser(db *gorm.DB, email, name, picture, subject string) (models.User, error) {
	link, err := linkBySubject(db, subject)
	if err != nil {
		return models.User{}, err
	}

	var emailUser *models.User
	if link == nil {
		var existing models.User
		err := db.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			emailUser = &existing
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return models.User{}, err
		}
	}

	userID, create := loginTarget(link, emailUser)

	var user models.User
	if create {
		username := UniqueUsername(UsernameFromEmail(email), func(candidate string) bool {
			var n int64
			db.Model(&models.User{}).Where("username = ?", candidate).Count(&n)
			return n > 0
		})

		user = models.User{
			ID:       uuid.NewString(),
			Email:    email,
			Username: username,
			FullName: name,
			Avatar:   picture,
			Provider: googleProvider,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			return models.User{}, err
		}
	} else if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}

	if !user.Active {
		return models.User{}, ErrAccountDisabled
	}

	if err := upsertProviderLink(db, user.ID, subject, email); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func linkBySubject(db *gorm.DB, subject string) (*models.AuthProvider, error) {
	var link models.AuthProvider
	err := db.Where("provider = ? AND provider_user_id = ?", googleProvider, subject).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// upsertProviderLink refreshes the stored provider email on every login. An
// existing link keeps its user; only brand-new links bind a user id.
func upsertProviderLink(db *gorm.DB, userID, subject, email string) error {
	var link models.AuthProvider
	err := db.Where("provider = ? AND provider_user_id = ?", googleProvider, subject).
		First(&link).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		link = models.AuthProvider{
			UserID:         userID,
			Provider:       googleProvider,
			ProviderUserID: subject,
			Value:          email,
		}
		return db.Create(&link).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&link).Update("value", email).Error
}

var usernameCleaner = regexp.MustCompile(`[^a-z0-9_.]`)

// UsernameFromEmail derives a base username from the local part of an email
// address, lowercased and stripped of anything outside [a-z0-9_.].
func UsernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	base := usernameCleaner.ReplaceAllString(strings.ToLower(local), "")
	if base == "" {
		base = "user"
	}
	return base
}

// UniqueUsername appends numeric suffixes to base until taken reports the
// candidate free: "alice", "alice1", "alice2", ...
func UniqueUsername(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// issueJWT generates the session token for a user
func issueJWT(userID, email, username, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"email":    email,
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
