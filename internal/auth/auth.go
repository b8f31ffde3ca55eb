package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
)

const sessionStateKey = "oidc_state"

// OIDC logs users in through an external OpenID Connect provider and records
// them in the session.
type OIDC struct {
	verifier *oidc.IDTokenVerifier
	oauth2   *oauth2.Config
	users    repository.UserRepository
}

func NewOIDC(ctx context.Context, cfg config.OIDCConfig, users repository.UserRepository) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider init error: %w", err)
	}

	return &OIDC{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
		},
		users: users,
	}, nil
}

// GET /auth/login
func (o *OIDC) Login(c *gin.Context) {
	state := uuid.NewString()

	sess := sessions.Default(c)
	sess.Set(sessionStateKey, state)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		return
	}

	c.Redirect(http.StatusFound, o.oauth2.AuthCodeURL(state))
}

type idClaims struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Phone             string `json:"phone_number"`
}

// GET /auth/callback
func (o *OIDC) Callback(c *gin.Context) {
	sess := sessions.Default(c)
	want, _ := sess.Get(sessionStateKey).(string)
	if want == "" || c.Query("state") != want {
		c.JSON(http.StatusBadRequest, gin.H{"message": "state mismatch"})
		return
	}
	sess.Delete(sessionStateKey)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := o.oauth2.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no id_token in token response"})
		return
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token verification failed"})
		return
	}

	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "claims parse error"})
		return
	}

	user, err := o.upsert(ctx, claims)
	if err != nil {
		log.Printf("auth: upsert user for subject %s: %v", claims.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not record user"})
		return
	}

	if err := SetSessionUser(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// upsert finds the user by subject or creates one. A username already taken by
// another account gets the subject appended.
func (o *OIDC) upsert(ctx context.Context, claims idClaims) (*models.User, error) {
	user, err := o.users.GetBySubject(ctx, claims.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}
	if username == "" {
		username = claims.Sub
	}

	subject := claims.Sub
	user = &models.User{
		Username: username,
		Email:    claims.Email,
		Phone:    claims.Phone,
		OIDCID:   &subject,
	}
	err = o.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		user.ID = 0
		user.Username = username + "-" + claims.Sub
		err = o.users.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
