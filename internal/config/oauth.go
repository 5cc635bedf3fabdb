package config

import (
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// GoogleOAuthConfig sert aux échanges code → token côté web
var GoogleOAuthConfig = &oauth2.Config{
	RedirectURL:  os.Getenv("BASE_URL") + "/api/v1/auth/google/callback",
	ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
	ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	Endpoint: google.Endpoint,
}

var FacebookOAuthConfig = &oauth2.Config{
	RedirectURL:  os.Getenv("BASE_URL") + "/api/v1/auth/facebook/callback",
	ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
	ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
	Scopes:       []string{"email", "public_profile"},
	Endpoint:     facebook.Endpoint,
}
