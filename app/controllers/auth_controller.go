package controllers

import (
	"errors"
	"net/http"

	"github.com/staydesk/staydesk/app/requests"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/resource"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login exchanges email and password for a bearer token.
func (ac *AuthController) Login(c *ctx.Context) {
	var req requests.Login
	if !c.BindJSON(&req) {
		return
	}

	token, user, err := ac.service.Login(c.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.ValidationError(map[string]string{"email": "These credentials do not match our records."})
		return
	}
	if err != nil {
		renderError(c, err, "/")
		return
	}

	c.JSON(http.StatusOK, resource.Map{
		"token":      token,
		"token_type": "Bearer",
		"user": resource.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
