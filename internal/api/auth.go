package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	layout       *Layout
	auth         *service.AuthService
	tokens       middleware.SessionTokens
	cookieSecure bool
	limit        gin.HandlerFunc
}

// NewAuthHandler creates the handler. limit guards login attempts.
func NewAuthHandler(layout *Layout, auth *service.AuthService, tokens middleware.SessionTokens, cookieSecure bool, limit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{layout: layout, auth: auth, tokens: tokens, cookieSecure: cookieSecure, limit: limit}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.limit, h.Login)
	router.GET("/register", h.ShowRegister)
	router.POST("/register", h.Register)
	router.POST("/logout", h.Logout)
}

// fieldMessages turns binding errors into one message per form field.
func fieldMessages(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission."
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fe.Field() + " is required."
		case "min":
			out[fe.Field()] = fe.Field() + " must be at least " + fe.Param() + " characters."
		case "email":
			out[fe.Field()] = "Enter a valid email address."
		default:
			out[fe.Field()] = fe.Field() + " is invalid."
		}
	}
	return out
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if h.layout.User(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.layout.Page(c, "Login", gin.H{}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form types.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", h.layout.Page(c, "Login", gin.H{
			"Username": form.Username,
			"Fields":   fieldMessages(err),
		}))
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Login(ctx, middleware.SessionID(c), form.Username, form.Password, form.Remember)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", h.layout.Page(c, "Login", gin.H{
			"Username": form.Username,
			"Error":    service.Message(err, service.LoginFailedMessage),
		}))
		return
	}

	if err := middleware.SetBrowserAuth(c, h.tokens, form.Remember, h.cookieSecure); err != nil {
		log.Printf("Failed to set login cookie for user %d: %v", user.ID, err)
		_ = h.auth.Logout(ctx, middleware.SessionID(c))
		h.layout.Error(c, http.StatusInternalServerError, service.LoginFailedMessage)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		log.Printf("Failed to log out: %v", err)
	}
	middleware.ClearBrowserAuth(c, h.cookieSecure)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.layout.Page(c, "Register", gin.H{"Form": types.RegisterForm{}}))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form types.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", h.layout.Page(c, "Register", gin.H{
			"Form":   form,
			"Fields": fieldMessages(err),
		}))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), form)
	if err != nil {
		c.HTML(http.StatusBadGateway, "register.html", h.layout.Page(c, "Register", gin.H{
			"Form":  form,
			"Error": service.Message(err, service.RegisterFailed),
		}))
		return
	}

	c.HTML(http.StatusCreated, "register.html", h.layout.Page(c, "Register", gin.H{
		"Form":       types.RegisterForm{},
		"Registered": user,
	}))
}
