package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devhaven/account-api/internal/service"
	"github.com/devhaven/account-api/internal/util"
)

// AuthHandlerConfig carries the transport-level knobs for the auth routes.
type AuthHandlerConfig struct {
	CookieDomain   string
	CookieSecure   bool
	AvatarMaxBytes int64
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cfg AuthHandlerConfig) {
	g := e.Group("/api/users")

	g.POST("/register", func(c echo.Context) error {
		var req RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		result, err := auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		setSessionCookie(c, result.Token, result.ExpiresAt, cfg)
		return c.JSON(http.StatusCreated, tokenResponse(result))
	})

	g.POST("/login", func(c echo.Context) error {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		result, err := auth.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		setSessionCookie(c, result.Token, result.ExpiresAt, cfg)
		return c.JSON(http.StatusOK, tokenResponse(result))
	})

	g.GET("/logout", func(c echo.Context) error {
		clearSessionCookie(c, cfg)
		return c.JSON(http.StatusOK, MessageResponse{Message: "successfully logged out"})
	})

	g.GET("/getuser", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNotAuthorized.Error()))
		}
		return c.JSON(http.StatusOK, AuthUserResponse{User: toAuthUser(user)})
	}, RequireAuth(auth))

	g.GET("/loggedin", func(c echo.Context) error {
		return c.JSON(http.StatusOK, auth.LoginStatus(sessionToken(c)))
	})

	g.PATCH("/updateuser", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNotAuthorized.Error()))
		}

		patch, image, err := bindProfilePatch(c, cfg.AvatarMaxBytes)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		updated, err := auth.UpdateProfile(c.Request().Context(), user.ID, patch, image)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, AuthUserResponse{User: toAuthUser(updated)})
	}, RequireAuth(auth))

	g.PATCH("/changepassword", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNotAuthorized.Error()))
		}
		var req ChangePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		if err := auth.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, MessageResponse{Message: "password changed successfully"})
	}, RequireAuth(auth))

	g.POST("/forgotpassword", func(c echo.Context) error {
		var req ForgotPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		if err := auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, MessageResponse{Message: "password reset email sent"})
	})

	g.PUT("/resetpassword/:resetToken", func(c echo.Context) error {
		var req ResetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
		if err := auth.ResetPassword(c.Request().Context(), c.Param("resetToken"), req.Password); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, MessageResponse{Message: "password reset successful, please login"})
	})
}

// bindProfilePatch accepts either a JSON patch or a multipart form with an
// optional photo file. In multipart requests only fields that were actually
// submitted end up in the patch.
func bindProfilePatch(c echo.Context, avatarMaxBytes int64) (service.ProfilePatch, *service.ProfileImage, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		var req UpdateProfileRequest
		if err := c.Bind(&req); err != nil {
			return service.ProfilePatch{}, nil, errors.New("invalid request body")
		}
		return service.ProfilePatch{Name: req.Name, Photo: req.Photo, Phone: req.Phone, Bio: req.Bio}, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.ProfilePatch{}, nil, errors.New("invalid multipart form")
	}

	patch := service.ProfilePatch{}
	if v, ok := formValue(form, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(form, "photo"); ok {
		patch.Photo = &v
	}
	if v, ok := formValue(form, "phone"); ok {
		patch.Phone = &v
	}
	if v, ok := formValue(form, "bio"); ok {
		patch.Bio = &v
	}

	files := form.File["photo"]
	if len(files) == 0 {
		return patch, nil, nil
	}
	fileHeader := files[0]
	if avatarMaxBytes > 0 && fileHeader.Size > avatarMaxBytes {
		return service.ProfilePatch{}, nil, errors.New("photo exceeds the maximum allowed size")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return service.ProfilePatch{}, nil, errors.New("unable to read uploaded photo")
	}
	image := &service.ProfileImage{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	}
	return patch, image, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func tokenResponse(result *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		User:      toAuthUser(result.User),
	}
}

func setSessionCookie(c echo.Context, token string, expiresAt time.Time, cfg AuthHandlerConfig) {
	c.SetCookie(sessionCookie(token, expiresAt, cfg))
}

func clearSessionCookie(c echo.Context, cfg AuthHandlerConfig) {
	c.SetCookie(sessionCookie("", time.Unix(0, 0), cfg))
}

func sessionCookie(token string, expiresAt time.Time, cfg AuthHandlerConfig) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.CookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: sameSite,
	}
}

// writeServiceError maps the service's sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body, never a stack trace.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrBioTooLong),
		errors.Is(err, service.ErrEmailAlreadyUsed),
		errors.Is(err, service.ErrResetTokenInvalid):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrNotAuthorized):
		return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrMailDelivery):
		return c.JSON(http.StatusInternalServerError, util.Error(service.ErrMailDelivery.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("something went wrong"))
	}
}
