package hikeusers

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// UsersController exposes the account operations as a JSON API
type UsersController struct {
	Debug        bool
	Logger       Logger
	Service      *UserService
	Auther       *Auther
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type UsersControllerOption func(*UsersController) *UsersController

func WithControllerService(svc *UserService) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Service = svc
		return c
	}
}

func WithControllerAuther(auther *Auther) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(l Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithControllerDebug(debug bool) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Debug = debug
		return c
	}
}

func WithControllerContextKey(key string) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func WithControllerErrorHandler(h router.ErrorHandler) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if h != nil {
			c.ErrorHandler = h
		}
		return c
	}
}

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger:       defLogger{},
		ContextKey:   "user",
		ErrorHandler: defaultErrHandler,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing UserService in users controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in users controller...")
	}

	return c
}

// RegisterRoutes attaches the account endpoints. The optional-auth
// middleware must already run for the group; the guards passed here
// only gate the routes that need an authenticated caller.
func (a *UsersController) RegisterRoutes(group RouteRegistrar, adminOnly, selfOrAdmin router.MiddlewareFunc) {
	group.Post("/register", a.Register)
	group.Post("/login", a.Login)
	group.Get("/", a.List, adminOnly)
	group.Get("/:username", a.Show, selfOrAdmin)
	group.Patch("/:username", a.Patch, selfOrAdmin)
	group.Delete("/:username", a.Delete, selfOrAdmin)
	group.Post("/:username/hikes", a.AddHike, selfOrAdmin)
	group.Delete("/:username/hikes/:hikeId", a.RemoveHike, selfOrAdmin)
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// Register creates the account and hands back a token so the client is
// logged in immediately
func (a *UsersController) Register(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	profile, err := a.Service.Register(ctx.Context(), RegisterInput{
		Username:  payload.Username,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, err := a.Auther.TokenService().Generate(profile.Identity())
	if err != nil {
		a.Logger.Error("Register token generation failed: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"token": token,
		"user":  profile,
	})
}

// LoginPayload is the login body
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login verifies credentials and issues a token
func (a *UsersController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"token": token,
	})
}

// List returns every profile. Admin only.
func (a *UsersController) List(ctx router.Context) error {
	profiles, err := a.Service.FindAll(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"users": profiles,
	})
}

// Show returns one profile with its hike links
func (a *UsersController) Show(ctx router.Context) error {
	username := ctx.Param("username")

	profile, err := a.Service.GetWithHikes(ctx.Context(), username)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user": profile,
	})
}

// PatchPayload carries a sparse profile update. Absent fields stay
// untouched. The admin flag is not part of the payload: a self-or-admin
// guarded route must never accept it from the body.
type PatchPayload struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// Validate will run validation rules
func (r PatchPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
	)
}

// fields flattens the payload into the sparse map the service expects.
// The password key is forwarded so the service can reject it in one
// place.
func (r PatchPayload) fields() map[string]any {
	data := map[string]any{}
	if r.FirstName != nil {
		data["firstName"] = *r.FirstName
	}
	if r.LastName != nil {
		data["lastName"] = *r.LastName
	}
	if r.Email != nil {
		data["email"] = *r.Email
	}
	if r.Password != nil {
		data["password"] = *r.Password
	}
	return data
}

// Patch applies a sparse update to the profile
func (a *UsersController) Patch(ctx router.Context) error {
	username := ctx.Param("username")
	payload := new(PatchPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid update payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	profile, err := a.Service.Update(ctx.Context(), username, payload.fields())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user": profile,
	})
}

// Delete removes the account
func (a *UsersController) Delete(ctx router.Context) error {
	username := ctx.Param("username")

	if err := a.Service.Remove(ctx.Context(), username); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"deleted": username,
	})
}

// HikePayload is the save-hike body
type HikePayload struct {
	HikeID   string `json:"hike_id"`
	HikeName string `json:"hike_name"`
}

// Validate will run validation rules
func (r HikePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HikeID, validation.Required),
	)
}

// AddHike links a hike to the account
func (a *UsersController) AddHike(ctx router.Context) error {
	username := ctx.Param("username")
	payload := new(HikePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid hike payload").
			WithCode(goerrors.CodeBadRequest))
	}

	hike, err := a.Service.AddHike(ctx.Context(), username, payload.HikeID, payload.HikeName)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"hike": hike,
	})
}

// RemoveHike unlinks a hike from the account
func (a *UsersController) RemoveHike(ctx router.Context) error {
	username := ctx.Param("username")
	hikeID := ctx.Param("hikeId")

	if err := a.Service.RemoveHike(ctx.Context(), username, hikeID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"removed": hikeID,
	})
}

// defaultErrHandler maps the error taxonomy onto HTTP statuses
func defaultErrHandler(ctx router.Context, err error) error {
	status := router.StatusInternalServerError

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			switch richErr.Category {
			case goerrors.CategoryAuth, goerrors.CategoryAuthz:
				status = router.StatusUnauthorized
			case goerrors.CategoryNotFound:
				status = router.StatusNotFound
			case goerrors.CategoryConflict:
				status = router.StatusConflict
			case goerrors.CategoryBadInput, goerrors.CategoryValidation:
				status = router.StatusBadRequest
			}
		}
	}

	message := err.Error()
	if richErr != nil {
		message = richErr.Message
	}

	return ctx.JSON(status, map[string]any{
		"error": message,
	})
}
