package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/database/users"
)

type UsersController struct {
	users   UserStore
	tokens  *auth.TokenManager
	limiter *auth.LoginLimiter
	auditor Auditor
}

func NewUsersController(store UserStore, tokens *auth.TokenManager, limiter *auth.LoginLimiter, auditor Auditor) *UsersController {
	return &UsersController{
		users:   store,
		tokens:  tokens,
		limiter: limiter,
		auditor: auditor,
	}
}

// Register creates an account and returns a token for it.
// POST /users/register
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := uc.users.Register(ctx, users.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := uc.tokens.Issue(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	uc.auditor.LogAuth(ctx, user.Username, "register", c.ClientIP(), c.Request.UserAgent(), true)
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login exchanges a username and password for a token. Repeated failures
// from one address lock the username out for a while.
// POST /users/login
func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	if uc.limiter != nil {
		if allowed, retryAfter := uc.limiter.Allow(ip, req.Username); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondStatus(c, http.StatusTooManyRequests, "too many failed login attempts, try again later")
			return
		}
	}

	user, err := uc.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			uc.auditor.LogAuth(ctx, req.Username, "login", ip, c.Request.UserAgent(), false)
			if uc.limiter != nil {
				if locked, lockout := uc.limiter.RecordFailure(ip, req.Username); locked {
					log.Warn().Str("username", req.Username).Str("ip", ip).Dur("lockout", lockout).Msg("login locked out")
				}
			}
		}
		respondError(c, err)
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(ip, req.Username)
	}

	token, err := uc.tokens.Issue(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	uc.auditor.LogAuth(ctx, user.Username, "login", ip, c.Request.UserAgent(), true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// List returns every user's public profile.
// GET /users
func (uc *UsersController) List(c *gin.Context, _ auth.Identity) {
	all, err := uc.users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": all})
}

// Get returns a profile with summaries of the user's lists.
// GET /users/:username
func (uc *UsersController) Get(c *gin.Context, _ auth.Identity) {
	profile, err := uc.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Update changes the caller's own profile.
// PATCH /users/:username
func (uc *UsersController) Update(c *gin.Context, id auth.Identity) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.Update(c.Request.Context(), id.Username, users.UpdateInput{
		Password: req.Password,
		Email:    req.Email,
		Bio:      req.Bio.Text,
		ClearBio: req.Bio.cleared(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Delete removes the caller's account along with their lists and reviews.
// DELETE /users/:username
func (uc *UsersController) Delete(c *gin.Context, id auth.Identity) {
	ctx := c.Request.Context()
	if err := uc.users.Remove(ctx, id.Username); err != nil {
		respondError(c, err)
		return
	}

	uc.auditor.LogDelete(ctx, id.Username, "user", id.Username, id.Username)
	c.JSON(http.StatusOK, gin.H{"deleted": id.Username})
}
