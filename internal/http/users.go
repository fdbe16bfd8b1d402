package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/auth"
	"github.com/shelfwise/bookshelf/internal/config"
	"github.com/shelfwise/bookshelf/internal/entities"
)

// UserStore is the user persistence surface the controller needs.
type UserStore interface {
	Find(id uint) (*entities.User, error)
	FindByUsername(username string) (*entities.User, error)
	FindAll(limit, offset int) ([]entities.User, error)
	Search(q string, limit int) ([]entities.User, error)
	Add(user *entities.User) (uint, error)
	Update(user *entities.User) (int64, error)
	Remove(id uint) (int64, error)
	Login(username, digest string) (*entities.User, error)
	Touch(username string, loginTime int64, ip string) (int64, error)
}

// UsersController handles account registration, login and administration.
type UsersController struct {
	store    UserStore
	sessions *auth.SessionManager
	hasher   *auth.Hasher
	limiter  *auth.RateLimiter
}

func NewUsersController(store UserStore, sessions *auth.SessionManager, hasher *auth.Hasher, limiter *auth.RateLimiter) *UsersController {
	return &UsersController{store: store, sessions: sessions, hasher: hasher, limiter: limiter}
}

type userPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
	Truename string `json:"truename"`
	Avatar   string `json:"avatar"`
	Role     int    `json:"role"`
}

type credentialsPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *UsersController) buildUser(c *gin.Context, payload *userPayload, role int) (*entities.User, error) {
	digest, err := ctrl.hasher.Hash(payload.Password)
	if err != nil {
		return nil, err
	}
	return &entities.User{
		Username:    payload.Username,
		Password:    digest,
		Nickname:    payload.Nickname,
		Truename:    payload.Truename,
		Avatar:      payload.Avatar,
		Role:        role,
		LastLoginIP: "never login",
		CreatedIP:   c.ClientIP(),
	}, nil
}

// Register creates a regular-role account. Open to anonymous callers.
func (ctrl *UsersController) Register(c *gin.Context) {
	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	existing, err := ctrl.store.FindByUsername(payload.Username)
	if err != nil {
		respondStoreError(c, err, "register")
		return
	}
	if existing != nil {
		respondBadRequest(c, "username already taken")
		return
	}

	user, err := ctrl.buildUser(c, &payload, entities.RoleRegular)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	id, err := ctrl.store.Add(user)
	if err != nil {
		respondStoreError(c, err, "register")
		return
	}
	respond(c, http.StatusOK, "user registered", gin.H{"id": id})
}

// Login verifies credentials, stamps last-login bookkeeping and stores the
// session. A credentials mismatch is a 200 envelope with a failed status,
// not an error code.
func (ctrl *UsersController) Login(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	ip := c.ClientIP()
	if ctrl.limiter != nil {
		if allowed, retryAfter := ctrl.limiter.Allow(ip, payload.Username); !allowed {
			respond(c, http.StatusForbidden,
				fmt.Sprintf("too many failed attempts, retry in %s", retryAfter.Round(time.Second)), nil)
			return
		}
	}

	user, err := ctrl.authenticate(payload.Username, payload.Password)
	if err != nil {
		respondStoreError(c, err, "login")
		return
	}
	if user == nil {
		if ctrl.limiter != nil {
			ctrl.limiter.RecordFailure(ip, payload.Username)
		}
		respond(c, http.StatusOK,
			fmt.Sprintf("login failed for user [%s], check username and password", payload.Username),
			gin.H{"login_status": "failed"})
		return
	}

	if _, err := ctrl.store.Touch(user.Username, entities.NowMillis(), ip); err != nil {
		respondStoreError(c, err, "login touch")
		return
	}
	if err := ctrl.sessions.CreateSession(c.Request, user); err != nil {
		respondStoreError(c, err, "login session")
		return
	}
	if ctrl.limiter != nil {
		ctrl.limiter.RecordSuccess(ip, payload.Username)
	}
	respond(c, http.StatusOK,
		fmt.Sprintf("user [%s] logged in", user.Username),
		gin.H{"login_status": "success"})
}

// authenticate returns the matching user or nil. The legacy scheme compares
// digests directly in SQL; bcrypt loads the row and verifies the hash.
func (ctrl *UsersController) authenticate(username, password string) (*entities.User, error) {
	if ctrl.hasher.Scheme() == config.PasswordSchemeBcrypt {
		user, err := ctrl.store.FindByUsername(username)
		if err != nil || user == nil {
			return nil, err
		}
		if err := ctrl.hasher.Check(password, user.Password); err != nil {
			if errors.Is(err, auth.ErrInvalidPassword) {
				return nil, nil
			}
			return nil, err
		}
		return user, nil
	}

	digest, err := ctrl.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return ctrl.store.Login(username, digest)
}

// Logout destroys the session.
func (ctrl *UsersController) Logout(c *gin.Context) {
	username := auth.GetUsername(c)
	if err := ctrl.sessions.DestroySession(c.Request); err != nil {
		respondStoreError(c, err, "logout")
		return
	}
	respond(c, http.StatusOK,
		fmt.Sprintf("user [%s] logged out", username),
		gin.H{"logout_status": "success"})
}

// List returns users ordered by id with optional pagination. Admin only.
func (ctrl *UsersController) List(c *gin.Context) {
	limit, offset := parseLimitOffset(c)
	users, err := ctrl.store.FindAll(limit, offset)
	if err != nil {
		respondStoreError(c, err, "list users")
		return
	}
	respond(c, http.StatusOK, "user list", users)
}

// Search matches the q parameter against username, nickname and truename.
// Admin only.
func (ctrl *UsersController) Search(c *gin.Context) {
	limit, _ := parseLimitOffset(c)
	users, err := ctrl.store.Search(c.Query("q"), limit)
	if err != nil {
		respondStoreError(c, err, "search users")
		return
	}
	respond(c, http.StatusOK, "user search results", users)
}

// Get returns a single user; a missing id reads as empty data. Admin only.
func (ctrl *UsersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}
	user, err := ctrl.store.Find(id)
	if err != nil {
		respondStoreError(c, err, "get user")
		return
	}
	message := fmt.Sprintf("user info for id {%d}", id)
	if user == nil {
		respond(c, http.StatusOK, message, nil)
		return
	}
	respond(c, http.StatusOK, message, user)
}

// Create adds an account with a caller-chosen role. Admin only.
func (ctrl *UsersController) Create(c *gin.Context) {
	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}
	if payload.Role != entities.RoleAdmin && payload.Role != entities.RoleRegular {
		respondBadRequest(c, "role must be 1 (admin) or 2 (regular)")
		return
	}

	user, err := ctrl.buildUser(c, &payload, payload.Role)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	id, err := ctrl.store.Add(user)
	if err != nil {
		respondStoreError(c, err, "create user")
		return
	}
	respond(c, http.StatusCreated, "user added", gin.H{"id": id})
}

// Update overwrites a user's profile. A regular user may only update their
// own record and cannot change their role; admins may update anyone.
func (ctrl *UsersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}

	isAdmin := auth.GetUserRole(c) == entities.RoleAdmin
	if !isAdmin && auth.GetUserID(c) != id {
		respond(c, http.StatusForbidden, "no access to this user", nil)
		return
	}

	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	role := payload.Role
	if isAdmin {
		if role != entities.RoleAdmin && role != entities.RoleRegular {
			respondBadRequest(c, "role must be 1 (admin) or 2 (regular)")
			return
		}
	} else {
		// the role in the payload is ignored for self-updates
		existing, err := ctrl.store.Find(id)
		if err != nil {
			respondStoreError(c, err, "update user")
			return
		}
		if existing == nil {
			respond(c, http.StatusOK, "user updated", gin.H{"changes": int64(0)})
			return
		}
		role = existing.Role
	}

	user, err := ctrl.buildUser(c, &payload, role)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	user.ID = id

	changes, err := ctrl.store.Update(user)
	if err != nil {
		respondStoreError(c, err, "update user")
		return
	}
	respond(c, http.StatusOK, "user updated", gin.H{"changes": changes})
}

// Delete hard-removes a user. Admin only.
func (ctrl *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid user id")
		return
	}
	changes, err := ctrl.store.Remove(id)
	if err != nil {
		respondStoreError(c, err, "delete user")
		return
	}
	respond(c, http.StatusNoContent, "user deleted", gin.H{"changes": changes})
}
