package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/domain/models"
	"github.com/Matuku45/shuttle-booking-system/internal/http/middleware"
	"github.com/Matuku45/shuttle-booking-system/internal/services"
)

func authService(c *gin.Context) services.AuthService {
	return services.AuthService{RequestID: middleware.GetRequestID(c)}
}

// GET /users
func GetUsers(c *gin.Context) {
	users, err := authService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// GET /users/:id
func GetUserByID(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	user, err := authService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type userCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /users/create
func CreateUser(c *gin.Context) {
	var req userCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := authService(c).Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// PUT /users/:id
//
// Zero/empty fields are left unchanged (same contract as shuttles).
func UpdateUser(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req userCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.UserPatch{}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Email != "" {
		patch.Email = &req.Email
	}
	if req.Password != "" {
		patch.Password = &req.Password
	}
	if req.Role != "" {
		patch.Role = &req.Role
	}

	user, err := authService(c).UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DELETE /users/:id
func DeleteUser(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	if err := authService(c).DeleteUser(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /users/login
//
// The identifier historically arrives under "username" but carries the
// email; accept either key.
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}

	user, token, err := authService(c).Authenticate(c.Request.Context(), identifier, req.Password, req.Role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
