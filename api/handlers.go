package api

import (
	"net/http"
	"strconv"

	"hushhush/models"
	"hushhush/service"

	"github.com/gin-gonic/gin"
)

const msgInvalidBody = "Invalid request body"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "HushHush API is running",
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := s.services.Identity.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondWithToken(c, "User registered successfully", user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := s.services.Identity.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondWithToken(c, "Login successful", user)
}

func (s *Server) respondWithToken(c *gin.Context, message string, user *models.User) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, message, authResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.services.Identity.GetUser(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "User information retrieved", user)
}

func (s *Server) handleUpdateMe(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := s.services.Identity.UpdateProfile(c.Request.Context(), callerID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Profile updated successfully", user)
}

// parseVaultQuery reads the listing filters and page from the query string
func parseVaultQuery(c *gin.Context) (models.VaultFilter, models.Page, bool) {
	var filter models.VaultFilter
	page := models.Page{Limit: models.DefaultPageLimit}

	if raw := c.Query("status"); raw != "" {
		status := models.VaultStatus(raw)
		if !status.IsValid() {
			abortWith(c, http.StatusBadRequest, "Unknown vault status")
			return filter, page, false
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category := models.Category(raw)
		if !category.IsValid() {
			abortWith(c, http.StatusBadRequest, "Unknown category")
			return filter, page, false
		}
		filter.Category = &category
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			abortWith(c, http.StatusBadRequest, "featured must be true or false")
			return filter, page, false
		}
		filter.Featured = &featured
	}

	var err error
	if raw := c.Query("limit"); raw != "" {
		if page.Limit, err = strconv.Atoi(raw); err != nil {
			abortWith(c, http.StatusBadRequest, "limit must be a number")
			return filter, page, false
		}
	}
	if raw := c.Query("skip"); raw != "" {
		if page.Skip, err = strconv.Atoi(raw); err != nil {
			abortWith(c, http.StatusBadRequest, "skip must be a number")
			return filter, page, false
		}
	}
	return filter, page, true
}

func (s *Server) handleListVaults(c *gin.Context) {
	filter, page, ok := parseVaultQuery(c)
	if !ok {
		return
	}

	views, err := s.services.Vaults.ListVaultViews(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vaults retrieved successfully", views)
}

func (s *Server) handleGetVault(c *gin.Context) {
	view, err := s.services.Vaults.GetVaultView(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vault retrieved successfully", view)
}

func (s *Server) handleCreateVault(c *gin.Context) {
	var req service.CreateVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	vault, err := s.services.Vaults.CreateVault(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vault created successfully", vault)
}

func (s *Server) handleUpdateVault(c *gin.Context) {
	var update models.VaultUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := s.services.Vaults.UpdateVault(ctx, id, callerID(c), update); err != nil {
		respondError(c, err)
		return
	}

	view, err := s.services.Vaults.GetVaultView(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vault updated successfully", view)
}

func (s *Server) handleUnlockVault(c *gin.Context) {
	vault, err := s.services.Vaults.UnlockVault(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vault unlocked successfully", vault)
}

func (s *Server) handleVaultContent(c *gin.Context) {
	content, err := s.services.Gate.ReadContent(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Vault content retrieved", content)
}

func (s *Server) handleCreatePledge(c *gin.Context) {
	var req service.CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	pledge, err := s.services.Pledges.CreatePledge(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Pledge created successfully", pledge)
}

func (s *Server) handleMyPledges(c *gin.Context) {
	pledges, err := s.services.Pledges.ListMyPledges(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Pledges retrieved successfully", pledges)
}

func (s *Server) handleCreateComment(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	comment, err := s.services.Comments.CreateComment(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Comment created successfully", comment)
}

func (s *Server) handleListComments(c *gin.Context) {
	comments, err := s.services.Comments.ListComments(c.Request.Context(), c.Param("vaultId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Comments retrieved successfully", comments)
}

func (s *Server) handleWhispererDashboard(c *gin.Context) {
	dashboard, err := s.services.Dashboard.WhispererDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Dashboard data retrieved", dashboard)
}

func (s *Server) handleListenerDashboard(c *gin.Context) {
	dashboard, err := s.services.Dashboard.ListenerDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Dashboard data retrieved", dashboard)
}

func (s *Server) handlePlatformStats(c *gin.Context) {
	stats, err := s.services.Stats.PlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, "Analytics retrieved successfully", stats)
}
