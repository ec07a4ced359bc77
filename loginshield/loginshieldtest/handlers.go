package loginshieldtest

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	RealmID           string `json:"realmId"`
	RealmScopedUserID string `json:"realmScopedUserId" binding:"required"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Redirect          string `json:"redirect"`
	Replace           bool   `json:"replace"`
}

type loginStartRequest struct {
	RealmID  string `json:"realmId"`
	UserID   string `json:"userId" binding:"required"`
	IsNewKey bool   `json:"isNewKey"`
	Redirect string `json:"redirect"`
}

type loginVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func fault(kind string) gin.H {
	return gin.H{"type": kind}
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad-request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.realms[req.RealmID]; !ok {
		c.JSON(http.StatusOK, gin.H{"isCreated": false, "fault": fault("realm-not-found")})
		return
	}
	if _, exists := s.users[req.RealmID][req.RealmScopedUserID]; exists && !req.Replace {
		c.JSON(http.StatusOK, gin.H{"isCreated": false, "fault": fault("user-exists")})
		return
	}
	if req.Redirect == "" && (req.Name == "" || req.Email == "") {
		c.JSON(http.StatusOK, gin.H{"isCreated": false, "fault": fault("missing-profile")})
		return
	}

	s.putUser(User{
		RealmID:           req.RealmID,
		RealmScopedUserID: req.RealmScopedUserID,
		Name:              req.Name,
		Email:             req.Email,
	})

	if req.Redirect == "" {
		c.JSON(http.StatusOK, gin.H{"isCreated": true})
		return
	}
	forward := s.forwardURL + "/account/realm/link?" + url.Values{
		"realmId":  {req.RealmID},
		"userId":   {req.RealmScopedUserID},
		"redirect": {req.Redirect},
	}.Encode()
	c.JSON(http.StatusOK, gin.H{"isCreated": true, "forward": forward})
}

func (s *Server) handleLoginStart(c *gin.Context) {
	var req loginStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad-request"})
		return
	}

	if _, ok := s.User(req.RealmID, req.UserID); !ok {
		c.JSON(http.StatusOK, gin.H{"fault": fault("user-not-found")})
		return
	}

	token, err := s.issueToken(req.RealmID, req.UserID, stageStart, req.IsNewKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token"})
		return
	}
	q := url.Values{"token": {token}}
	if req.Redirect != "" {
		q.Set("redirect", req.Redirect)
	}
	c.JSON(http.StatusOK, gin.H{"forward": s.forwardURL + "/account/login?" + q.Encode()})
}

func (s *Server) handleLoginVerify(c *gin.Context) {
	var req loginVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad-request"})
		return
	}

	claims, err := s.parseToken(req.Token, stageVerify)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false, "fault": fault("invalid-token")})
		return
	}
	if err := s.consume(claims); err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false, "fault": fault("token-used")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated":   true,
		"realmId":           claims.RealmID,
		"realmScopedUserId": claims.Subject,
		"isNewKey":          claims.IsNewKey,
	})
}

func (s *Server) handleRealmInfo(c *gin.Context) {
	id, uri := c.Query("id"), c.Query("uri")
	if id == "" && uri == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or uri required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.realms {
		if (id != "" && r.ID == id) || (uri != "" && r.URI == uri) {
			c.JSON(http.StatusOK, r)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not-found"})
}
