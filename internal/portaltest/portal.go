// Package portaltest serves a fake ExamSetu backend for tests.
package portaltest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/gin-gonic/gin"
)

// Account is a login known to the fake portal.
type Account struct {
	Password string
	User     model.User
	Token    string
}

// Submission is one submit call received by the portal.
type Submission struct {
	AttemptID      int64
	IdempotencyKey string
	Request        model.SubmitAttemptRequest
}

// Portal is an in-memory backend. Exported fields may be changed between
// requests; access from tests is guarded by Lock/Unlock.
type Portal struct {
	mu sync.Mutex

	Accounts      map[string]Account
	Attempts      map[int64]*model.AttemptDetail
	Results       []model.ResultSummary
	Responses     map[int64][]model.QuestionResponse
	Notifications []model.Notification
	Profile       *model.StudentProfile
	Photos        map[int64]string

	// FailAttemptFetch makes every attempt GET fail with 500.
	FailAttemptFetch bool
	// FailSubmits fails that many following submit calls with 500.
	FailSubmits int
	// NextAttemptID is used by /api/mock-tests/start.
	NextAttemptID int64
	// StartTemplate is copied into every newly started attempt.
	StartTemplate *model.AttemptDetail

	Submissions []Submission
	Replays     int
	AttemptGets int
	Started     []model.StartMockTestRequest
}

// New returns an empty portal.
func New() *Portal {
	return &Portal{
		Accounts:      make(map[string]Account),
		Attempts:      make(map[int64]*model.AttemptDetail),
		Responses:     make(map[int64][]model.QuestionResponse),
		Photos:        make(map[int64]string),
		NextAttemptID: 100,
	}
}

// Lock guards direct field access from tests.
func (p *Portal) Lock() { p.mu.Lock() }

// Unlock releases Lock.
func (p *Portal) Unlock() { p.mu.Unlock() }

// Serve starts an httptest server closed on test cleanup.
func (p *Portal) Serve(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(p.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// Handler builds the gin router of the portal.
func (p *Portal) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	api.POST("/auth/login", p.login)
	api.POST("/users/profile-photo", p.profilePhoto)
	api.GET("/results", p.results)
	api.GET("/notifications", p.notifications)
	api.GET("/students/profile", p.profile)

	mock := api.Group("/mock-tests")
	mock.POST("/start", p.start)
	mock.GET("/attempt/:id", p.attempt)
	mock.POST("/attempt/:id/submit", p.submit)
	mock.GET("/attempt/:id/responses", p.responses)

	return r
}

func (p *Portal) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	p.mu.Lock()
	acc, ok := p.Accounts[req.Email]
	p.mu.Unlock()

	if !ok || acc.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{User: acc.User, Token: acc.Token})
}

func (p *Portal) profilePhoto(c *gin.Context) {
	var req model.ProfilePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	p.mu.Lock()
	p.Photos[req.UserID] = req.Photo
	p.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (p *Portal) results(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.JSON(http.StatusOK, p.Results)
}

func (p *Portal) notifications(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Notifications == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notifications unavailable"})
		return
	}
	c.JSON(http.StatusOK, p.Notifications)
}

func (p *Portal) profile(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, p.Profile)
}

func (p *Portal) start(c *gin.Context) {
	var req model.StartMockTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.StartTemplate == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No questions available"})
		return
	}
	id := p.NextAttemptID
	p.NextAttemptID++
	detail := *p.StartTemplate
	detail.Subject = req.Subject
	p.Attempts[id] = &detail
	p.Started = append(p.Started, req)

	c.JSON(http.StatusOK, model.StartMockTestResponse{AttemptID: id})
}

func (p *Portal) attempt(c *gin.Context) {
	id, ok := attemptID(c)
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.AttemptGets++

	if p.FailAttemptFetch {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mock test"})
		return
	}
	detail, found := p.Attempts[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (p *Portal) submit(c *gin.Context) {
	id, ok := attemptID(c)
	if !ok {
		return
	}
	var req model.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	key := c.GetHeader("Idempotency-Key")

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailSubmits > 0 {
		p.FailSubmits--
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit test"})
		return
	}
	if key != "" {
		for _, s := range p.Submissions {
			if s.AttemptID == id && s.IdempotencyKey == key {
				p.Replays++
				c.JSON(http.StatusOK, model.SubmitReceipt{AttemptID: id, Status: "SUBMITTED"})
				return
			}
		}
	}
	p.Submissions = append(p.Submissions, Submission{AttemptID: id, IdempotencyKey: key, Request: req})
	c.JSON(http.StatusOK, model.SubmitReceipt{AttemptID: id, Status: "SUBMITTED"})
}

func (p *Portal) responses(c *gin.Context) {
	id, ok := attemptID(c)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	resp, found := p.Responses[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to load responses"})
		return
	}
	c.JSON(http.StatusOK, model.AttemptResponses{Responses: resp})
}

func attemptID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt id"})
		return 0, false
	}
	if c.Query("userId") == "" && c.Request.Method == http.MethodGet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return 0, false
	}
	return id, true
}
