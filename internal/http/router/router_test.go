package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/freelance-marketplace/internal/config"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/http/middleware"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/service"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/auth"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/job"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/project"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/proposal"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/user"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	tokens *service.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Silence()

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
		RequestTimeout:  5 * time.Second,
	}

	store := memory.NewStore()
	tokens := service.NewTokenManager("router-test-secret", time.Hour)
	rateStore, err := middleware.NewRateLimitStore(nil)
	require.NoError(t, err)

	lifecycle := job.NewLifecycle(store.Jobs())
	spawner := project.NewSpawner(store.Projects(), lifecycle)

	handlers := Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUseCase(store.Users(), tokens).WithCost(bcrypt.MinCost),
			auth.NewLoginUseCase(store.Users(), tokens),
		),
		User: handler.NewUserHandler(
			user.NewGetUserUseCase(store.Users()),
			user.NewListUsersUseCase(store.Users()),
			user.NewUpdateProfileUseCase(store.Users()),
		),
		Job: handler.NewJobHandler(
			job.NewCreateJobUseCase(store.Jobs()),
			job.NewUpdateJobUseCase(store.Jobs()),
			job.NewDeleteJobUseCase(store.Jobs()),
			job.NewGetJobUseCase(store.Jobs()),
			job.NewListJobsUseCase(store.Jobs(), store.Users()),
		),
		Proposal: handler.NewProposalHandler(
			proposal.NewCreateProposalUseCase(store.Proposals(), store.Jobs()),
			proposal.NewUpdateProposalStatusUseCase(store.Proposals(), store.Jobs(), store, spawner),
			proposal.NewListJobProposalsUseCase(store.Proposals(), store.Jobs()),
			proposal.NewListMyProposalsUseCase(store.Proposals()),
		),
		Project: handler.NewProjectHandler(
			project.NewListProjectsUseCase(store.Projects()),
			project.NewMarkCompletedUseCase(store.Projects(), store, lifecycle),
			project.NewMarkPaidUseCase(store.Projects()),
		),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{"store": store}),
	}

	return &testServer{
		t:      t,
		engine: SetupRouter(cfg, handlers, tokens, rateStore),
		store:  store,
		tokens: tokens,
	}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// register регистрирует пользователя через API и возвращает его токен и ID.
func (s *testServer) register(name, email, role string) (string, string) {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "Secret123",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		User  struct{ ID string } `json:"user"`
		Token string              `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return res.Token, res.User.ID
}

func (s *testServer) tokenFor(u *entity.User) string {
	s.t.Helper()
	token, _, err := s.tokens.Generate(u)
	require.NoError(s.t, err)
	return token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type idStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

func jobBody() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Интеграция с CRM",
		"description":     "Синхронизация заказов с amoCRM",
		"budget":          2500,
		"deadline":        time.Now().Add(21 * 24 * time.Hour).Format(time.RFC3339),
		"required_skills": []string{"Go", "REST"},
	}
}

func proposalBody() map[string]interface{} {
	return map[string]interface{}{
		"proposal_text":  "Есть опыт с amoCRM",
		"estimated_cost": 2200,
		"delivery_time":  "2 недели",
	}
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)

	clientToken, clientID := s.register("Клиент", "client@example.com", "client")
	freelancerToken, freelancerID := s.register("Фрилансер", "freelancer@example.com", "freelancer")
	lateToken, _ := s.register("Опоздавший", "late@example.com", "freelancer")

	w, env := s.do(http.MethodPost, "/api/jobs", clientToken, jobBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[idStatus](t, env.Data)
	assert.Equal(t, "open", created.Status)

	w, env = s.do(http.MethodPost, "/api/jobs/"+created.ID+"/proposals", freelancerToken, proposalBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	prop := decode[idStatus](t, env.Data)
	assert.Equal(t, "pending", prop.Status)

	w, env = s.do(http.MethodGet, "/api/jobs/"+created.ID+"/proposals", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idStatus](t, env.Data), 1)

	w, env = s.do(http.MethodPut, "/api/proposals/"+prop.ID, clientToken, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decision := decode[struct {
		Proposal idStatus `json:"proposal"`
		Project  *struct {
			idStatus
			JobID        string `json:"job_id"`
			FreelancerID string `json:"freelancer_id"`
			ClientID     string `json:"client_id"`
		} `json:"project"`
	}](t, env.Data)
	assert.Equal(t, "accepted", decision.Proposal.Status)
	require.NotNil(t, decision.Project)
	assert.Equal(t, created.ID, decision.Project.JobID)
	assert.Equal(t, freelancerID, decision.Project.FreelancerID)
	assert.Equal(t, clientID, decision.Project.ClientID)
	assert.Equal(t, "active", decision.Project.Status)
	assert.Equal(t, "pending", decision.Project.PaymentStatus)
	projectID := decision.Project.ID

	w, env = s.do(http.MethodGet, "/api/jobs/"+created.ID, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", decode[idStatus](t, env.Data).Status)

	w, env = s.do(http.MethodPost, "/api/jobs/"+created.ID+"/proposals", lateToken, proposalBody())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, _ = s.do(http.MethodPut, "/api/projects/"+projectID+"/payment", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPut, "/api/projects/"+projectID+"/payment", freelancerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[idStatus](t, env.Data).PaymentStatus)

	w, env = s.do(http.MethodPut, "/api/projects/"+projectID+"/status", freelancerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decode[idStatus](t, env.Data).Status)

	w, env = s.do(http.MethodGet, "/api/jobs/"+created.ID, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode[idStatus](t, env.Data).Status)

	w, env = s.do(http.MethodGet, "/api/projects/user", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[[]struct {
		ID         string                 `json:"id"`
		Job        struct{ Title string } `json:"job"`
		Freelancer struct{ Email string } `json:"freelancer"`
	}](t, env.Data)
	require.Len(t, details, 1)
	assert.Equal(t, projectID, details[0].ID)
	assert.Equal(t, "Интеграция с CRM", details[0].Job.Title)
	assert.Equal(t, "freelancer@example.com", details[0].Freelancer.Email)

	w, env = s.do(http.MethodGet, "/api/proposals/my", freelancerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idStatus](t, env.Data), 1)
}

func TestUnknownFieldsRejected(t *testing.T) {
	s := newTestServer(t)
	clientToken, _ := s.register("Клиент", "client@example.com", "client")
	freelancerToken, _ := s.register("Фрилансер", "freelancer@example.com", "freelancer")

	w, env := s.do(http.MethodPost, "/api/jobs", clientToken, jobBody())
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decode[idStatus](t, env.Data).ID

	body := proposalBody()
	body["freelancer_id"] = "00000000-0000-0000-0000-000000000001"
	w, _ = s.do(http.MethodPost, "/api/jobs/"+jobID+"/proposals", freelancerToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	withOwner := jobBody()
	withOwner["client_id"] = "00000000-0000-0000-0000-000000000001"
	w, _ = s.do(http.MethodPost, "/api/jobs", clientToken, withOwner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	proposals, err := s.store.Proposals().FindByJobID(context.Background(), mustUUID(t, jobID))
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestRoleDenialsLeaveStateUnchanged(t *testing.T) {
	s := newTestServer(t)
	clientToken, _ := s.register("Клиент", "client@example.com", "client")
	otherClientToken, _ := s.register("Другой клиент", "other@example.com", "client")
	freelancerToken, _ := s.register("Фрилансер", "freelancer@example.com", "freelancer")

	w, _ := s.do(http.MethodPost, "/api/jobs", freelancerToken, jobBody())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodPost, "/api/jobs", clientToken, jobBody())
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decode[idStatus](t, env.Data).ID

	w, _ = s.do(http.MethodPost, "/api/jobs/"+jobID+"/proposals", clientToken, proposalBody())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPost, "/api/jobs/"+jobID+"/proposals", freelancerToken, proposalBody())
	require.Equal(t, http.StatusCreated, w.Code)
	proposalID := decode[idStatus](t, env.Data).ID

	w, _ = s.do(http.MethodPut, "/api/proposals/"+proposalID, freelancerToken, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/api/proposals/"+proposalID, otherClientToken, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/jobs/"+jobID+"/proposals", otherClientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/jobs/"+jobID, otherClientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/api/jobs/"+jobID, otherClientToken, map[string]string{"title": "Захват"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/api/proposals/"+proposalID, clientToken, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx := context.Background()
	j, err := s.store.Jobs().FindByID(ctx, mustUUID(t, jobID))
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusOpen, j.Status)
	assert.Equal(t, "Интеграция с CRM", j.Title)

	p, err := s.store.Proposals().FindByID(ctx, mustUUID(t, proposalID))
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusPending, p.Status)

	_, err = s.store.Projects().FindByJobID(ctx, j.ID)
	assert.Error(t, err)
}

func TestAdminPassesGates(t *testing.T) {
	s := newTestServer(t)
	clientToken, _ := s.register("Клиент", "client@example.com", "client")
	freelancerToken, _ := s.register("Фрилансер", "freelancer@example.com", "freelancer")

	admin := entity.NewUser("Админ", "admin@example.com", "hash", valueobject.RoleAdmin)
	require.NoError(t, s.store.Users().Create(context.Background(), admin))
	adminToken := s.tokenFor(admin)

	w, env := s.do(http.MethodPost, "/api/jobs", clientToken, jobBody())
	require.Equal(t, http.StatusCreated, w.Code)
	jobID := decode[idStatus](t, env.Data).ID

	w, env = s.do(http.MethodPost, "/api/jobs/"+jobID+"/proposals", freelancerToken, proposalBody())
	require.Equal(t, http.StatusCreated, w.Code)
	proposalID := decode[idStatus](t, env.Data).ID

	w, _ = s.do(http.MethodGet, "/api/jobs/"+jobID+"/proposals", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, "/api/proposals/"+proposalID, adminToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Хакер", "email": "root@example.com", "password": "Secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthAndHealth(t *testing.T) {
	s := newTestServer(t)
	s.register("Клиент", "client@example.com", "client")

	w, _ := s.do(http.MethodGet, "/api/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/jobs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "client@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}](t, env.Data)
	assert.NotEmpty(t, login.Token)
	assert.NotContains(t, login.User, "password")
	assert.NotContains(t, login.User, "password_hash")

	w, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "client@example.com", "password": "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Клиент", "email": "client@example.com", "password": "Secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodGet, "/api/jobs/not-a-uuid", login.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
