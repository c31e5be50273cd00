package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTypingService implements the service.TypingService interface
type MockTypingService struct {
	MockSignal func(user *domain.User, threadId domain.ThreadId) error
}

func (m *MockTypingService) Signal(user *domain.User, threadId domain.ThreadId) error {
	if m.MockSignal != nil {
		return m.MockSignal(user, threadId)
	}
	return nil
}

func setupThreadTestHandler(messageService *MockMessageService, typingService *MockTypingService) *mux.Router {
	if typingService == nil {
		typingService = &MockTypingService{}
	}
	h := &Handler{message: messageService, typing: typingService}
	router := mux.NewRouter()
	router.HandleFunc("/v1/conversations", h.Conversations).Methods(http.MethodGet)
	router.HandleFunc("/v1/conversations/{thread}", h.GetThread).Methods(http.MethodGet)
	router.HandleFunc("/v1/conversations/{thread}", h.DeleteThread).Methods(http.MethodDelete)
	router.HandleFunc("/v1/conversations/{thread}/read", h.MarkThreadRead).Methods(http.MethodPost)
	router.HandleFunc("/v1/conversations/{thread}/typing", h.Typing).Methods(http.MethodPost)
	router.HandleFunc("/v1/conversations/{thread}/pin", h.PinThread).Methods(http.MethodPost)
	return router
}

func TestGetThreadHandler(t *testing.T) {
	user := testUser("alice")
	threadId := uuid.New()
	route := "/v1/conversations/" + threadId.String()

	t.Run("successful get", func(t *testing.T) {
		expected := []domain.MessageView{
			{Id: uuid.New(), ThreadId: threadId, Content: "hi", IsMine: true},
			{Id: uuid.New(), ThreadId: threadId, Content: "hello"},
		}
		mockService := &MockMessageService{
			MockThread: func(u *domain.User, id domain.ThreadId) ([]domain.MessageView, error) {
				assert.Equal(t, threadId, id)
				return expected, nil
			},
		}
		router := setupThreadTestHandler(mockService, nil)

		req := withUser(createRequest(t, http.MethodGet, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var views []domain.MessageView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
		assert.Len(t, views, 2)
		assert.Equal(t, expected[0].Id, views[0].Id)
	})

	t.Run("not a participant", func(t *testing.T) {
		mockService := &MockMessageService{
			MockThread: func(u *domain.User, id domain.ThreadId) ([]domain.MessageView, error) {
				return nil, internal_errors.Forbidden("Not a participant of this thread")
			},
		}
		router := setupThreadTestHandler(mockService, nil)

		req := withUser(createRequest(t, http.MethodGet, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("bad thread id format", func(t *testing.T) {
		router := setupThreadTestHandler(&MockMessageService{}, nil)

		req := withUser(createRequest(t, http.MethodGet, "/v1/conversations/abc", nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid thread id")
	})
}

func TestConversationsHandler(t *testing.T) {
	user := testUser("alice")

	mockService := &MockMessageService{
		MockConversations: func(u *domain.User) ([]domain.MessageView, error) {
			assert.Equal(t, user, u)
			return []domain.MessageView{{Id: uuid.New(), Content: "latest"}}, nil
		},
	}
	router := setupThreadTestHandler(mockService, nil)

	req := withUser(createRequest(t, http.MethodGet, "/v1/conversations", nil), user)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var views []domain.MessageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}

func TestMarkThreadReadHandler(t *testing.T) {
	user := testUser("alice")
	threadId := uuid.New()
	route := "/v1/conversations/" + threadId.String() + "/read"

	t.Run("returns read ids", func(t *testing.T) {
		readIds := []domain.MsgId{uuid.New(), uuid.New()}
		mockService := &MockMessageService{
			MockMarkRead: func(u *domain.User, id domain.ThreadId) ([]domain.MsgId, error) {
				assert.Equal(t, threadId, id)
				return readIds, nil
			},
		}
		router := setupThreadTestHandler(mockService, nil)

		req := withUser(createRequest(t, http.MethodPost, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			ReadMessageIds []domain.MsgId `json:"read_message_ids"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, readIds, body.ReadMessageIds)
	})

	t.Run("nothing unread", func(t *testing.T) {
		router := setupThreadTestHandler(&MockMessageService{}, nil)

		req := withUser(createRequest(t, http.MethodPost, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"read_message_ids": null}`, rr.Body.String())
	})
}

func TestTypingHandler(t *testing.T) {
	user := testUser("alice")
	threadId := uuid.New()
	route := "/v1/conversations/" + threadId.String() + "/typing"

	t.Run("successful signal", func(t *testing.T) {
		called := false
		typingService := &MockTypingService{
			MockSignal: func(u *domain.User, id domain.ThreadId) error {
				called = true
				assert.Equal(t, user, u)
				assert.Equal(t, threadId, id)
				return nil
			},
		}
		router := setupThreadTestHandler(&MockMessageService{}, typingService)

		req := withUser(createRequest(t, http.MethodPost, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
	})

	t.Run("outsider", func(t *testing.T) {
		typingService := &MockTypingService{
			MockSignal: func(u *domain.User, id domain.ThreadId) error {
				return internal_errors.Forbidden("Not a participant of this thread")
			},
		}
		router := setupThreadTestHandler(&MockMessageService{}, typingService)

		req := withUser(createRequest(t, http.MethodPost, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestPinThreadHandler(t *testing.T) {
	user := testUser("alice")
	threadId := uuid.New()
	route := "/v1/conversations/" + threadId.String() + "/pin"

	mockService := &MockMessageService{
		MockPinThread: func(u *domain.User, id domain.ThreadId) (bool, error) {
			assert.Equal(t, threadId, id)
			return false, nil
		},
	}
	router := setupThreadTestHandler(mockService, nil)

	req := withUser(createRequest(t, http.MethodPost, route, nil), user)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"pinned": false}`, rr.Body.String())
}

func TestDeleteThreadHandler(t *testing.T) {
	user := testUser("alice")
	threadId := uuid.New()
	route := "/v1/conversations/" + threadId.String()

	t.Run("participant deletes", func(t *testing.T) {
		var gotThread domain.ThreadId
		mockService := &MockMessageService{
			MockDeleteThread: func(u *domain.User, id domain.ThreadId) error {
				assert.Equal(t, user, u)
				gotThread = id
				return nil
			},
		}
		router := setupThreadTestHandler(mockService, nil)

		req := withUser(createRequest(t, http.MethodDelete, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, threadId, gotThread)
	})

	t.Run("outsider", func(t *testing.T) {
		mockService := &MockMessageService{
			MockDeleteThread: func(u *domain.User, id domain.ThreadId) error {
				return internal_errors.Forbidden("Not a participant of this thread")
			},
		}
		router := setupThreadTestHandler(mockService, nil)

		req := withUser(createRequest(t, http.MethodDelete, route, nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("bad thread id", func(t *testing.T) {
		router := setupThreadTestHandler(&MockMessageService{}, nil)

		req := withUser(createRequest(t, http.MethodDelete, "/v1/conversations/not-a-uuid", nil), user)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
